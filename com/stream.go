// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package com

import (
	"io"
	"runtime"
	"unsafe"

	"github.com/dblohm7/comkit"
	"golang.org/x/sys/windows"
)

var (
	IID_ISequentialStream = MustParseIID("0C733A30-2A1C-11CE-ADE5-00AA0044773D")
	IID_IStream           = MustParseIID("0000000C-0000-0000-C000-000000000046")
)

var (
	ISequentialStreamInterface = NewInterface("ISequentialStream", IID_ISequentialStream, IUnknownInterface,
		"Read", "Write")
	IStreamInterface = NewInterface("IStream", IID_IStream, ISequentialStreamInterface,
		"Seek", "SetSize", "CopyTo", "Commit", "Revert", "LockRegion", "UnlockRegion", "Stat", "Clone")
)

var (
	slotStreamRead         = IStreamInterface.MustSlot("Read")
	slotStreamWrite        = IStreamInterface.MustSlot("Write")
	slotStreamSeek         = IStreamInterface.MustSlot("Seek")
	slotStreamSetSize      = IStreamInterface.MustSlot("SetSize")
	slotStreamCopyTo       = IStreamInterface.MustSlot("CopyTo")
	slotStreamCommit       = IStreamInterface.MustSlot("Commit")
	slotStreamRevert       = IStreamInterface.MustSlot("Revert")
	slotStreamLockRegion   = IStreamInterface.MustSlot("LockRegion")
	slotStreamUnlockRegion = IStreamInterface.MustSlot("UnlockRegion")
	slotStreamStat         = IStreamInterface.MustSlot("Stat")
	slotStreamClone        = IStreamInterface.MustSlot("Clone")
)

type STGC uint32

const (
	STGC_DEFAULT                            = STGC(0)
	STGC_OVERWRITE                          = STGC(1)
	STGC_ONLYIFCURRENT                      = STGC(2)
	STGC_DANGEROUSLYCOMMITMERELYTODISKCACHE = STGC(4)
	STGC_CONSOLIDATE                        = STGC(8)
)

type LOCKTYPE uint32

const (
	LOCK_WRITE     = LOCKTYPE(1)
	LOCK_EXCLUSIVE = LOCKTYPE(2)
	LOCK_ONLYONCE  = LOCKTYPE(4)
)

type STGTY uint32

const (
	STGTY_STORAGE   = STGTY(1)
	STGTY_STREAM    = STGTY(2)
	STGTY_LOCKBYTES = STGTY(3)
	STGTY_PROPERTY  = STGTY(4)
)

type STATFLAG uint32

const (
	STATFLAG_DEFAULT = STATFLAG(0)
	STATFLAG_NONAME  = STATFLAG(1)
	STATFLAG_NOOPEN  = STATFLAG(2)
)

// COMAllocatedString encapsulates a UTF-16 string that was allocated by COM
// using its internal heap.
type COMAllocatedString uintptr

// Close frees the memory held by the string.
func (s *COMAllocatedString) Close() error {
	windows.CoTaskMemFree(unsafe.Pointer(*s))
	*s = 0
	return nil
}

func (s *COMAllocatedString) String() string {
	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(*s)))
}

type STATSTG struct {
	Name           COMAllocatedString
	Type           STGTY
	Size           uint64
	MTime          windows.Filetime
	CTime          windows.Filetime
	ATime          windows.Filetime
	Mode           uint32
	LocksSupported LOCKTYPE
	ClsID          CLSID
	_              uint32 // StateBits
	_              uint32 // reserved
}

func (st *STATSTG) Close() error {
	return st.Name.Close()
}

type ISequentialStreamABI struct {
	IUnknownABI
}

type IStreamABI struct {
	ISequentialStreamABI
}

// SequentialStream is the Object for ISequentialStream.
type SequentialStream struct {
	GenericObject[ISequentialStreamABI]
}

func (SequentialStream) Interface() *Interface {
	return ISequentialStreamInterface
}

func (SequentialStream) Make(abi *IUnknownABI) any {
	return SequentialStream{NewGenericObject[ISequentialStreamABI](abi)}
}

// Stream is the Object for IStream. It implements io.ReadWriteSeeker.
type Stream struct {
	GenericObject[IStreamABI]
}

func (Stream) Interface() *Interface {
	return IStreamInterface
}

func (Stream) Make(abi *IUnknownABI) any {
	return Stream{NewGenericObject[IStreamABI](abi)}
}

func (abi *ISequentialStreamABI) Read(p []byte) (int, error) {
	if len(p) > maxStreamRWLen {
		p = p[:maxStreamRWLen]
	}

	var cbRead uint32
	hr := abi.InvokeHR(slotStreamRead,
		uintptr(unsafe.Pointer(unsafe.SliceData(p))),
		uintptr(uint32(len(p))),
		uintptr(unsafe.Pointer(&cbRead)),
	)
	n := int(cbRead)
	if err := comkit.Check(hr); err != nil {
		return n, err
	}

	// Various implementations of IStream handle EOF differently. We need to
	// deal with both.
	if hr == comkit.S_FALSE || (n == 0 && len(p) > 0) {
		return n, io.EOF
	}

	return n, nil
}

func (abi *ISequentialStreamABI) Write(p []byte) (int, error) {
	w := p
	if len(w) > maxStreamRWLen {
		w = w[:maxStreamRWLen]
	}

	var cbWritten uint32
	hr := abi.InvokeHR(slotStreamWrite,
		uintptr(unsafe.Pointer(unsafe.SliceData(w))),
		uintptr(uint32(len(w))),
		uintptr(unsafe.Pointer(&cbWritten)),
	)
	n := int(cbWritten)
	if err := comkit.Check(hr); err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}

func (abi *IStreamABI) Seek(offset int64, whence int) (n int64, _ error) {
	var hr comkit.HRESULT
	if runtime.GOARCH == "386" {
		words := (*[2]uintptr)(unsafe.Pointer(&offset))
		hr = abi.InvokeHR(slotStreamSeek,
			words[0],
			words[1],
			uintptr(uint32(whence)),
			uintptr(unsafe.Pointer(&n)),
		)
	} else {
		hr = abi.InvokeHR(slotStreamSeek,
			uintptr(offset),
			uintptr(uint32(whence)),
			uintptr(unsafe.Pointer(&n)),
		)
	}

	if err := comkit.Check(hr); err != nil {
		return 0, err
	}
	return n, nil
}

func (abi *IStreamABI) SetSize(newSize uint64) error {
	var hr comkit.HRESULT
	if runtime.GOARCH == "386" {
		words := (*[2]uintptr)(unsafe.Pointer(&newSize))
		hr = abi.InvokeHR(slotStreamSetSize, words[0], words[1])
	} else {
		hr = abi.InvokeHR(slotStreamSetSize, uintptr(newSize))
	}
	return comkit.Check(hr)
}

func (abi *IStreamABI) CopyTo(dest *IStreamABI, numBytesToCopy uint64) (bytesRead, bytesWritten uint64, _ error) {
	var hr comkit.HRESULT
	if runtime.GOARCH == "386" {
		words := (*[2]uintptr)(unsafe.Pointer(&numBytesToCopy))
		hr = abi.InvokeHR(slotStreamCopyTo,
			uintptr(unsafe.Pointer(dest)),
			words[0],
			words[1],
			uintptr(unsafe.Pointer(&bytesRead)),
			uintptr(unsafe.Pointer(&bytesWritten)),
		)
	} else {
		hr = abi.InvokeHR(slotStreamCopyTo,
			uintptr(unsafe.Pointer(dest)),
			uintptr(numBytesToCopy),
			uintptr(unsafe.Pointer(&bytesRead)),
			uintptr(unsafe.Pointer(&bytesWritten)),
		)
	}
	return bytesRead, bytesWritten, comkit.Check(hr)
}

func (abi *IStreamABI) Commit(flags STGC) error {
	return comkit.Check(abi.InvokeHR(slotStreamCommit, uintptr(flags)))
}

func (abi *IStreamABI) Revert() error {
	return comkit.Check(abi.InvokeHR(slotStreamRevert))
}

func (abi *IStreamABI) lockOrUnlock(slot int, offset, numBytes uint64, lockType LOCKTYPE) error {
	var hr comkit.HRESULT
	if runtime.GOARCH == "386" {
		oWords := (*[2]uintptr)(unsafe.Pointer(&offset))
		nWords := (*[2]uintptr)(unsafe.Pointer(&numBytes))
		hr = abi.InvokeHR(slot,
			oWords[0],
			oWords[1],
			nWords[0],
			nWords[1],
			uintptr(lockType),
		)
	} else {
		hr = abi.InvokeHR(slot,
			uintptr(offset),
			uintptr(numBytes),
			uintptr(lockType),
		)
	}
	return comkit.Check(hr)
}

func (abi *IStreamABI) LockRegion(offset, numBytes uint64, lockType LOCKTYPE) error {
	return abi.lockOrUnlock(slotStreamLockRegion, offset, numBytes, lockType)
}

func (abi *IStreamABI) UnlockRegion(offset, numBytes uint64, lockType LOCKTYPE) error {
	return abi.lockOrUnlock(slotStreamUnlockRegion, offset, numBytes, lockType)
}

func (abi *IStreamABI) Stat(flags STATFLAG) (result STATSTG, _ error) {
	hr := abi.InvokeHR(slotStreamStat,
		uintptr(unsafe.Pointer(&result)),
		uintptr(flags),
	)
	return result, comkit.Check(hr)
}

func (abi *IStreamABI) Clone() (*IUnknownABI, error) {
	var result *IUnknownABI
	hr := abi.InvokeHR(slotStreamClone, uintptr(unsafe.Pointer(&result)))
	if err := comkit.Check(hr); err != nil {
		return nil, err
	}
	return result, nil
}

func (o SequentialStream) Read(buf []byte) (int, error) {
	return o.UnsafeUnwrap().Read(buf)
}

func (o SequentialStream) Write(buf []byte) (int, error) {
	return o.UnsafeUnwrap().Write(buf)
}

func (o Stream) Read(buf []byte) (int, error) {
	return o.UnsafeUnwrap().Read(buf)
}

func (o Stream) Write(buf []byte) (int, error) {
	return o.UnsafeUnwrap().Write(buf)
}

func (o Stream) Seek(offset int64, whence int) (int64, error) {
	return o.UnsafeUnwrap().Seek(offset, whence)
}

func (o Stream) SetSize(newSize uint64) error {
	return o.UnsafeUnwrap().SetSize(newSize)
}

func (o Stream) CopyTo(dest Stream, numBytesToCopy uint64) (bytesRead, bytesWritten uint64, _ error) {
	return o.UnsafeUnwrap().CopyTo(dest.UnsafeUnwrap(), numBytesToCopy)
}

func (o Stream) Commit(flags STGC) error {
	return o.UnsafeUnwrap().Commit(flags)
}

func (o Stream) Revert() error {
	return o.UnsafeUnwrap().Revert()
}

func (o Stream) LockRegion(offset, numBytes uint64, lockType LOCKTYPE) error {
	return o.UnsafeUnwrap().LockRegion(offset, numBytes, lockType)
}

func (o Stream) UnlockRegion(offset, numBytes uint64, lockType LOCKTYPE) error {
	return o.UnsafeUnwrap().UnlockRegion(offset, numBytes, lockType)
}

func (o Stream) Stat(flags STATFLAG) (STATSTG, error) {
	return o.UnsafeUnwrap().Stat(flags)
}

// Clone returns a new stream over the same bytes with its own seek pointer.
func (o Stream) Clone() (*Owned[Stream], error) {
	punk, err := o.UnsafeUnwrap().Clone()
	if err != nil {
		return nil, err
	}
	return Take[Stream](punk), nil
}

var testStreamForceLegacy bool

// NewMemoryStream creates a new in-memory Stream object initially containing a
// copy of initialBytes. Its seek pointer is guaranteed to reference the
// beginning of the stream.
func NewMemoryStream(initialBytes []byte) (*Owned[Stream], error) {
	if len(initialBytes) > maxStreamRWLen {
		return nil, comkit.ErrorFromHRESULT(comkit.E_OUTOFMEMORY)
	}

	// SHCreateMemStream exists on Win7 but is not safe for us to use until Win8.
	if testStreamForceLegacy || !comkit.IsWin8OrGreater() {
		return newMemoryStreamLegacy(initialBytes)
	}

	var base *byte
	var length uint32
	if l := uint32(len(initialBytes)); l > 0 {
		base = unsafe.SliceData(initialBytes)
		length = l
	}

	punk := shCreateMemStream(base, length)
	if punk == nil {
		return nil, comkit.ErrorFromHRESULT(comkit.E_OUTOFMEMORY)
	}

	obj := Take[Stream](punk)
	if _, err := obj.Get().Seek(0, io.SeekStart); err != nil {
		obj.Close()
		return nil, err
	}

	return obj, nil
}

func newMemoryStreamLegacy(initialBytes []byte) (*Owned[Stream], error) {
	obj, err := Create[Stream](func(iid *IID, out **IUnknownABI) comkit.HRESULT {
		return createStreamOnHGlobal(0, true, out)
	})
	if err != nil {
		return nil, err
	}

	s := obj.Get()
	if err := s.SetSize(uint64(len(initialBytes))); err != nil {
		obj.Close()
		return nil, err
	}
	if len(initialBytes) == 0 {
		return obj, nil
	}

	if _, err := s.Write(initialBytes); err != nil {
		obj.Close()
		return nil, err
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		obj.Close()
		return nil, err
	}

	return obj, nil
}
