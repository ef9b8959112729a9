// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"github.com/dblohm7/comkit"
)

// IID is a GUID that represents an interface ID.
type IID comkit.GUID

// CLSID is a GUID that represents a class ID.
type CLSID comkit.GUID

// String returns the canonical braced form of iid.
func (iid *IID) String() string {
	return comkit.GUIDString(comkit.GUID(*iid))
}

// String returns the canonical braced form of clsid.
func (clsid *CLSID) String() string {
	return comkit.GUIDString(comkit.GUID(*clsid))
}

// MustParseIID parses s and panics if it is malformed. It is intended for
// package-level interface ID declarations.
func MustParseIID(s string) *IID {
	iid := IID(comkit.MustParseGUID(s))
	return &iid
}

// MustParseCLSID is the CLSID counterpart of MustParseIID.
func MustParseCLSID(s string) *CLSID {
	clsid := CLSID(comkit.MustParseGUID(s))
	return &clsid
}

type coCLSCTX uint32

const (
	// We intentionally do not define combinations of these values, as in my experience
	// people don't realize what they're doing when they use those.
	coCLSCTX_INPROC_SERVER = coCLSCTX(0x1)
	coCLSCTX_LOCAL_SERVER  = coCLSCTX(0x4)
	coCLSCTX_REMOTE_SERVER = coCLSCTX(0x10)
)

type coINIT uint32

const (
	coINIT_MULTITHREADED     = coINIT(0x0)
	coINIT_APARTMENTTHREADED = coINIT(0x2)
	coINIT_DISABLE_OLE1DDE   = coINIT(0x4)
)

type coAPTTYPE int32

const (
	coAPTTYPE_CURRENT = coAPTTYPE(-1)
	coAPTTYPE_STA     = coAPTTYPE(0)
	coAPTTYPE_MTA     = coAPTTYPE(1)
	coAPTTYPE_NA      = coAPTTYPE(2)
	coAPTTYPE_MAINSTA = coAPTTYPE(3)
)

type coAPTTYPEQUALIFIER int32

const (
	coAPTTYPEQUALIFIER_NONE               = coAPTTYPEQUALIFIER(0)
	coAPTTYPEQUALIFIER_IMPLICIT_MTA       = coAPTTYPEQUALIFIER(1)
	coAPTTYPEQUALIFIER_NA_ON_MTA          = coAPTTYPEQUALIFIER(2)
	coAPTTYPEQUALIFIER_NA_ON_STA          = coAPTTYPEQUALIFIER(3)
	coAPTTYPEQUALIFIER_NA_ON_IMPLICIT_MTA = coAPTTYPEQUALIFIER(4)
	coAPTTYPEQUALIFIER_NA_ON_MAINSTA      = coAPTTYPEQUALIFIER(5)
	coAPTTYPEQUALIFIER_APPLICATION_STA    = coAPTTYPEQUALIFIER(6)
)

type aptInfo struct {
	apt       coAPTTYPE
	qualifier coAPTTYPEQUALIFIER
}
