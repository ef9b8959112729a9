// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package com

//go:generate go run golang.org/x/sys/windows/mkwinsyscall -output zsyscall_windows.go mksyscall.go
//go:generate go run golang.org/x/tools/cmd/goimports -w zsyscall_windows.go

//sys coCreateInstance(clsid *CLSID, unkOuter *IUnknownABI, clsctx coCLSCTX, iid *IID, ppv **IUnknownABI) (hr comkit.HRESULT) = ole32.CoCreateInstance
//sys coGetApartmentType(aptType *coAPTTYPE, qual *coAPTTYPEQUALIFIER) (hr comkit.HRESULT) = ole32.CoGetApartmentType
//sys coInitializeEx(reserved uintptr, flags coINIT) (hr comkit.HRESULT) = ole32.CoInitializeEx
//sys coUninitialize() = ole32.CoUninitialize
//sys createStreamOnHGlobal(hglobal windows.Handle, deleteOnRelease bool, stream **IUnknownABI) (hr comkit.HRESULT) = ole32.CreateStreamOnHGlobal
//sys shCreateMemStream(pInit *byte, cbInit uint32) (stream *IUnknownABI) = shlwapi.SHCreateMemStream
