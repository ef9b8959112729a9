// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package com

import (
	"unsafe"

	"github.com/dblohm7/comkit"
)

var (
	CLSID_GlobalOptions = MustParseCLSID("0000034B-0000-0000-C000-000000000046")
	IID_IGlobalOptions  = MustParseIID("0000015B-0000-0000-C000-000000000046")
)

var IGlobalOptionsInterface = NewInterface("IGlobalOptions", IID_IGlobalOptions, IUnknownInterface,
	"Set", "Query")

var (
	slotGlobalOptionsSet   = IGlobalOptionsInterface.MustSlot("Set")
	slotGlobalOptionsQuery = IGlobalOptionsInterface.MustSlot("Query")
)

type GLOBALOPT_PROPERTIES int32

const (
	COMGLB_EXCEPTION_HANDLING     = GLOBALOPT_PROPERTIES(1)
	COMGLB_APPID                  = GLOBALOPT_PROPERTIES(2)
	COMGLB_RPC_THREADPOOL_SETTING = GLOBALOPT_PROPERTIES(3)
	COMGLB_RO_SETTINGS            = GLOBALOPT_PROPERTIES(4)
	COMGLB_UNMARSHALING_POLICY    = GLOBALOPT_PROPERTIES(5)
)

const (
	COMGLB_EXCEPTION_HANDLE             = 0
	COMGLB_EXCEPTION_DONOT_HANDLE_FATAL = 1
	COMGLB_EXCEPTION_DONOT_HANDLE       = 1
	COMGLB_EXCEPTION_DONOT_HANDLE_ANY   = 2
)

// IGlobalOptionsABI represents the COM ABI for the IGlobalOptions interface.
type IGlobalOptionsABI struct {
	IUnknownABI
}

// GlobalOptions is the COM object used for setting global configuration settings
// on the COM runtime. It must be used before anything else "significant" is
// done using COM.
type GlobalOptions struct {
	GenericObject[IGlobalOptionsABI]
}

func (GlobalOptions) Interface() *Interface {
	return IGlobalOptionsInterface
}

func (GlobalOptions) Make(abi *IUnknownABI) any {
	return GlobalOptions{NewGenericObject[IGlobalOptionsABI](abi)}
}

func (abi *IGlobalOptionsABI) Set(prop GLOBALOPT_PROPERTIES, value uintptr) error {
	return comkit.Check(abi.InvokeHR(slotGlobalOptionsSet, uintptr(prop), value))
}

func (abi *IGlobalOptionsABI) Query(prop GLOBALOPT_PROPERTIES) (uintptr, error) {
	var result uintptr
	hr := abi.InvokeHR(slotGlobalOptionsQuery, uintptr(prop), uintptr(unsafe.Pointer(&result)))
	if err := comkit.Check(hr); err != nil {
		return 0, err
	}
	return result, nil
}

// Set sets the global property prop to value.
func (o GlobalOptions) Set(prop GLOBALOPT_PROPERTIES, value uintptr) error {
	return o.UnsafeUnwrap().Set(prop, value)
}

// Query returns the value of global property prop.
func (o GlobalOptions) Query(prop GLOBALOPT_PROPERTIES) (uintptr, error) {
	return o.UnsafeUnwrap().Query(prop)
}

// DisableExceptionHandling asks the COM runtime to let exceptions raised by
// objects crash the process instead of swallowing them.
func DisableExceptionHandling() error {
	opts, err := CreateInstance[GlobalOptions](CLSID_GlobalOptions)
	if err != nil {
		return err
	}
	defer opts.Close()
	return opts.Get().Set(COMGLB_EXCEPTION_HANDLING, COMGLB_EXCEPTION_DONOT_HANDLE_ANY)
}
