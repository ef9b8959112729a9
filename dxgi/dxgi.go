// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package dxgi binds the DXGI interfaces used to present Direct2D output:
// devices, adapters, factories and swap chains.
package dxgi

import (
	"unsafe"

	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
)

var (
	IID_IDXGIObject          = com.MustParseIID("aec22fb8-76f3-4639-9be0-28eb43a67a2e")
	IID_IDXGIDeviceSubObject = com.MustParseIID("3d3e0379-f9de-4d58-bb6c-18d62992f1a6")
	IID_IDXGIDevice          = com.MustParseIID("54ec77fa-1377-44e6-8c32-88fd5f44c84c")
	IID_IDXGIAdapter         = com.MustParseIID("2411e7e1-12ac-4ccf-bd14-9798e8534dc0")
	IID_IDXGIOutput          = com.MustParseIID("ae02eedb-c735-4690-8d52-5a8dc20213aa")
	IID_IDXGISurface         = com.MustParseIID("cafcb56c-6ac3-4889-bf47-9e23bbd260ec")
	IID_IDXGISwapChain       = com.MustParseIID("310d36a0-d2e7-4c0a-aa04-6a9d23b8886a")
	IID_IDXGISwapChain1      = com.MustParseIID("790a45f7-0d42-4876-983a-0a55cfe6f4aa")
	IID_IDXGIFactory         = com.MustParseIID("7b7166ec-21c7-44ae-b21a-c9ae321ae369")
	IID_IDXGIFactory1        = com.MustParseIID("770aae78-f26f-4dba-a829-253c83d1b387")
	IID_IDXGIFactory2        = com.MustParseIID("50c83a1c-e072-4c48-87b0-3630fa36a6d0")
)

var (
	ObjectInterface = com.NewInterface("IDXGIObject", IID_IDXGIObject, com.IUnknownInterface,
		"SetPrivateData", "SetPrivateDataInterface", "GetPrivateData", "GetParent")
	DeviceSubObjectInterface = com.NewInterface("IDXGIDeviceSubObject", IID_IDXGIDeviceSubObject, ObjectInterface,
		"GetDevice")
	DeviceInterface = com.NewInterface("IDXGIDevice", IID_IDXGIDevice, ObjectInterface,
		"GetAdapter", "CreateSurface", "QueryResourceResidency", "SetGPUThreadPriority",
		"GetGPUThreadPriority")
	AdapterInterface = com.NewInterface("IDXGIAdapter", IID_IDXGIAdapter, ObjectInterface,
		"EnumOutputs", "GetDesc", "CheckInterfaceSupport")
	OutputInterface = com.NewInterface("IDXGIOutput", IID_IDXGIOutput, ObjectInterface,
		"GetDesc", "GetDisplayModeList", "FindClosestMatchingMode", "WaitForVBlank",
		"TakeOwnership", "ReleaseOwnership", "GetGammaControlCapabilities", "SetGammaControl",
		"GetGammaControl", "SetDisplaySurface", "GetDisplaySurfaceData", "GetFrameStatistics")
	SurfaceInterface = com.NewInterface("IDXGISurface", IID_IDXGISurface, DeviceSubObjectInterface,
		"GetDesc", "Map", "Unmap")
	SwapChainInterface = com.NewInterface("IDXGISwapChain", IID_IDXGISwapChain, DeviceSubObjectInterface,
		"Present", "GetBuffer", "SetFullscreenState", "GetFullscreenState", "GetDesc",
		"ResizeBuffers", "ResizeTarget", "GetContainingOutput", "GetFrameStatistics",
		"GetLastPresentCount")
	SwapChain1Interface = com.NewInterface("IDXGISwapChain1", IID_IDXGISwapChain1, SwapChainInterface,
		"GetDesc1", "GetFullscreenDesc", "GetHwnd", "GetCoreWindow", "Present1",
		"IsTemporaryMonoSupported", "GetRestrictToOutput", "SetBackgroundColor",
		"GetBackgroundColor", "SetRotation", "GetRotation")
	FactoryInterface = com.NewInterface("IDXGIFactory", IID_IDXGIFactory, ObjectInterface,
		"EnumAdapters", "MakeWindowAssociation", "GetWindowAssociation", "CreateSwapChain",
		"CreateSoftwareAdapter")
	Factory1Interface = com.NewInterface("IDXGIFactory1", IID_IDXGIFactory1, FactoryInterface,
		"EnumAdapters1", "IsCurrent")
	Factory2Interface = com.NewInterface("IDXGIFactory2", IID_IDXGIFactory2, Factory1Interface,
		"IsWindowedStereoEnabled", "CreateSwapChainForHwnd", "CreateSwapChainForCoreWindow",
		"GetSharedResourceAdapterLuid", "RegisterStereoStatusWindow", "RegisterStereoStatusEvent",
		"UnregisterStereoStatus", "RegisterOcclusionStatusWindow", "RegisterOcclusionStatusEvent",
		"UnregisterOcclusionStatus", "CreateSwapChainForComposition")
)

var (
	slotGetParent   = ObjectInterface.MustSlot("GetParent")
	slotGetAdapter  = DeviceInterface.MustSlot("GetAdapter")
	slotPresent     = SwapChainInterface.MustSlot("Present")
	slotGetBuffer   = SwapChainInterface.MustSlot("GetBuffer")
	slotEnumAdapter = FactoryInterface.MustSlot("EnumAdapters")
	slotIsCurrent   = Factory1Interface.MustSlot("IsCurrent")
)

// Status codes returned by Present. They are successes, not errors.
const (
	DXGI_STATUS_OCCLUDED = comkit.HRESULT(0x087A0001)
)

// Failures specific to DXGI.
const (
	DXGI_ERROR_NOT_FOUND      = comkit.HRESULT(-((0x887A0002 ^ 0xFFFFFFFF) + 1))
	DXGI_ERROR_DEVICE_REMOVED = comkit.HRESULT(-((0x887A0005 ^ 0xFFFFFFFF) + 1))
)

type PresentFlags uint32

const (
	PRESENT_TEST               = PresentFlags(0x00000001)
	PRESENT_DO_NOT_SEQUENCE    = PresentFlags(0x00000002)
	PRESENT_RESTART            = PresentFlags(0x00000004)
	PRESENT_DO_NOT_WAIT        = PresentFlags(0x00000008)
	PRESENT_ALLOW_TEARING      = PresentFlags(0x00000200)
	PRESENT_RESTRICT_TO_OUTPUT = PresentFlags(0x00000040)
)

type ObjectABI struct {
	com.IUnknownABI
}

type DeviceSubObjectABI struct {
	ObjectABI
}

type DeviceABI struct {
	ObjectABI
}

type AdapterABI struct {
	ObjectABI
}

type OutputABI struct {
	ObjectABI
}

type SurfaceABI struct {
	DeviceSubObjectABI
}

type SwapChainABI struct {
	DeviceSubObjectABI
}

type SwapChain1ABI struct {
	SwapChainABI
}

type FactoryABI struct {
	ObjectABI
}

type Factory1ABI struct {
	FactoryABI
}

type Factory2ABI struct {
	Factory1ABI
}

// GetParent returns the object's parent viewed as T. Devices are parented by
// their adapter and adapters by their factory.
func GetParent[T com.Object](abi *ObjectABI) (*com.Owned[T], error) {
	return com.Create[T](func(iid *com.IID, out **com.IUnknownABI) comkit.HRESULT {
		return abi.InvokeHR(slotGetParent,
			uintptr(unsafe.Pointer(iid)),
			uintptr(unsafe.Pointer(out)),
		)
	})
}

func (abi *DeviceABI) GetAdapter() (*com.Owned[Adapter], error) {
	var result *com.IUnknownABI
	hr := abi.InvokeHR(slotGetAdapter, uintptr(unsafe.Pointer(&result)))
	if err := comkit.Check(hr); err != nil {
		return nil, err
	}
	return com.Take[Adapter](result), nil
}

// Present shows the back buffer. Qualified successes such as
// DXGI_STATUS_OCCLUDED are returned with a nil error so callers can throttle
// rendering while the window is hidden.
func (abi *SwapChainABI) Present(syncInterval uint32, flags PresentFlags) (comkit.HRESULT, error) {
	return comkit.CheckStatus(abi.InvokeHR(slotPresent, uintptr(syncInterval), uintptr(flags)))
}

// GetBuffer returns back buffer n viewed as T, usually Surface.
func GetBuffer[T com.Object](abi *SwapChainABI, n uint32) (*com.Owned[T], error) {
	return com.Create[T](func(iid *com.IID, out **com.IUnknownABI) comkit.HRESULT {
		return abi.InvokeHR(slotGetBuffer,
			uintptr(n),
			uintptr(unsafe.Pointer(iid)),
			uintptr(unsafe.Pointer(out)),
		)
	})
}

// EnumAdapters returns adapter i. The error matches
// comkit.Error(DXGI_ERROR_NOT_FOUND) once i runs past the last adapter.
func (abi *FactoryABI) EnumAdapters(i uint32) (*com.Owned[Adapter], error) {
	var result *com.IUnknownABI
	hr := abi.InvokeHR(slotEnumAdapter, uintptr(i), uintptr(unsafe.Pointer(&result)))
	if err := comkit.Check(hr); err != nil {
		return nil, err
	}
	return com.Take[Adapter](result), nil
}

// IsCurrent reports whether the factory still reflects the system's adapters.
func (abi *Factory1ABI) IsCurrent() bool {
	return int32(abi.Invoke(slotIsCurrent)) != 0
}

type Object struct {
	com.GenericObject[ObjectABI]
}

func (Object) Interface() *com.Interface { return ObjectInterface }

func (Object) Make(abi *com.IUnknownABI) any {
	return Object{com.NewGenericObject[ObjectABI](abi)}
}

type DeviceSubObject struct {
	com.GenericObject[DeviceSubObjectABI]
}

func (DeviceSubObject) Interface() *com.Interface { return DeviceSubObjectInterface }

func (DeviceSubObject) Make(abi *com.IUnknownABI) any {
	return DeviceSubObject{com.NewGenericObject[DeviceSubObjectABI](abi)}
}

type Device struct {
	com.GenericObject[DeviceABI]
}

func (Device) Interface() *com.Interface { return DeviceInterface }

func (Device) Make(abi *com.IUnknownABI) any {
	return Device{com.NewGenericObject[DeviceABI](abi)}
}

func (o Device) GetAdapter() (*com.Owned[Adapter], error) {
	return o.UnsafeUnwrap().GetAdapter()
}

type Adapter struct {
	com.GenericObject[AdapterABI]
}

func (Adapter) Interface() *com.Interface { return AdapterInterface }

func (Adapter) Make(abi *com.IUnknownABI) any {
	return Adapter{com.NewGenericObject[AdapterABI](abi)}
}

// Factory returns the factory that enumerated the adapter.
func (o Adapter) Factory() (*com.Owned[Factory2], error) {
	return GetParent[Factory2](&o.UnsafeUnwrap().ObjectABI)
}

type Output struct {
	com.GenericObject[OutputABI]
}

func (Output) Interface() *com.Interface { return OutputInterface }

func (Output) Make(abi *com.IUnknownABI) any {
	return Output{com.NewGenericObject[OutputABI](abi)}
}

type Surface struct {
	com.GenericObject[SurfaceABI]
}

func (Surface) Interface() *com.Interface { return SurfaceInterface }

func (Surface) Make(abi *com.IUnknownABI) any {
	return Surface{com.NewGenericObject[SurfaceABI](abi)}
}

type SwapChain struct {
	com.GenericObject[SwapChainABI]
}

func (SwapChain) Interface() *com.Interface { return SwapChainInterface }

func (SwapChain) Make(abi *com.IUnknownABI) any {
	return SwapChain{com.NewGenericObject[SwapChainABI](abi)}
}

func (o SwapChain) Present(syncInterval uint32, flags PresentFlags) (comkit.HRESULT, error) {
	return o.UnsafeUnwrap().Present(syncInterval, flags)
}

func (o SwapChain) Surface(n uint32) (*com.Owned[Surface], error) {
	return GetBuffer[Surface](o.UnsafeUnwrap(), n)
}

type SwapChain1 struct {
	com.GenericObject[SwapChain1ABI]
}

func (SwapChain1) Interface() *com.Interface { return SwapChain1Interface }

func (SwapChain1) Make(abi *com.IUnknownABI) any {
	return SwapChain1{com.NewGenericObject[SwapChain1ABI](abi)}
}

func (o SwapChain1) Present(syncInterval uint32, flags PresentFlags) (comkit.HRESULT, error) {
	return o.UnsafeUnwrap().Present(syncInterval, flags)
}

func (o SwapChain1) Surface(n uint32) (*com.Owned[Surface], error) {
	return GetBuffer[Surface](&o.UnsafeUnwrap().SwapChainABI, n)
}

type Factory struct {
	com.GenericObject[FactoryABI]
}

func (Factory) Interface() *com.Interface { return FactoryInterface }

func (Factory) Make(abi *com.IUnknownABI) any {
	return Factory{com.NewGenericObject[FactoryABI](abi)}
}

func (o Factory) EnumAdapters(i uint32) (*com.Owned[Adapter], error) {
	return o.UnsafeUnwrap().EnumAdapters(i)
}

type Factory1 struct {
	com.GenericObject[Factory1ABI]
}

func (Factory1) Interface() *com.Interface { return Factory1Interface }

func (Factory1) Make(abi *com.IUnknownABI) any {
	return Factory1{com.NewGenericObject[Factory1ABI](abi)}
}

func (o Factory1) EnumAdapters(i uint32) (*com.Owned[Adapter], error) {
	return o.UnsafeUnwrap().EnumAdapters(i)
}

func (o Factory1) IsCurrent() bool {
	return o.UnsafeUnwrap().IsCurrent()
}

type Factory2 struct {
	com.GenericObject[Factory2ABI]
}

func (Factory2) Interface() *com.Interface { return Factory2Interface }

func (Factory2) Make(abi *com.IUnknownABI) any {
	return Factory2{com.NewGenericObject[Factory2ABI](abi)}
}
