// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package d2d1 binds the subset of Direct2D needed to create a device context
// on top of a DXGI device and draw into it.
package d2d1

import (
	"unsafe"

	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
	"github.com/dblohm7/comkit/dxgi"
)

var (
	IID_ID2D1Resource      = com.MustParseIID("2cd90691-12e2-11dc-9fed-001143a055f9")
	IID_ID2D1Image         = com.MustParseIID("65019f75-8da2-497c-b32c-dfa34e48ede6")
	IID_ID2D1Bitmap        = com.MustParseIID("a2296057-ea42-4099-983b-539fb6505426")
	IID_ID2D1Bitmap1       = com.MustParseIID("a898a84c-3873-4588-b08b-ebbf978df041")
	IID_ID2D1StrokeStyle   = com.MustParseIID("2cd9069d-12e2-11dc-9fed-001143a055f9")
	IID_ID2D1StrokeStyle1  = com.MustParseIID("10a72a66-e91c-43f4-993f-ddf4b82b0b4a")
	IID_ID2D1Device        = com.MustParseIID("47dd575d-ac05-4cdd-8049-9b02cd16f44c")
	IID_ID2D1RenderTarget  = com.MustParseIID("2cd90694-12e2-11dc-9fed-001143a055f9")
	IID_ID2D1DeviceContext = com.MustParseIID("e8f7fe7a-191c-466d-ad95-975678bda998")
	IID_ID2D1Factory       = com.MustParseIID("06152247-6f50-465a-9245-118bfd3b6007")
	IID_ID2D1Factory1      = com.MustParseIID("bb12d362-daee-4b9a-aa1d-14ba401cfa1f")
)

var (
	ResourceInterface = com.NewInterface("ID2D1Resource", IID_ID2D1Resource, com.IUnknownInterface,
		"GetFactory")
	ImageInterface  = com.NewInterface("ID2D1Image", IID_ID2D1Image, ResourceInterface)
	BitmapInterface = com.NewInterface("ID2D1Bitmap", IID_ID2D1Bitmap, ImageInterface,
		"GetSize", "GetPixelSize", "GetPixelFormat", "GetDpi",
		"CopyFromBitmap", "CopyFromRenderTarget", "CopyFromMemory")
	Bitmap1Interface = com.NewInterface("ID2D1Bitmap1", IID_ID2D1Bitmap1, BitmapInterface,
		"GetColorContext", "GetOptions", "GetSurface", "Map", "Unmap")
	StrokeStyleInterface = com.NewInterface("ID2D1StrokeStyle", IID_ID2D1StrokeStyle, ResourceInterface,
		"GetStartCap", "GetEndCap", "GetDashCap", "GetMiterLimit", "GetLineJoin",
		"GetDashOffset", "GetDashStyle", "GetDashesCount", "GetDashes")
	StrokeStyle1Interface = com.NewInterface("ID2D1StrokeStyle1", IID_ID2D1StrokeStyle1, StrokeStyleInterface,
		"GetStrokeTransformType")
	DeviceInterface = com.NewInterface("ID2D1Device", IID_ID2D1Device, ResourceInterface,
		"CreateDeviceContext", "CreatePrintControl", "SetMaximumTextureMemory",
		"GetMaximumTextureMemory", "ClearResources")
	RenderTargetInterface = com.NewInterface("ID2D1RenderTarget", IID_ID2D1RenderTarget, ResourceInterface,
		"CreateBitmap", "CreateBitmapFromWicBitmap", "CreateSharedBitmap", "CreateBitmapBrush",
		"CreateSolidColorBrush", "CreateGradientStopCollection", "CreateLinearGradientBrush",
		"CreateRadialGradientBrush", "CreateCompatibleRenderTarget", "CreateLayer", "CreateMesh",
		"DrawLine", "DrawRectangle", "FillRectangle", "DrawRoundedRectangle", "FillRoundedRectangle",
		"DrawEllipse", "FillEllipse", "DrawGeometry", "FillGeometry", "FillMesh", "FillOpacityMask",
		"DrawBitmap", "DrawText", "DrawTextLayout", "DrawGlyphRun", "SetTransform", "GetTransform",
		"SetAntialiasMode", "GetAntialiasMode", "SetTextAntialiasMode", "GetTextAntialiasMode",
		"SetTextRenderingParams", "GetTextRenderingParams", "SetTags", "GetTags", "PushLayer",
		"PopLayer", "Flush", "SaveDrawingState", "RestoreDrawingState", "PushAxisAlignedClip",
		"PopAxisAlignedClip",
		"Clear", "BeginDraw", "EndDraw", "GetPixelFormat", "SetDpi", "GetDpi", "GetSize",
		"GetPixelSize", "GetMaximumBitmapSize", "IsSupported")
	// Methods that overload a RenderTarget method of the same name carry a
	// "1" suffix.
	DeviceContextInterface = com.NewInterface("ID2D1DeviceContext", IID_ID2D1DeviceContext, RenderTargetInterface,
		"CreateBitmap1", "CreateBitmapFromWicBitmap1", "CreateColorContext",
		"CreateColorContextFromFilename", "CreateColorContextFromWicColorContext",
		"CreateBitmapFromDxgiSurface", "CreateEffect", "CreateGradientStopCollection1",
		"CreateImageBrush", "CreateBitmapBrush1", "CreateCommandList", "IsDxgiFormatSupported",
		"IsBufferPrecisionSupported", "GetImageLocalBounds", "GetImageWorldBounds",
		"GetGlyphRunWorldBounds", "GetDevice", "SetTarget", "GetTarget", "SetRenderingControls",
		"GetRenderingControls", "SetPrimitiveBlend", "GetPrimitiveBlend", "SetUnitMode",
		"GetUnitMode", "DrawGlyphRun1", "DrawImage", "DrawGdiMetafile", "DrawBitmap1", "PushLayer1",
		"InvalidateEffectInputRectangle", "GetEffectInvalidRectangleCount",
		"GetEffectInvalidRectangles", "GetEffectRequiredInputRectangles", "FillOpacityMask1")
	FactoryInterface = com.NewInterface("ID2D1Factory", IID_ID2D1Factory, com.IUnknownInterface,
		"ReloadSystemMetrics", "GetDesktopDpi", "CreateRectangleGeometry",
		"CreateRoundedRectangleGeometry", "CreateEllipseGeometry", "CreateGeometryGroup",
		"CreateTransformedGeometry", "CreatePathGeometry", "CreateStrokeStyle",
		"CreateDrawingStateBlock", "CreateWicBitmapRenderTarget", "CreateHwndRenderTarget",
		"CreateDxgiSurfaceRenderTarget", "CreateDCRenderTarget")
	Factory1Interface = com.NewInterface("ID2D1Factory1", IID_ID2D1Factory1, FactoryInterface,
		"CreateDevice", "CreateStrokeStyle1", "CreatePathGeometry1", "CreateDrawingStateBlock1",
		"CreateGdiMetafile", "RegisterEffectFromStream", "RegisterEffectFromString",
		"UnregisterEffect", "GetRegisteredEffects", "GetEffectProperties")
)

var (
	slotGetFactory          = ResourceInterface.MustSlot("GetFactory")
	slotReloadSystemMetrics = FactoryInterface.MustSlot("ReloadSystemMetrics")
	slotGetDesktopDpi       = FactoryInterface.MustSlot("GetDesktopDpi")
	slotCreateDevice        = Factory1Interface.MustSlot("CreateDevice")
	slotCreateDeviceContext = DeviceInterface.MustSlot("CreateDeviceContext")
	slotClear               = RenderTargetInterface.MustSlot("Clear")
	slotBeginDraw           = RenderTargetInterface.MustSlot("BeginDraw")
	slotEndDraw             = RenderTargetInterface.MustSlot("EndDraw")
	slotRenderTargetGetDpi  = RenderTargetInterface.MustSlot("GetDpi")
	slotSetTarget           = DeviceContextInterface.MustSlot("SetTarget")
	slotSetUnitMode         = DeviceContextInterface.MustSlot("SetUnitMode")
)

// D2DERR_RECREATE_TARGET is returned by EndDraw when the device was lost and
// every device-dependent resource must be recreated.
const D2DERR_RECREATE_TARGET = comkit.HRESULT(-((0x8899000C ^ 0xFFFFFFFF) + 1))

type FactoryType uint32

const (
	FACTORY_TYPE_SINGLE_THREADED = FactoryType(0)
	FACTORY_TYPE_MULTI_THREADED  = FactoryType(1)
)

type DebugLevel uint32

const (
	DEBUG_LEVEL_NONE        = DebugLevel(0)
	DEBUG_LEVEL_ERROR       = DebugLevel(1)
	DEBUG_LEVEL_WARNING     = DebugLevel(2)
	DEBUG_LEVEL_INFORMATION = DebugLevel(3)
)

type FactoryOptions struct {
	DebugLevel DebugLevel
}

type DeviceContextOptions uint32

const (
	DEVICE_CONTEXT_OPTIONS_NONE                               = DeviceContextOptions(0)
	DEVICE_CONTEXT_OPTIONS_ENABLE_MULTITHREADED_OPTIMIZATIONS = DeviceContextOptions(1)
)

type UnitMode uint32

const (
	UNIT_MODE_DIPS   = UnitMode(0)
	UNIT_MODE_PIXELS = UnitMode(1)
)

// ColorF is D2D1_COLOR_F.
type ColorF struct {
	R, G, B, A float32
}

type ResourceABI struct {
	com.IUnknownABI
}

type ImageABI struct {
	ResourceABI
}

type BitmapABI struct {
	ImageABI
}

type Bitmap1ABI struct {
	BitmapABI
}

type StrokeStyleABI struct {
	ResourceABI
}

type StrokeStyle1ABI struct {
	StrokeStyleABI
}

type DeviceABI struct {
	ResourceABI
}

type RenderTargetABI struct {
	ResourceABI
}

type DeviceContextABI struct {
	RenderTargetABI
}

type FactoryABI struct {
	com.IUnknownABI
}

type Factory1ABI struct {
	FactoryABI
}

// GetFactory returns the factory that created the resource.
func (abi *ResourceABI) GetFactory() *com.Owned[Factory] {
	var result *com.IUnknownABI
	abi.Invoke(slotGetFactory, uintptr(unsafe.Pointer(&result)))
	return com.Take[Factory](result)
}

// ReloadSystemMetrics refreshes the desktop DPI and other system settings.
func (abi *FactoryABI) ReloadSystemMetrics() error {
	return comkit.Check(abi.InvokeHR(slotReloadSystemMetrics))
}

func (abi *FactoryABI) GetDesktopDpi() (dpiX, dpiY float32) {
	abi.Invoke(slotGetDesktopDpi,
		uintptr(unsafe.Pointer(&dpiX)),
		uintptr(unsafe.Pointer(&dpiY)),
	)
	return dpiX, dpiY
}

// CreateDevice creates a Direct2D device that renders with dxgiDevice. It
// panics unless dxgiDevice is viewed as a dxgi.Device.
func (abi *Factory1ABI) CreateDevice(dxgiDevice com.Handle) (*com.Owned[Device], error) {
	var result *com.IUnknownABI
	hr := abi.InvokeHR(slotCreateDevice,
		uintptr(unsafe.Pointer(com.CheckArg("CreateDevice", dxgiDevice, dxgi.DeviceInterface))),
		uintptr(unsafe.Pointer(&result)),
	)
	if err := comkit.Check(hr); err != nil {
		return nil, err
	}
	return com.Take[Device](result), nil
}

func (abi *DeviceABI) CreateDeviceContext(opts DeviceContextOptions) (*com.Owned[DeviceContext], error) {
	var result *com.IUnknownABI
	hr := abi.InvokeHR(slotCreateDeviceContext,
		uintptr(opts),
		uintptr(unsafe.Pointer(&result)),
	)
	if err := comkit.Check(hr); err != nil {
		return nil, err
	}
	return com.Take[DeviceContext](result), nil
}

func (abi *RenderTargetABI) Clear(color *ColorF) {
	abi.Invoke(slotClear, uintptr(unsafe.Pointer(color)))
}

func (abi *RenderTargetABI) BeginDraw() {
	abi.Invoke(slotBeginDraw)
}

// EndDraw finishes drawing. When the device has been lost the error matches
// comkit.Error(D2DERR_RECREATE_TARGET).
func (abi *RenderTargetABI) EndDraw() (tag1, tag2 uint64, _ error) {
	hr := abi.InvokeHR(slotEndDraw,
		uintptr(unsafe.Pointer(&tag1)),
		uintptr(unsafe.Pointer(&tag2)),
	)
	return tag1, tag2, comkit.Check(hr)
}

// GetDpi returns the render target's DPI. The matching SetDpi takes its
// arguments in floating-point registers and is not callable through Invoke.
func (abi *RenderTargetABI) GetDpi() (dpiX, dpiY float32) {
	abi.Invoke(slotRenderTargetGetDpi,
		uintptr(unsafe.Pointer(&dpiX)),
		uintptr(unsafe.Pointer(&dpiY)),
	)
	return dpiX, dpiY
}

// SetTarget directs drawing into image, such as a Bitmap1 created over a swap
// chain buffer. The context adds its own reference. It panics unless image is
// viewed as an Image or a descendant.
func (abi *DeviceContextABI) SetTarget(image com.Handle) {
	abi.Invoke(slotSetTarget, uintptr(unsafe.Pointer(com.CheckArg("SetTarget", image, ImageInterface))))
}

func (abi *DeviceContextABI) SetUnitMode(mode UnitMode) {
	abi.Invoke(slotSetUnitMode, uintptr(mode))
}

type Resource struct {
	com.GenericObject[ResourceABI]
}

func (Resource) Interface() *com.Interface { return ResourceInterface }

func (Resource) Make(abi *com.IUnknownABI) any {
	return Resource{com.NewGenericObject[ResourceABI](abi)}
}

type Image struct {
	com.GenericObject[ImageABI]
}

func (Image) Interface() *com.Interface { return ImageInterface }

func (Image) Make(abi *com.IUnknownABI) any {
	return Image{com.NewGenericObject[ImageABI](abi)}
}

type Bitmap struct {
	com.GenericObject[BitmapABI]
}

func (Bitmap) Interface() *com.Interface { return BitmapInterface }

func (Bitmap) Make(abi *com.IUnknownABI) any {
	return Bitmap{com.NewGenericObject[BitmapABI](abi)}
}

type Bitmap1 struct {
	com.GenericObject[Bitmap1ABI]
}

func (Bitmap1) Interface() *com.Interface { return Bitmap1Interface }

func (Bitmap1) Make(abi *com.IUnknownABI) any {
	return Bitmap1{com.NewGenericObject[Bitmap1ABI](abi)}
}

type StrokeStyle struct {
	com.GenericObject[StrokeStyleABI]
}

func (StrokeStyle) Interface() *com.Interface { return StrokeStyleInterface }

func (StrokeStyle) Make(abi *com.IUnknownABI) any {
	return StrokeStyle{com.NewGenericObject[StrokeStyleABI](abi)}
}

type StrokeStyle1 struct {
	com.GenericObject[StrokeStyle1ABI]
}

func (StrokeStyle1) Interface() *com.Interface { return StrokeStyle1Interface }

func (StrokeStyle1) Make(abi *com.IUnknownABI) any {
	return StrokeStyle1{com.NewGenericObject[StrokeStyle1ABI](abi)}
}

type Device struct {
	com.GenericObject[DeviceABI]
}

func (Device) Interface() *com.Interface { return DeviceInterface }

func (Device) Make(abi *com.IUnknownABI) any {
	return Device{com.NewGenericObject[DeviceABI](abi)}
}

func (o Device) CreateDeviceContext(opts DeviceContextOptions) (*com.Owned[DeviceContext], error) {
	return o.UnsafeUnwrap().CreateDeviceContext(opts)
}

type RenderTarget struct {
	com.GenericObject[RenderTargetABI]
}

func (RenderTarget) Interface() *com.Interface { return RenderTargetInterface }

func (RenderTarget) Make(abi *com.IUnknownABI) any {
	return RenderTarget{com.NewGenericObject[RenderTargetABI](abi)}
}

func (o RenderTarget) Clear(color *ColorF) { o.UnsafeUnwrap().Clear(color) }

func (o RenderTarget) BeginDraw() { o.UnsafeUnwrap().BeginDraw() }

func (o RenderTarget) EndDraw() (tag1, tag2 uint64, _ error) { return o.UnsafeUnwrap().EndDraw() }

func (o RenderTarget) GetDpi() (dpiX, dpiY float32) { return o.UnsafeUnwrap().GetDpi() }

type DeviceContext struct {
	com.GenericObject[DeviceContextABI]
}

func (DeviceContext) Interface() *com.Interface { return DeviceContextInterface }

func (DeviceContext) Make(abi *com.IUnknownABI) any {
	return DeviceContext{com.NewGenericObject[DeviceContextABI](abi)}
}

func (o DeviceContext) Clear(color *ColorF) { o.UnsafeUnwrap().Clear(color) }

func (o DeviceContext) BeginDraw() { o.UnsafeUnwrap().BeginDraw() }

func (o DeviceContext) EndDraw() (tag1, tag2 uint64, _ error) { return o.UnsafeUnwrap().EndDraw() }

func (o DeviceContext) GetDpi() (dpiX, dpiY float32) { return o.UnsafeUnwrap().GetDpi() }

func (o DeviceContext) SetTarget(image com.Handle) { o.UnsafeUnwrap().SetTarget(image) }

func (o DeviceContext) SetUnitMode(mode UnitMode) { o.UnsafeUnwrap().SetUnitMode(mode) }

type Factory struct {
	com.GenericObject[FactoryABI]
}

func (Factory) Interface() *com.Interface { return FactoryInterface }

func (Factory) Make(abi *com.IUnknownABI) any {
	return Factory{com.NewGenericObject[FactoryABI](abi)}
}

func (o Factory) ReloadSystemMetrics() error { return o.UnsafeUnwrap().ReloadSystemMetrics() }

func (o Factory) GetDesktopDpi() (dpiX, dpiY float32) { return o.UnsafeUnwrap().GetDesktopDpi() }

type Factory1 struct {
	com.GenericObject[Factory1ABI]
}

func (Factory1) Interface() *com.Interface { return Factory1Interface }

func (Factory1) Make(abi *com.IUnknownABI) any {
	return Factory1{com.NewGenericObject[Factory1ABI](abi)}
}

func (o Factory1) ReloadSystemMetrics() error { return o.UnsafeUnwrap().ReloadSystemMetrics() }

func (o Factory1) GetDesktopDpi() (dpiX, dpiY float32) { return o.UnsafeUnwrap().GetDesktopDpi() }

func (o Factory1) CreateDevice(dxgiDevice com.Handle) (*com.Owned[Device], error) {
	return o.UnsafeUnwrap().CreateDevice(dxgiDevice)
}
