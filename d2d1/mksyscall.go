// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d2d1

//go:generate go run golang.org/x/sys/windows/mkwinsyscall -output zsyscall_windows.go mksyscall.go
//go:generate go run golang.org/x/tools/cmd/goimports -w zsyscall_windows.go

//sys d2d1CreateFactory(factoryType FactoryType, iid *com.IID, options *FactoryOptions, factory **com.IUnknownABI) (hr comkit.HRESULT) = d2d1.D2D1CreateFactory
