// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package dxgi

//go:generate go run golang.org/x/sys/windows/mkwinsyscall -output zsyscall_windows.go mksyscall.go
//go:generate go run golang.org/x/tools/cmd/goimports -w zsyscall_windows.go

//sys createDXGIFactory1(iid *com.IID, factory **com.IUnknownABI) (hr comkit.HRESULT) = dxgi.CreateDXGIFactory1
