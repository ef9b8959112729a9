// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package comkit

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var (
	verOnce sync.Once
	verInfo *windows.OsVersionInfoEx
)

func getVersionInfo() *windows.OsVersionInfoEx {
	verOnce.Do(func() {
		verInfo = windows.RtlGetVersion()
	})
	return verInfo
}

func isVerGE(lmajor, rmajor, lminor, rminor, lbuild, rbuild uint32) bool {
	return lmajor > rmajor ||
		lmajor == rmajor &&
			(lminor > rminor ||
				lminor == rminor && lbuild >= rbuild)
}

func isVerGEOS(major, minor, build uint32) bool {
	vi := getVersionInfo()
	return isVerGE(vi.MajorVersion, major, vi.MinorVersion, minor, vi.BuildNumber, build)
}

// IsWin8OrGreater reports whether the OS is Windows 8 or newer. Direct2D 1.1
// (ID2D1Factory1) and a usable SHCreateMemStream both require it.
func IsWin8OrGreater() bool {
	return isVerGEOS(6, 2, 0)
}

// IsWin10OrGreater reports whether the OS is Windows 10 or newer.
func IsWin10OrGreater() bool {
	return isVerGEOS(10, 0, 0)
}

func getUBR() (uint32, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return 0, err
	}
	defer key.Close()

	val, valType, err := key.GetIntegerValue("UBR")
	if err != nil {
		return 0, err
	}
	if valType != registry.DWORD {
		return 0, registry.ErrUnexpectedType
	}

	return uint32(val), nil
}

// OSVersion returns the OS version as major.minor.build, with the update build
// revision appended when the registry provides one.
func OSVersion() string {
	vi := getVersionInfo()
	if ubr, err := getUBR(); err == nil {
		return fmt.Sprintf("%d.%d.%d.%d", vi.MajorVersion, vi.MinorVersion, vi.BuildNumber, ubr)
	}
	return fmt.Sprintf("%d.%d.%d", vi.MajorVersion, vi.MinorVersion, vi.BuildNumber)
}
