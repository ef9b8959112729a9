// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package modver

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var (
	ErrNotPresent            = errors.New("module has no version resource")
	errFixedFileInfoTooShort = errors.New("buffer smaller than VS_FIXEDFILEINFO")
	errFixedFileInfoBadSig   = errors.New("bad VS_FIXEDFILEINFO signature")
)

// Version is the file version of a module along with the path it was
// loaded from.
type Version struct {
	Path  string
	Major uint16
	Minor uint16
	Patch uint16
	Build uint16

	buf            []byte
	translationIDs []langAndCodePage
}

func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

type langAndCodePage struct {
	language uint16
	codePage uint16
}

const (
	enUS        = 0x0409
	langNeutral = 0
)

// ForModule returns the version of the loaded module mod.
func ForModule(mod windows.Handle) (*Version, error) {
	var pathBuf [windows.MAX_PATH + 1]uint16
	n, err := windows.GetModuleFileName(mod, &pathBuf[0], uint32(len(pathBuf)))
	if err != nil {
		return nil, errors.Wrap(err, "GetModuleFileName")
	}
	return ForFile(windows.UTF16ToString(pathBuf[:n]))
}

// ForFile returns the version of the PE file at path.
func ForFile(path string) (*Version, error) {
	bufSize, err := windows.GetFileVersionInfoSize(path, nil)
	if err != nil {
		if errors.Is(err, windows.ERROR_RESOURCE_TYPE_NOT_FOUND) {
			err = ErrNotPresent
		}
		return nil, errors.Wrapf(err, "reading version of %q", path)
	}

	buf := make([]byte, bufSize)
	if err := windows.GetFileVersionInfo(path, 0, bufSize, unsafe.Pointer(&buf[0])); err != nil {
		return nil, errors.Wrapf(err, "reading version of %q", path)
	}

	var fixed *windows.VS_FIXEDFILEINFO
	var fixedLen uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&buf[0]), `\`, unsafe.Pointer(&fixed), &fixedLen); err != nil {
		return nil, err
	}
	if fixedLen < uint32(unsafe.Sizeof(windows.VS_FIXEDFILEINFO{})) {
		return nil, errFixedFileInfoTooShort
	}
	if fixed.Signature != 0xFEEF04BD {
		return nil, errFixedFileInfoBadSig
	}

	// Preferred translations, in order of preference. No preference for code page.
	translationIDs := []langAndCodePage{{language: enUS}, {language: langNeutral}}

	var ids *langAndCodePage
	var idsNumBytes uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&buf[0]), `\VarFileInfo\Translation`, unsafe.Pointer(&ids), &idsNumBytes); err == nil {
		translationIDs = append(translationIDs, unsafe.Slice(ids, idsNumBytes/uint32(unsafe.Sizeof(*ids)))...)
	}

	return &Version{
		Path:           path,
		Major:          uint16(fixed.FileVersionMS >> 16),
		Minor:          uint16(fixed.FileVersionMS & 0xFFFF),
		Patch:          uint16(fixed.FileVersionLS >> 16),
		Build:          uint16(fixed.FileVersionLS & 0xFFFF),
		buf:            buf,
		translationIDs: translationIDs,
	}, nil
}

func (v *Version) queryWithLangAndCodePage(key string, lcp langAndCodePage) (string, error) {
	fq := fmt.Sprintf("\\StringFileInfo\\%04x%04x\\%s", lcp.language, lcp.codePage, key)

	var value *uint16
	var valueLen uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&v.buf[0]), fq, unsafe.Pointer(&value), &valueLen); err != nil {
		return "", err
	}

	return windows.UTF16ToString(unsafe.Slice(value, valueLen)), nil
}

// Field returns the string resource named key, such as "FileDescription" or
// "ProductVersion", trying English and language-neutral tables first.
func (v *Version) Field(key string) (string, error) {
	for _, lcp := range v.translationIDs {
		value, err := v.queryWithLangAndCodePage(key, lcp)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, windows.ERROR_RESOURCE_TYPE_NOT_FOUND) {
			return "", err
		}
	}

	return "", ErrNotPresent
}
