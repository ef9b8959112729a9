// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package comkit

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ParseGUID parses the textual form of a GUID, with or without enclosing
// braces, into the in-memory layout expected by COM.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, errors.Wrapf(err, "parsing GUID %q", s)
	}

	// uuid.UUID is stored in RFC 4122 (big-endian) order.
	return GUID{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
		Data4: [8]byte(u[8:16]),
	}, nil
}

// MustParseGUID is like ParseGUID but panics on malformed input. It is meant
// for package-level interface ID declarations.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// GUIDBytes returns the 16-byte wire encoding of g: the first three fields
// little-endian, followed by Data4 verbatim.
func GUIDBytes(g GUID) (b [16]byte) {
	binary.LittleEndian.PutUint32(b[0:4], g.Data1)
	binary.LittleEndian.PutUint16(b[4:6], g.Data2)
	binary.LittleEndian.PutUint16(b[6:8], g.Data3)
	copy(b[8:], g.Data4[:])
	return b
}

// GUIDFromBytes is the inverse of GUIDBytes.
func GUIDFromBytes(b [16]byte) GUID {
	return GUID{
		Data1: binary.LittleEndian.Uint32(b[0:4]),
		Data2: binary.LittleEndian.Uint16(b[4:6]),
		Data3: binary.LittleEndian.Uint16(b[6:8]),
		Data4: [8]byte(b[8:16]),
	}
}

func guidToString(guid GUID) string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		guid.Data1,
		guid.Data2,
		guid.Data3,
		guid.Data4[0],
		guid.Data4[1],
		guid.Data4[2],
		guid.Data4[3],
		guid.Data4[4],
		guid.Data4[5],
		guid.Data4[6],
		guid.Data4[7])
}

// GUIDString formats g in the canonical braced, upper-case form.
func GUIDString(g GUID) string {
	return guidToString(g)
}
