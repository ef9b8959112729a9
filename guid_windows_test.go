// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package comkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

// The portable formatter and parser must agree with the host's own
// StringFromGUID2 rendering for arbitrary GUIDs.
func TestGUIDMatchesHost(t *testing.T) {
	for i := 0; i < 16; i++ {
		g, err := windows.GenerateGUID()
		require.NoError(t, err)

		hostStr := g.String()
		assert.Equal(t, hostStr, guidToString(g))

		parsed, err := ParseGUID(hostStr)
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
		assert.Equal(t, g, GUIDFromBytes(GUIDBytes(g)))
	}
}
