// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package com

import (
	"github.com/dblohm7/comkit"
)

// emulatedHost tracks apartment membership in process memory so that the
// apartment rules can be exercised where no COM runtime exists.
type emulatedHost struct {
	models map[uint64]ThreadingModel
}

func newApartmentHost() apartmentHost {
	return &emulatedHost{models: map[uint64]ThreadingModel{}}
}

func (h *emulatedHost) threadID() uint64 {
	return gettid()
}

// initialize and the other methods are called with apartmentsLock held.
func (h *emulatedHost) initialize(model ThreadingModel) comkit.HRESULT {
	tid := h.threadID()
	if cur, ok := h.models[tid]; ok {
		if cur != model {
			return comkit.RPC_E_CHANGED_MODE
		}
		return comkit.S_FALSE
	}
	h.models[tid] = model
	return comkit.S_OK
}

func (h *emulatedHost) uninitialize() {
	delete(h.models, h.threadID())
}

func (h *emulatedHost) current() (ThreadingModel, bool) {
	m, ok := h.models[h.threadID()]
	return m, ok
}
