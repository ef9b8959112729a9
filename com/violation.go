// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"fmt"
)

// ContractViolation is the panic value used when a caller breaks an invariant
// this package cannot safely continue past: a nil object pointer where a live
// one is required, a vtable slot outside the interface, a refcount going
// negative, or an apartment closed on the wrong thread.
type ContractViolation struct {
	Op     string
	Detail string
}

func (cv *ContractViolation) Error() string {
	return fmt.Sprintf("com: contract violation in %s: %s", cv.Op, cv.Detail)
}

func violation(op, format string, args ...any) {
	panic(&ContractViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}
