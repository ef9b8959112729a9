// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"

	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

type probeResult struct {
	iface     *com.Interface
	supported bool
	err       error
}

func (r probeResult) String() string {
	switch {
	case r.supported:
		return fmt.Sprintf("  + %v", r.iface)
	case r.err != nil:
		return fmt.Sprintf("  ! %v: %v", r.iface, r.err)
	default:
		return fmt.Sprintf("  - %v", r.iface)
	}
}

// probeTargets resolves the interfaces named on the command line. Interface
// IDs without a known descriptor are probed as bare IUnknown derivatives.
func probeTargets(ids []string) ([]*com.Interface, error) {
	if len(ids) == 0 {
		return com.Registered(), nil
	}

	result := make([]*com.Interface, 0, len(ids))
	for _, s := range ids {
		g, err := comkit.ParseGUID(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing --iid %q", s)
		}
		iid := com.IID(g)
		iface, ok := com.LookupInterface(&iid)
		if !ok {
			iface = com.NewInterface("unknown", &iid, com.IUnknownInterface)
		}
		result = append(result, iface)
	}
	return result, nil
}

// probe asks h for each target in turn. Every interface obtained is released
// before the next query.
func probe(h com.Handle, targets []*com.Interface) []probeResult {
	unk := h.Unknown()
	results := make([]probeResult, 0, len(targets))
	for _, iface := range targets {
		r := probeResult{iface: iface}
		p, err := unk.QueryInterface(iface.IID())
		switch {
		case err == nil:
			r.supported = true
			com.Take[com.ObjectBase](p).Close()
		case !errors.Is(err, comkit.Error(comkit.E_NOINTERFACE)):
			r.err = err
		}
		results = append(results, r)
	}
	return results
}

func printStats(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrapf(err, "encoding %s", mf.GetName())
		}
	}
	return nil
}
