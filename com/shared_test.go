// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSharedCloneAndClose(t *testing.T) {
	var destroyed atomic.Int32
	obj := newTestObject(&destroyed)

	owned := Take[calculator](obj.Face(calculatorInterface))
	before := snapshot()
	s := NewShared(owned)
	assert.False(t, owned.IsValid())
	assert.Equal(t, int32(1), obj.Refs())
	assert.Equal(t, counters{}, snapshot().sub(before))

	c1 := s.Clone()
	c2 := c1.Clone()
	assert.Equal(t, int32(3), obj.Refs())
	assert.Equal(t, s.AsRaw(), c2.AsRaw())
	assert.Equal(t, counters{acquired: 2, live: 2}, snapshot().sub(before))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, int32(2), obj.Refs())
	assert.Equal(t, uint32(42), c1.Get().Ping())

	require.NoError(t, c2.Close())
	assert.Equal(t, int32(0), destroyed.Load())
	require.NoError(t, c1.Close())
	assert.Equal(t, int32(1), destroyed.Load())
	assert.Equal(t, counters{acquired: 2, released: 3, live: -1}, snapshot().sub(before))

	assert.Equal(t, "Clone", violationOp(func() { c1.Clone() }))
}

func TestSharedDropOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for round := 0; round < 20; round++ {
		var destroyed atomic.Int32
		obj := newTestObject(&destroyed)

		handles := []*Shared[named]{NewShared(Take[named](obj.Face(namedInterface)))}
		n := 2 + rng.Intn(8)
		for i := 1; i < n; i++ {
			handles = append(handles, handles[rng.Intn(len(handles))].Clone())
		}
		require.Equal(t, int32(n), obj.Refs())

		rng.Shuffle(len(handles), func(i, j int) { handles[i], handles[j] = handles[j], handles[i] })
		for i, h := range handles {
			require.Equal(t, int32(0), destroyed.Load(), "destroyed with %d handles open", len(handles)-i)
			require.NoError(t, h.Close())
		}
		require.Equal(t, int32(1), destroyed.Load())
	}
}

func TestSharedConcurrentUse(t *testing.T) {
	var destroyed atomic.Int32
	obj := newTestObject(&destroyed)
	root := NewShared(Take[calculator](obj.Face(calculatorInterface)))

	const workers = 16
	clones := make([]*Shared[calculator], workers)
	for i := range clones {
		clones[i] = root.Clone()
	}
	require.NoError(t, root.Close())

	var wg sync.WaitGroup
	for _, c := range clones {
		wg.Add(1)
		go func(c *Shared[calculator]) {
			defer wg.Done()
			defer c.Close()
			for i := 0; i < 100; i++ {
				assert.Equal(t, int32(i+1), c.Get().Add(int32(i), 1))
				c.Clone().Close()
			}
		}(c)
	}
	wg.Wait()

	assert.Equal(t, int32(1), destroyed.Load())
}

func TestUpgradeDowngrade(t *testing.T) {
	var destroyed atomic.Int32
	obj := newTestObject(&destroyed)
	raw := obj.Face(namedInterface)

	before := snapshot()
	s := Upgrade[named](raw)
	assert.Equal(t, int32(2), obj.Refs(), "Upgrade adds a reference for the handle")
	assert.Equal(t, counters{acquired: 1, live: 1}, snapshot().sub(before))

	o := s.Downgrade()
	assert.False(t, s.IsValid())
	assert.Equal(t, raw, o.AsRaw())
	assert.Equal(t, int32(2), obj.Refs())
	assert.Equal(t, "Downgrade", violationOp(func() { s.Downgrade() }))

	require.NoError(t, o.Close())
	raw.Release()
	assert.Equal(t, int32(1), destroyed.Load())

	assert.Equal(t, "Upgrade", violationOp(func() { Upgrade[named](nil) }))
}

func TestNarrowShared(t *testing.T) {
	var destroyed atomic.Int32
	obj := newTestObject(&destroyed)
	s := NewShared(Take[scaledCalc](obj.Face(scaledCalcInterface)))
	raw := s.AsRaw()

	base := NarrowShared[calculator](s)
	assert.False(t, s.IsValid())
	assert.Equal(t, raw, base.AsRaw())
	assert.Equal(t, int32(1), obj.Refs())

	assert.Equal(t, "NarrowShared", violationOp(func() { NarrowShared[named](base) }))

	require.NoError(t, base.Close())
	assert.Equal(t, int32(1), destroyed.Load())
}

func TestGetInterface(t *testing.T) {
	var destroyed atomic.Int32
	obj := newTestObject(&destroyed)
	s := NewShared(Take[calculator](obj.Face(calculatorInterface)))
	defer s.Close()

	n, err := GetInterface[named](s)
	require.NoError(t, err)
	assert.True(t, s.IsValid())
	assert.Equal(t, int32(2), obj.Refs())
	id, err := n.Get().ID()
	require.NoError(t, err)
	assert.Equal(t, int32(7), id)
	require.NoError(t, n.Close())

	_, err = GetInterface[neverImplemented](s)
	assert.ErrorIs(t, err, ErrNoInterface)
	assert.Equal(t, int32(1), obj.Refs())
}

func TestLeakedHandleIsReportedNotReleased(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	var destroyed atomic.Int32
	obj := newTestObject(&destroyed)
	leaked := testutil.ToFloat64(leakedRefs)

	func() {
		s := NewShared(Take[named](obj.Face(namedInterface)))
		_ = s.Clone()
		require.NoError(t, s.Close())
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return logs.FilterMessageSnippet("reference is leaked").Len() > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(leakedRefs), leaked+1)

	// The finalizer never releases: the leaked clone's reference is still held.
	assert.Equal(t, int32(1), obj.Refs())
	assert.Zero(t, destroyed.Load())

	obj.Unknown().Release()
	assert.Equal(t, int32(1), destroyed.Load())
}
