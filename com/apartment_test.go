// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// onLockedThread runs f on a goroutine of its own, locked to its OS thread so
// that no other test shares the apartment state.
func onLockedThread(t *testing.T, f func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		f()
	}()
	<-done
}

func TestApartmentLifecycle(t *testing.T) {
	onLockedThread(t, func() {
		apt, err := InitApartment(ApartmentThreaded)
		require.NoError(t, err)
		assert.Equal(t, ApartmentThreaded, apt.Model())
		assert.True(t, IsCurrentOSThreadSTA())
		assert.False(t, IsCurrentOSThreadMTA())

		m, ok := CurrentThreadingModel()
		assert.True(t, ok)
		assert.Equal(t, ApartmentThreaded, m)

		require.NoError(t, apt.Close())
		require.NoError(t, apt.Close())
	})
}

func TestApartmentIncompatibleReinit(t *testing.T) {
	onLockedThread(t, func() {
		apt, err := InitApartment(ApartmentThreaded)
		require.NoError(t, err)
		defer apt.Close()

		_, err = InitApartment(MultiThreaded)
		assert.ErrorIs(t, err, ErrAlreadyInitializedIncompatibly)
		assert.True(t, IsCurrentOSThreadSTA(), "failed re-initialization must leave the thread as it was")

		_, err = InitApartment(ApartmentThreaded)
		assert.ErrorIs(t, err, ErrApartmentActive)
		assert.True(t, IsCurrentOSThreadSTA())
	})
}

func TestApartmentMTA(t *testing.T) {
	onLockedThread(t, func() {
		apt, err := InitApartment(MultiThreaded)
		require.NoError(t, err)
		assert.True(t, IsCurrentOSThreadMTA())

		_, err = InitApartment(ApartmentThreaded)
		assert.ErrorIs(t, err, ErrAlreadyInitializedIncompatibly)
		assert.True(t, IsCurrentOSThreadMTA())

		require.NoError(t, apt.Close())
	})
}

func TestApartmentInvalidModel(t *testing.T) {
	_, err := InitApartment(ThreadingModel(0))
	assert.Error(t, err)
	assert.Equal(t, "ThreadingModel(0)", ThreadingModel(0).String())
}

func TestApartmentCloseOnWrongThread(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "linux" {
		t.Skip("thread identity is not observable on " + runtime.GOOS)
	}

	aptc := make(chan *Apartment)
	release := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		apt, err := InitApartment(MultiThreaded)
		if err != nil {
			t.Error(err)
			close(aptc)
			return
		}
		aptc <- apt
		<-release
		assert.NoError(t, apt.Close())
	}()

	apt := <-aptc
	require.NotNil(t, apt)
	onLockedThread(t, func() {
		assert.Equal(t, "Apartment.Close", violationOp(func() { apt.Close() }))
	})
	close(release)
	<-finished
}

func TestApartmentCloseWarnsAboutLiveHandles(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	var destroyed atomic.Int32
	onLockedThread(t, func() {
		apt, err := InitApartment(MultiThreaded)
		require.NoError(t, err)

		o := Take[named](newTestObject(&destroyed).Face(namedInterface))
		require.NoError(t, apt.Close())
		require.NoError(t, o.Close())
	})

	assert.Equal(t, 1, logs.FilterMessage("closing apartment with live handles").Len())
	assert.Equal(t, int32(1), destroyed.Load())
}
