// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// stubService is a controllable suture.Service for tree tests.
type stubService struct {
	name       string
	startCount atomic.Int32
	stopCount  atomic.Int32
	failCount  atomic.Int32
	maxFails   int32
	err        error
	mu         sync.Mutex
}

// newStubService creates a new mock service for testing.
func newStubService(name string) *stubService {
	return &stubService{name: name}
}

// Serve implements suture.Service.
func (s *stubService) Serve(ctx context.Context) error {
	s.startCount.Add(1)
	defer s.stopCount.Add(1)

	s.mu.Lock()
	err := s.err
	maxFails := s.maxFails
	s.mu.Unlock()

	// If we have a fail count, fail that many times before succeeding
	if maxFails > 0 {
		current := s.failCount.Add(1)
		if current <= maxFails {
			return errors.New("simulated failure")
		}
	}

	// If error is set, return it immediately
	if err != nil {
		return err
	}

	// Otherwise, run until context is canceled
	<-ctx.Done()
	return ctx.Err()
}

// SetError configures the service to return this error immediately.
func (s *stubService) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// SetFailCount configures the service to fail N times before succeeding.
func (s *stubService) SetFailCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxFails = int32(n)
}

// StartCount returns how many times Serve was called.
func (s *stubService) StartCount() int32 {
	return s.startCount.Load()
}

// StopCount returns how many times Serve returned.
func (s *stubService) StopCount() int32 {
	return s.stopCount.Load()
}

// String implements fmt.Stringer for logging.
func (s *stubService) String() string {
	return s.name
}
