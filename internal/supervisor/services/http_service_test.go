// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// blockingServer blocks in ListenAndServe until Shutdown is called.
type blockingServer struct {
	started     chan struct{}
	stop        chan struct{}
	listenErr   error
	shutdownErr error
	shutdowns   atomic.Int32
}

func newBlockingServer() *blockingServer {
	return &blockingServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (s *blockingServer) ListenAndServe() error {
	select {
	case s.started <- struct{}{}:
	default:
	}
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *blockingServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.stop)
	}
	return s.shutdownErr
}

func TestHTTPServerService_Interface(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)
	var _ HTTPServer = (*http.Server)(nil)
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		if got := NewHTTPServerService(newBlockingServer(), d).shutdownTimeout; got != 10*time.Second {
			t.Errorf("timeout(%v) = %v, want 10s", d, got)
		}
	}
	if got := NewHTTPServerService(newBlockingServer(), 3*time.Second).shutdownTimeout; got != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Parallel()

	bindErr := errors.New("bind: address already in use")
	drainErr := errors.New("context deadline exceeded while draining")

	tests := []struct {
		name        string
		listenErr   error
		shutdownErr error
		want        error
	}{
		{"graceful shutdown", nil, nil, context.Canceled},
		{"startup failure", bindErr, nil, bindErr},
		{"shutdown failure", nil, drainErr, drainErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newBlockingServer()
			server.listenErr = tt.listenErr
			server.shutdownErr = tt.shutdownErr
			svc := NewHTTPServerService(server, time.Second)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			<-server.started
			if tt.listenErr == nil {
				cancel()
			}
			defer cancel()

			select {
			case err := <-errCh:
				if !errors.Is(err, tt.want) {
					t.Errorf("Serve() error = %v, want %v", err, tt.want)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Serve did not return")
			}
		})
	}
}

func TestHTTPServerService_RealServer(t *testing.T) {
	t.Parallel()

	server := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
		ReadHeaderTimeout: time.Second,
	}
	sup := suture.New("test", suture.Spec{Timeout: 2 * time.Second})
	sup.Add(NewHTTPServerService(server, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)
	<-ctx.Done()

	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not stop")
	}

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("ListenAndServe after shutdown = %v, want ErrServerClosed", err)
	}
}
