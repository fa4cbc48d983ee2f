// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if got := len(GenerateCorrelationID()); got != 8 {
		t.Errorf("expected correlation ID length 8, got %d", got)
	}
	if got := len(GenerateRequestID()); got != 36 {
		t.Errorf("expected request ID length 36, got %d", got)
	}
	if GenerateRequestID() == GenerateRequestID() {
		t.Error("expected request IDs to be unique")
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" {
		t.Error("expected empty request ID on bare context")
	}
	if CorrelationIDFromContext(ctx) != "" {
		t.Error("expected empty correlation ID on bare context")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("expected request ID 'req-1', got %q", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("expected correlation ID 'corr-1', got %q", got)
	}
}

func TestCtxAddsFields(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)
	SetLogger(NewTestLogger(&buf))

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithNewCorrelationID(ctx)
	ctx = ContextWithUserID(ctx, "firebase-uid-0123456789")

	Ctx(ctx).Info().Msg("handled")

	output := buf.String()
	if !strings.Contains(output, `"request_id":"req-42"`) {
		t.Errorf("expected request_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"correlation_id":`) {
		t.Errorf("expected correlation_id in output, got: %s", output)
	}
	if strings.Contains(output, "firebase-uid-0123456789") {
		t.Errorf("expected user id to be masked, got: %s", output)
	}
	if !strings.Contains(output, `"user_id":"fire...6789"`) {
		t.Errorf("expected masked user_id, got: %s", output)
	}
}

func TestCtxWithoutValues(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)
	SetLogger(NewTestLogger(&buf))

	CtxErr(context.Background(), context.Canceled).Msg("aborted")

	output := buf.String()
	if strings.Contains(output, "request_id") {
		t.Errorf("did not expect request_id, got: %s", output)
	}
	if !strings.Contains(output, "context canceled") {
		t.Errorf("expected error text, got: %s", output)
	}
}
