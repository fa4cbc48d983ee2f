// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nickname string `json:"nickname" validate:"notblank,max=40"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,http_url"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     registration
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: registration{Email: "ann@example.com", Password: "secret1", Nickname: "ann"},
		},
		{
			name:      "missing email",
			input:     registration{Password: "secret1", Nickname: "ann"},
			wantField: "email",
			wantMsg:   "email is required",
		},
		{
			name:      "malformed email",
			input:     registration{Email: "ann", Password: "secret1", Nickname: "ann"},
			wantField: "email",
			wantMsg:   "email must be a valid email address",
		},
		{
			name:      "blank nickname",
			input:     registration{Email: "ann@example.com", Password: "secret1", Nickname: "   "},
			wantField: "nickname",
			wantMsg:   "nickname is required",
		},
		{
			name:      "short password",
			input:     registration{Email: "ann@example.com", Password: "abc", Nickname: "ann"},
			wantField: "password",
			wantMsg:   "password must be at least 6 characters",
		},
		{
			name:      "bad avatar",
			input:     registration{Email: "ann@example.com", Password: "secret1", Nickname: "ann", Avatar: "not a url"},
			wantField: "avatar",
			wantMsg:   "avatar must be a valid http or https URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&registration{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 3 {
		t.Errorf("expected 3 errors, got %d", len(verr.Errors()))
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("expected joined messages, got %q", verr.Error())
	}
}

func TestValidateStruct_ParamMessages(t *testing.T) {
	t.Parallel()

	type page struct {
		Limit int    `json:"limit" validate:"gte=1,lte=100"`
		Mode  string `json:"mode" validate:"oneof=jwks oidc"`
	}

	verr := ValidateStruct(&page{Limit: 0, Mode: "basic"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	msg := verr.Error()
	if !strings.Contains(msg, "limit must be greater than or equal to 1") {
		t.Errorf("missing gte message in %q", msg)
	}
	if !strings.Contains(msg, "mode must be one of: jwks oidc") {
		t.Errorf("missing oneof message in %q", msg)
	}
}
