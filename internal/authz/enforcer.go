// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package authz

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/herbfinder/internal/logging"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Actions checked by the API.
const (
	ActionCreatePost    = "post:create"
	ActionReadPosts     = "post:read"
	ActionLikePost      = "post:like"
	ActionCreateComment = "comment:create"
	ActionReadComments  = "comment:read"
	ActionReadUserPosts = "user_posts:read"
	ActionAnalyze       = "plant:analyze"
)

// ErrForbidden is returned when the subject may not perform the action.
var ErrForbidden = errors.New("forbidden")

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath overrides the embedded model when the file exists.
	ModelPath string

	// PolicyPath overrides the embedded policy when the file exists.
	PolicyPath string
}

// Enforcer decides ownership-scoped actions. It is safe for concurrent use.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	security *logging.SecurityLogger
}

// NewEnforcer loads the model and policy. A nil config uses the embedded
// files.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = &EnforcerConfig{}
	}

	var m model.Model
	var err error
	if cfg.ModelPath != "" && fileExists(cfg.ModelPath) {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" && fileExists(cfg.PolicyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		security: logging.NewSecurityLogger(),
	}, nil
}

// loadEmbeddedPolicy parses "p, action, rule" lines.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) != 3 || parts[0] != "p" {
			return fmt.Errorf("malformed policy line %q", line)
		}
		if _, err := enforcer.AddPolicy(parts[1], parts[2]); err != nil {
			return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
		}
	}
	return nil
}

// Enforce reports whether subject may perform action on a resource owned
// by owner. owner may be empty for actions that are not ownership-scoped.
func (e *Enforcer) Enforce(subject, owner, action string) (bool, error) {
	start := time.Now()
	if subject == "" {
		RecordDecision(action, false, time.Since(start))
		return false, nil
	}

	allowed, err := e.enforcer.Enforce(subject, owner, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	RecordDecision(action, allowed, time.Since(start))
	return allowed, nil
}

// Authorize is Enforce that returns ErrForbidden on denial and logs the
// attempt with the caller's address.
func (e *Enforcer) Authorize(ctx context.Context, subject, owner, action, clientIP string) error {
	allowed, err := e.Enforce(subject, owner, action)
	if err != nil {
		return err
	}
	if !allowed {
		e.security.LogForbidden(subject, action, owner, clientIP)
		logging.Ctx(ctx).Debug().Str("action", action).Msg("Authorization denied")
		return fmt.Errorf("%w: %s", ErrForbidden, action)
	}
	return nil
}

// GetPolicy returns all policy rules.
func (e *Enforcer) GetPolicy() [][]string {
	//nolint:errcheck // GetPolicy only fails if enforcer is nil, which is a programming error
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
