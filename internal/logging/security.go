// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is an auditable authentication or authorization outcome.
type SecurityEvent struct {
	// Event names the outcome, e.g. "user_registered", "token_rejected".
	Event     string
	UserID    string
	Email     string
	IPAddress string
	Success   bool
	Error     string
	Details   map[string]string
}

// SecurityLogger writes SecurityEvents with sensitive values masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global sink.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: With().Str("component", "security").Logger()}
}

// NewSecurityLoggerWithLogger creates a security logger writing to logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "security").Logger()}
}

// LogEvent writes event after sanitizing every field.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}
	e = e.Str("event", event.Event).Bool("success", event.Success)

	if event.UserID != "" {
		e = e.Str("user_id", SanitizeUserID(event.UserID))
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Error != "" && !event.Success {
		e = e.Str("reason", SanitizeError(event.Error))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}
	e.Msg("security event")
}

// LogRegistration records the outcome of an account registration.
func (l *SecurityLogger) LogRegistration(uid, email, ip string, err error) {
	ev := &SecurityEvent{Event: "user_registered", UserID: uid, Email: email, IPAddress: ip, Success: err == nil}
	if err != nil {
		ev.Event = "user_registration_failed"
		ev.Error = err.Error()
	}
	l.LogEvent(ev)
}

// LogAccountRollback records a compensating account deletion after a
// profile write failed.
func (l *SecurityLogger) LogAccountRollback(uid string, err error) {
	ev := &SecurityEvent{Event: "account_rollback", UserID: uid, Success: err == nil}
	if err != nil {
		ev.Error = err.Error()
	}
	l.LogEvent(ev)
}

// LogTokenRejected records a bearer token that failed verification.
func (l *SecurityLogger) LogTokenRejected(ip, reason string) {
	l.LogEvent(&SecurityEvent{Event: "token_rejected", IPAddress: ip, Error: reason})
}

// LogForbidden records an authenticated caller acting on another user's resource.
func (l *SecurityLogger) LogForbidden(uid, action, owner, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "forbidden",
		UserID:    uid,
		IPAddress: ip,
		Error:     "ownership mismatch",
		Details:   map[string]string{"action": action, "owner": SanitizeUserID(owner)},
	})
}

// SanitizeToken keeps the first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID keeps the first and last 4 characters.
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeEmail masks the local part: "ann.lee@example.com" -> "an***@example.com".
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

// SanitizeError collapses messages mentioning credentials and truncates the rest.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, pattern := range []string{"password", "secret", "token", "key", "bearer", "authorization"} {
		if strings.Contains(lower, pattern) {
			return "credential error"
		}
	}
	return truncateString(err, 200)
}

// SanitizeValue masks value when key names a credential, or when value looks like an email.
func SanitizeValue(key, value string) string {
	switch strings.ToLower(key) {
	case "id_token", "idtoken", "token", "password", "secret", "api_key", "apikey", "authorization", "bearer":
		return SanitizeToken(value)
	}
	if strings.Contains(value, "@") && strings.Contains(value, ".") {
		return SanitizeEmail(value)
	}
	return value
}

// SanitizeLogValue strips CR/LF from request-derived values and caps their length.
func SanitizeLogValue(s string) string {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	return truncateString(s, 256)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
