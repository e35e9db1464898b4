package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	secretKeys = map[string]struct{}{
		"password":      {},
		"token":         {},
		"access_token":  {},
		"bot_token":     {},
		"authorization": {},
	}
	bearerPattern   = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
	botTokenPattern = regexp.MustCompile(`\b\d{5,}:[A-Za-z0-9_-]{20,}\b`)
)

// redactAttr masks credentials by key, and JWTs or bot tokens embedded in
// string values such as wrapped error messages.
func redactAttr(attr slog.Attr) slog.Attr {
	if _, ok := secretKeys[strings.ToLower(attr.Key)]; ok {
		return slog.String(attr.Key, redacted)
	}
	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, RedactString(value.String()))
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			msg := err.Error()
			if masked := RedactString(msg); masked != msg {
				return slog.String(attr.Key, masked)
			}
		}
	}
	attr.Value = value
	return attr
}

// RedactString replaces JWTs and Telegram bot tokens in s.
func RedactString(s string) string {
	if !strings.Contains(s, "eyJ") && !strings.Contains(s, ":") {
		return s
	}
	s = bearerPattern.ReplaceAllString(s, redacted)
	return botTokenPattern.ReplaceAllString(s, redacted)
}
