package logger

import (
	"log/slog"
	"strings"
)

// Key patterns whose values are always fully redacted.
var sensitiveKeyPatterns = []string{
	"passphrase",
	"password",
	"secret",
	"credential",
}

// minMaskedDigits is the shortest all-digit value treated as a phone or
// account number.
const minMaskedDigits = 5

// redactedValue is the placeholder for redacted secrets.
const redactedValue = "***REDACTED***"

// redactSensitive masks contact data and secrets in an attribute.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if masked := RedactString(v); masked != v {
			return slog.String(a.Key, masked)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// RedactString masks the contact data in a string value. Every
// space-separated word is checked on its own:
//
//	john@x.com -> j***@x.com
//	5551234    -> *****34
//
// Other words are returned unchanged.
func RedactString(value string) string {
	if !strings.ContainsAny(value, "@0123456789") {
		return value
	}
	words := strings.Split(value, " ")
	for i, w := range words {
		words[i] = maskWord(w)
	}
	return strings.Join(words, " ")
}

func maskWord(w string) string {
	switch {
	case isEmail(w):
		at := strings.LastIndex(w, "@")
		return w[:1] + "***" + w[at:]
	case isLongNumber(w):
		return strings.Repeat("*", len(w)-2) + w[len(w)-2:]
	default:
		return w
	}
}

// IsSensitiveKey checks if a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value looks like contact data that is
// masked in logs.
func IsSensitiveValue(value string) bool {
	return isEmail(value) || isLongNumber(value)
}

func isEmail(w string) bool {
	at := strings.LastIndex(w, "@")
	return at > 0 && at < len(w)-1
}

func isLongNumber(w string) bool {
	if len(w) < minMaskedDigits {
		return false
	}
	for _, r := range w {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
