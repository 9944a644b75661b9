package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys marks attribute keys whose values are credentials no
// matter what they contain. Matching is case-insensitive on substrings.
var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token",
	"api_key", "apikey",
	"authorization", "auth",
	"passphrase",
	"private_key", "privatekey",
	"credential",
}

// Redactor rewrites values that look like credentials.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and its replacement.
type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor with the built-in secret patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			// Bearer credentials in header-shaped strings.
			{
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			// API keys in the common sk- shape.
			{
				regex:       regexp.MustCompile(`sk-[a-zA-Z0-9]+`),
				replacement: "sk-***",
			},
			// Inline assignments such as password=hunter2.
			{
				regex:       regexp.MustCompile(`(?i)(password|passwd|secret|token)[:=]\s*[^\s]+`),
				replacement: "${1}=***",
			},
		},
	}
}

// RedactString rewrites every secret pattern found in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range r.patterns {
		value = pattern.regex.ReplaceAllString(value, pattern.replacement)
	}
	return value
}

// redactAttr rewrites a single attribute. Group values are walked
// member by member.
func (r *Redactor) redactAttr(attr slog.Attr) slog.Attr {
	value := attr.Value.Resolve()

	if value.Kind() == slog.KindGroup {
		members := value.Group()
		redacted := make([]slog.Attr, len(members))
		for i, member := range members {
			redacted[i] = r.redactAttr(member)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redacted...)}
	}

	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, maskValue(value))
	}

	if value.Kind() == slog.KindString {
		return slog.String(attr.Key, r.RedactString(value.String()))
	}

	return slog.Attr{Key: attr.Key, Value: value}
}

// isSensitiveKey reports whether a key name indicates credential data.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// maskValue replaces a credential value, keeping a four character
// prefix as an identification hint.
func maskValue(value slog.Value) string {
	str := value.String()
	if str == "" {
		return ""
	}
	if len(str) <= 4 {
		return "***"
	}
	return str[:4] + "***"
}

// RedactingHandler is a slog.Handler middleware that rewrites
// credential-looking attribute values before they reach the wrapped
// handler.
type RedactingHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps inner with secret redaction.
func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{
		inner:    inner,
		redactor: NewRedactor(),
	}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(h.redactor.redactAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = h.redactor.redactAttr(attr)
	}
	return &RedactingHandler{
		inner:    h.inner.WithAttrs(redacted),
		redactor: h.redactor,
	}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{
		inner:    h.inner.WithGroup(name),
		redactor: h.redactor,
	}
}
