package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func redactingLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(buf, nil)))
}

func TestRedactingHandler_SensitiveKeys(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "token", key: "token", value: "supersecretvalue"},
		{name: "api key", key: "api_key", value: "sk-abc123xyz789"},
		{name: "password", key: "password", value: "hunter2hunter2"},
		{name: "authorization", key: "authorization", value: "Basic dXNlcjpwYXNz"},
		{name: "ssh passphrase", key: "ssh_key_passphrase", value: "opensesame"},
		{name: "mixed case", key: "GitToken", value: "ghp_longtokenvalue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := redactingLogger(buf)

			logger.Info("configured", tt.key, tt.value)

			output := buf.String()
			if strings.Contains(output, tt.value) {
				t.Errorf("secret value leaked into output: %s", output)
			}
			// A four character hint survives for identification.
			if !strings.Contains(output, tt.value[:4]+"***") {
				t.Errorf("expected masked value with prefix hint, got: %s", output)
			}
		})
	}
}

func TestRedactingHandler_NonSensitiveKeysUntouched(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := redactingLogger(buf)

	logger.Info("evaluated", "policy_id", "GVL-FS-001", "duration_ms", 12)

	output := buf.String()
	if !strings.Contains(output, "GVL-FS-001") {
		t.Errorf("non-sensitive string value was altered: %s", output)
	}
	if !strings.Contains(output, `"duration_ms":12`) {
		t.Errorf("non-sensitive numeric value was altered: %s", output)
	}
}

func TestRedactingHandler_PatternValues(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		leaked string
		want   string
	}{
		{
			name:   "bearer credential",
			value:  "request used Bearer abc123def456",
			leaked: "abc123def456",
			want:   "Bearer ***",
		},
		{
			name:   "sk-prefixed api key",
			value:  "called with sk-abcdef123456",
			leaked: "sk-abcdef123456",
			want:   "sk-***",
		},
		{
			name:   "inline password assignment",
			value:  "dsn is host=db password=hunter2 user=gavel",
			leaked: "hunter2",
			want:   "password=***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := redactingLogger(buf)

			// The key carries no hint, so only the value pattern fires.
			logger.Info("event", "detail", tt.value)

			output := buf.String()
			if strings.Contains(output, tt.leaked) {
				t.Errorf("secret leaked into output: %s", output)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("expected %q in output, got: %s", tt.want, output)
			}
		})
	}
}

func TestRedactingHandler_WithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := redactingLogger(buf).With("api_key", "sk-verysecretkey")

	logger.Info("derived logger")

	output := buf.String()
	if strings.Contains(output, "verysecretkey") {
		t.Errorf("secret attached via With leaked into output: %s", output)
	}
	if !strings.Contains(output, "sk-v***") {
		t.Errorf("expected masked value, got: %s", output)
	}
}

func TestRedactingHandler_Groups(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := redactingLogger(buf)

	logger.Info("connected", slog.Group("upstream",
		slog.String("host", "git.internal"),
		slog.String("password", "hunter2hunter2"),
	))

	output := buf.String()
	if strings.Contains(output, "hunter2hunter2") {
		t.Errorf("secret inside group leaked into output: %s", output)
	}
	if !strings.Contains(output, "git.internal") {
		t.Errorf("non-sensitive group member was altered: %s", output)
	}
}

func TestRedactingHandler_NumericSensitiveValue(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := redactingLogger(buf)

	logger.Info("event", "token", 1234567890)

	output := buf.String()
	if strings.Contains(output, "1234567890") {
		t.Errorf("numeric secret leaked into output: %s", output)
	}
	if !strings.Contains(output, "1234***") {
		t.Errorf("expected masked numeric value, got: %s", output)
	}
}

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no secrets",
			input: "rule GVL-FS-001 matched /workspace/out.txt",
			want:  "rule GVL-FS-001 matched /workspace/out.txt",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "bearer credential",
			input: "header Bearer tok123",
			want:  "header Bearer ***",
		},
		{
			name:  "api key",
			input: "using sk-abc123",
			want:  "using sk-***",
		},
		{
			name:  "password assignment",
			input: "password=hunter2",
			want:  "password=***",
		},
		{
			name:  "secret with colon separator",
			input: "secret: tellnoone",
			want:  "secret=***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{key: "token", want: true},
		{key: "api_key", want: true},
		{key: "Authorization", want: true},
		{key: "ssh_key_passphrase", want: true},
		{key: "policy_id", want: false},
		{key: "action_type", want: false},
		{key: "reason", want: false},
	}

	for _, tt := range tests {
		if got := isSensitiveKey(tt.key); got != tt.want {
			t.Errorf("isSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
