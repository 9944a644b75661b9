package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arbiter-hq/gavel/pkg/policy"
)

// writeRuleFile writes one rule file with a single always-true deny rule
// carrying the given ID.
func writeRuleFile(t *testing.T, path, id string) {
	t.Helper()
	content := fmt.Sprintf(`rules:
  - id: %s
    name: fixture
    description: Test fixture rule.
    severity: deny
    conditions:
      always: true
`, id)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileSource_Load_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yaml")
	writeRuleFile(t, path, "GVL-TEST-001")

	src := NewFileSource(path)
	policies, err := src.Load(context.Background())

	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(policies) != 1 {
		t.Fatalf("Load() returned %d policies, want 1", len(policies))
	}
	if policies[0].ID != "GVL-TEST-001" {
		t.Errorf("policy ID = %q, want %q", policies[0].ID, "GVL-TEST-001")
	}
	if policies[0].SourceFile != path {
		t.Errorf("SourceFile = %q, want %q", policies[0].SourceFile, path)
	}
}

func TestFileSource_Load_DirectoryLexicographicOrder(t *testing.T) {
	tmpDir := t.TempDir()
	// Written out of order; load order must follow path order.
	writeRuleFile(t, filepath.Join(tmpDir, "20-second.yaml"), "GVL-TEST-002")
	writeRuleFile(t, filepath.Join(tmpDir, "10-first.yml"), "GVL-TEST-001")

	src := NewFileSource(tmpDir)
	policies, err := src.Load(context.Background())

	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(policies) != 2 {
		t.Fatalf("Load() returned %d policies, want 2", len(policies))
	}
	if policies[0].ID != "GVL-TEST-001" || policies[1].ID != "GVL-TEST-002" {
		t.Errorf("order = [%s %s], want [GVL-TEST-001 GVL-TEST-002]",
			policies[0].ID, policies[1].ID)
	}
}

func TestFileSource_Load_SkipsHiddenAndForeignFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeRuleFile(t, filepath.Join(tmpDir, "rules.yaml"), "GVL-TEST-001")
	writeRuleFile(t, filepath.Join(tmpDir, ".hidden.yaml"), "GVL-TEST-002")
	if err := os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("docs"), 0o644); err != nil {
		t.Fatal(err)
	}

	hiddenDir := filepath.Join(tmpDir, ".git")
	if err := os.MkdirAll(hiddenDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeRuleFile(t, filepath.Join(hiddenDir, "buried.yaml"), "GVL-TEST-003")

	src := NewFileSource(tmpDir)
	policies, err := src.Load(context.Background())

	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(policies) != 1 {
		t.Fatalf("Load() returned %d policies, want 1", len(policies))
	}
	if policies[0].ID != "GVL-TEST-001" {
		t.Errorf("policy ID = %q, want %q", policies[0].ID, "GVL-TEST-001")
	}
}

func TestFileSource_Load_NestedDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "governance")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeRuleFile(t, filepath.Join(tmpDir, "base.yaml"), "GVL-TEST-001")
	writeRuleFile(t, filepath.Join(nested, "extra.yaml"), "GVL-TEST-002")

	src := NewFileSource(tmpDir)
	policies, err := src.Load(context.Background())

	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(policies) != 2 {
		t.Errorf("Load() returned %d policies, want 2", len(policies))
	}
}

func TestFileSource_Load_MissingPath(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nonexistent"))
	_, err := src.Load(context.Background())

	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error type = %T, want *LoadError", err)
	}
	if !strings.Contains(loadErr.Message, "does not exist") {
		t.Errorf("LoadError message = %q, want to contain 'does not exist'", loadErr.Message)
	}
}

func TestFileSource_Load_EmptyDirectory(t *testing.T) {
	src := NewFileSource(t.TempDir())
	_, err := src.Load(context.Background())

	if err == nil {
		t.Fatal("Load() error = nil, want error for directory without rule files")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error type = %T, want *LoadError", err)
	}
	if !strings.Contains(loadErr.Message, "no rule files") {
		t.Errorf("LoadError message = %q, want to contain 'no rule files'", loadErr.Message)
	}
}

func TestFileSource_Load_AggregatesAllFailures(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "a.yaml"), []byte("rules:\n  - id: [bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "b.yaml"), []byte("rules: []"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeRuleFile(t, filepath.Join(tmpDir, "c.yaml"), "GVL-TEST-001")

	src := NewFileSource(tmpDir)
	_, err := src.Load(context.Background())

	if err == nil {
		t.Fatal("Load() error = nil, want aggregated errors")
	}
	var list *ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error type = %T, want *ErrorList", err)
	}
	if len(list.Errors) != 2 {
		t.Errorf("ErrorList holds %d errors, want 2 (one per broken file)", len(list.Errors))
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Error() = %q, want count header", err.Error())
	}
}

func TestFileSource_Load_InvalidUTF8(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yaml")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0xfd}, 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	_, err := src.Load(context.Background())

	if err == nil {
		t.Fatal("Load() error = nil, want error for invalid UTF-8")
	}
	if !strings.Contains(err.Error(), "UTF-8") {
		t.Errorf("error = %q, want to mention UTF-8", err.Error())
	}
}

func TestFileSource_Load_CancelledContext(t *testing.T) {
	tmpDir := t.TempDir()
	writeRuleFile(t, filepath.Join(tmpDir, "rules.yaml"), "GVL-TEST-001")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewFileSource(tmpDir)
	_, err := src.Load(ctx)

	if err == nil {
		t.Fatal("Load() error = nil, want error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("errors.Is(err, context.Canceled) = false, err = %v", err)
	}
}

func TestFileSource_Name(t *testing.T) {
	src := NewFileSource("/etc/gavel/rules")
	if got, want := src.Name(), "file:/etc/gavel/rules"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, want := src.Path(), "/etc/gavel/rules"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestStaticSource_Load(t *testing.T) {
	target := "docs/plan.md"
	src := &StaticSource{
		Policies: []*policy.Policy{
			{
				ID:          "GVL-TEST-001",
				Name:        "fixture",
				Description: "Test fixture rule.",
				Severity:    policy.SeverityAllow,
				Conditions:  policy.Conditions{Target: &target},
			},
		},
	}

	policies, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(policies) != 1 || policies[0].ID != "GVL-TEST-001" {
		t.Fatalf("Load() = %v, want the configured policy", policies)
	}

	// The returned slice is a copy; reordering it must not affect the
	// source.
	policies[0] = nil
	again, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if again[0] == nil {
		t.Error("mutating the returned slice changed the source's set")
	}

	if got, want := src.Name(), "static"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

func TestStaticSource_LoadEmpty(t *testing.T) {
	src := &StaticSource{}
	_, err := src.Load(context.Background())
	if err == nil {
		t.Fatal("Load() error = nil, want error for zero policies")
	}
}

func TestStaticSource_LoadConfiguredError(t *testing.T) {
	wantErr := errors.New("backing store down")
	src := &StaticSource{Err: wantErr}

	_, err := src.Load(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("Load() error = %v, want %v", err, wantErr)
	}
}
