//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"arbiter-hq/gavel/pkg/audit"
	"arbiter-hq/gavel/pkg/audit/storage"
	"arbiter-hq/gavel/pkg/decision"
)

const validRuleSet = `rules:
  - id: GVL-SEC-001
    name: Block credential reads
    description: Deny reads of files holding credential material.
    severity: deny
    conditions:
      action_type: file.read
      target_contains: credentials
  - id: GVL-FS-001
    name: Workspace writes
    description: Permit writes inside the agent workspace.
    severity: allow
    conditions:
      action_type: file.write
`

const invalidRuleSet = `rules:
  - id: GVL-SEC-001
    name: First
    description: First definition.
    severity: deny
    conditions:
      action_type: file.read
  - id: GVL-SEC-001
    name: Second
    description: Second definition reusing the identifier.
    severity: deny
    conditions:
      action_type: file.write
`

// TestValidateCommand exercises rule validation through the built
// binary, including the distinct exit status for invalid rule sets.
func TestValidateCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildGavelBinary(t)

	validDir := t.TempDir()
	writeFile(t, filepath.Join(validDir, "rules.yaml"), validRuleSet)

	cmd := exec.Command(binaryPath, "validate", validDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("validate failed: %v\nOutput: %s", err, output)
	}
	if !bytes.Contains(output, []byte("Validated 2 policies")) {
		t.Errorf("validate output missing policy count, got: %s", output)
	}

	invalidDir := t.TempDir()
	writeFile(t, filepath.Join(invalidDir, "rules.yaml"), invalidRuleSet)

	cmd = exec.Command(binaryPath, "validate", invalidDir)
	output, err = cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("validate should fail for duplicate IDs, output: %s", output)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *exec.ExitError", err)
	}
	if exitErr.ExitCode() != 2 {
		t.Errorf("exit code = %d, want 2\nOutput: %s", exitErr.ExitCode(), output)
	}
}

// TestRulesListCommand lists a configured rule set through the binary.
func TestRulesListCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildGavelBinary(t)

	dir := t.TempDir()
	rulesDir := filepath.Join(dir, "rules")
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		t.Fatalf("creating rules dir: %v", err)
	}
	writeFile(t, filepath.Join(rulesDir, "rules.yaml"), validRuleSet)

	configFile := filepath.Join(dir, "gavel.yaml")
	writeFile(t, configFile, fmt.Sprintf("rules:\n  mode: file\n  path: %s\n", rulesDir))

	cmd := exec.Command(binaryPath, "rules", "list", "--config", configFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("rules list failed: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"GVL-SEC-001", "GVL-FS-001", "2 policies"} {
		if !bytes.Contains(output, []byte(want)) {
			t.Errorf("rules list output missing %q, got: %s", want, output)
		}
	}
}

// TestAuditQueryPipeline seeds a store in-process and queries it
// through the binary.
func TestAuditQueryPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildGavelBinary(t)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "audit.db")
	seedRecords(t, dbPath, []*audit.Record{
		record("rec-1", "GVL-SEC-001", decision.ResultDeny, time.Now().Add(-2*time.Hour)),
		record("rec-2", "GVL-SEC-001", decision.ResultDeny, time.Now().Add(-time.Hour)),
		record("rec-3", "GVL-FS-001", decision.ResultAllow, time.Now()),
	})

	configFile := filepath.Join(dir, "gavel.yaml")
	writeFile(t, configFile, fmt.Sprintf("audit:\n  backend: sqlite\n  sqlite:\n    path: %s\n", dbPath))

	queryCmd := exec.Command(binaryPath, "audit", "query",
		"--config", configFile,
		"--result", "deny",
		"--format", "json")
	var stderr bytes.Buffer
	queryCmd.Stderr = &stderr
	output, err := queryCmd.Output()
	if err != nil {
		t.Fatalf("audit query failed: %v\nStderr: %s", err, stderr.String())
	}

	var records []*audit.Record
	if err := json.Unmarshal(output, &records); err != nil {
		t.Fatalf("query output is not valid JSON: %v\nOutput: %s", err, output)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

// TestAuditPruneCommand applies a retention window through the binary
// and verifies the store afterwards in-process.
func TestAuditPruneCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildGavelBinary(t)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "audit.db")
	seedRecords(t, dbPath, []*audit.Record{
		record("rec-old", "GVL-SEC-001", decision.ResultDeny, time.Now().AddDate(0, 0, -40)),
		record("rec-new", "GVL-FS-001", decision.ResultAllow, time.Now().AddDate(0, 0, -1)),
	})

	configFile := filepath.Join(dir, "gavel.yaml")
	writeFile(t, configFile, fmt.Sprintf("audit:\n  backend: sqlite\n  sqlite:\n    path: %s\n", dbPath))

	cmd := exec.Command(binaryPath, "audit", "prune",
		"--config", configFile,
		"--days", "30")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("audit prune failed: %v\nOutput: %s", err, output)
	}
	if !bytes.Contains(output, []byte("Pruned 1 records")) {
		t.Errorf("prune output missing deletion count, got: %s", output)
	}

	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{Path: dbPath, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer store.Close()

	count, err := store.Count(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("remaining records = %d, want 1", count)
	}
}

// TestCommandVersionOutput tests the version command.
func TestCommandVersionOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildGavelBinary(t)

	cmd := exec.Command(binaryPath, "version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}
	if !bytes.Contains(output, []byte("gavel")) {
		t.Errorf("version output should contain 'gavel', got: %s", output)
	}
}

// Helper functions

// buildGavelBinary builds the gavel binary for testing.
func buildGavelBinary(t *testing.T) string {
	t.Helper()

	binaryPath := "../bin/gavel"
	if _, err := os.Stat(binaryPath); err == nil {
		return binaryPath
	}

	if err := os.MkdirAll("../bin", 0o755); err != nil {
		t.Fatalf("creating bin dir: %v", err)
	}

	t.Log("Building gavel binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../cmd/gavel")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build gavel: %v\nOutput: %s", err, output)
	}

	return binaryPath
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func record(id, policyID string, result decision.Result, decided time.Time) *audit.Record {
	severity := decision.SeveritySoft
	if result == decision.ResultDeny {
		severity = decision.SeverityHard
	}
	return &audit.Record{
		ID:           id,
		DecisionID:   "dec-" + id,
		ActionID:     "act-" + id,
		ActionType:   "file.read",
		ActionTarget: "/workspace/notes.txt",
		PolicyID:     policyID,
		Result:       result,
		Reason:       "matched " + policyID,
		Severity:     severity,
		DecisionTime: decided.UTC(),
		RecordedTime: decided.UTC(),
	}
}

func seedRecords(t *testing.T, dbPath string, records []*audit.Record) {
	t.Helper()
	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{Path: dbPath, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("opening seed store: %v", err)
	}
	defer store.Close()

	for _, r := range records {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("seeding record %s: %v", r.ID, err)
		}
	}
}
