package decision

import (
	"errors"
	"strings"
	"testing"

	"arbiter-hq/gavel/pkg/action"
)

func TestNewDerivesSeverityFromResult(t *testing.T) {
	act := action.New("file.read", "/tmp/test.txt", nil)

	allow := New(act, "GVL-DEFAULT-ALLOW", ResultAllow, "no policy matched")
	if allow.Severity != SeveritySoft {
		t.Errorf("allow Severity = %q, want %q", allow.Severity, SeveritySoft)
	}

	deny := New(act, "GVL-GOV-001", ResultDeny, "workflow writes are blocked")
	if deny.Severity != SeverityHard {
		t.Errorf("deny Severity = %q, want %q", deny.Severity, SeverityHard)
	}
}

func TestNewCarriesActionFields(t *testing.T) {
	act := action.New("git.push", "refs/heads/main", map[string]string{"force": "false"})
	d := New(act, "GVL-GOV-002", ResultDeny, "pushes to main are blocked")

	if d.DecisionID == "" {
		t.Error("DecisionID is empty")
	}
	if d.ActionID != act.ID {
		t.Errorf("ActionID = %q, want %q", d.ActionID, act.ID)
	}
	if d.ActionType != "git.push" {
		t.Errorf("ActionType = %q, want %q", d.ActionType, "git.push")
	}
	if d.ActionTarget != "refs/heads/main" {
		t.Errorf("ActionTarget = %q, want %q", d.ActionTarget, "refs/heads/main")
	}
	if d.ActionMetadata["force"] != "false" {
		t.Errorf("ActionMetadata[force] = %q, want %q", d.ActionMetadata["force"], "false")
	}
	if d.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

func TestWithHint(t *testing.T) {
	act := action.New("git.push", "refs/heads/main", nil)
	base := New(act, "GVL-GOV-002", ResultDeny, "pushes to main are blocked")

	alt := map[string]string{"action_type": "git.push", "target": "refs/heads/feature/*"}
	hinted := base.WithHint("open a pull request against a feature branch", alt)

	if hinted.Suggestion == "" {
		t.Fatal("WithHint() dropped the suggestion")
	}
	if base.Suggestion != "" {
		t.Error("WithHint() mutated the receiver's suggestion")
	}

	alt["target"] = "mutated"
	if hinted.Alternative["target"] != "refs/heads/feature/*" {
		t.Errorf("Alternative[target] = %q after caller mutation, want %q",
			hinted.Alternative["target"], "refs/heads/feature/*")
	}
}

func TestContractRoundTrip(t *testing.T) {
	act := action.New("file.write", ".github/workflows/ci.yml", map[string]string{"size_bytes": "2048"})
	d := New(act, "GVL-GOV-001", ResultDeny, "workflow writes are blocked").
		WithHint("move change to non-governance path", map[string]string{"target_prefix": "docs/"})

	data, err := d.ToContract().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}

	got, err := ParseContract(data)
	if err != nil {
		t.Fatalf("ParseContract() error = %v, want nil", err)
	}

	if got.Result != ResultDeny {
		t.Errorf("Result = %q, want %q", got.Result, ResultDeny)
	}
	if got.Severity != SeverityHard {
		t.Errorf("Severity = %q, want %q", got.Severity, SeverityHard)
	}
	if got.Reason != d.Reason {
		t.Errorf("Reason = %q, want %q", got.Reason, d.Reason)
	}
	if got.Suggestion != d.Suggestion {
		t.Errorf("Suggestion = %q, want %q", got.Suggestion, d.Suggestion)
	}
	if got.PolicyID != "GVL-GOV-001" {
		t.Errorf("PolicyID = %q, want %q", got.PolicyID, "GVL-GOV-001")
	}
	if got.ActionMetadata["size_bytes"] != "2048" {
		t.Errorf("ActionMetadata[size_bytes] = %q, want %q", got.ActionMetadata["size_bytes"], "2048")
	}
	if got.Alternative["target_prefix"] != "docs/" {
		t.Errorf("Alternative[target_prefix] = %q, want %q", got.Alternative["target_prefix"], "docs/")
	}
	if !got.Timestamp.Equal(d.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, d.Timestamp)
	}
}

func TestContractOmitsEmptyHints(t *testing.T) {
	act := action.New("file.read", "/tmp/test.txt", nil)
	d := New(act, "GVL-DEFAULT-ALLOW", ResultAllow, "no policy matched")

	data, err := d.ToContract().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}

	s := string(data)
	if strings.Contains(s, "suggestion") {
		t.Errorf("wire form contains suggestion field for hintless decision: %s", s)
	}
	if strings.Contains(s, "alternative") {
		t.Errorf("wire form contains alternative field for hintless decision: %s", s)
	}
}

func TestToContractCopiesMaps(t *testing.T) {
	act := action.New("file.write", "/tmp/a.txt", map[string]string{"mode": "append"})
	d := New(act, "GVL-GOV-003", ResultDeny, "blocked")

	c := d.ToContract()
	c.ActionMetadata["mode"] = "mutated"

	if d.ActionMetadata["mode"] != "append" {
		t.Errorf("ActionMetadata[mode] = %q after contract mutation, want %q",
			d.ActionMetadata["mode"], "append")
	}
}

func TestErrIfDenied(t *testing.T) {
	act := action.New("file.read", "/tmp/test.txt", nil)

	if err := ErrIfDenied(New(act, "GVL-DEFAULT-ALLOW", ResultAllow, "no policy matched")); err != nil {
		t.Errorf("ErrIfDenied(allow) = %v, want nil", err)
	}

	deny := New(act, "GVL-GOV-001", ResultDeny, "blocked")
	err := ErrIfDenied(deny)
	if err == nil {
		t.Fatal("ErrIfDenied(deny) = nil, want *DeniedError")
	}

	var derr *DeniedError
	if !errors.As(err, &derr) {
		t.Fatalf("ErrIfDenied(deny) type = %T, want *DeniedError", err)
	}
	if derr.Decision.DecisionID != deny.DecisionID {
		t.Errorf("DeniedError carries decision %q, want %q", derr.Decision.DecisionID, deny.DecisionID)
	}
	if !strings.Contains(err.Error(), "GVL-GOV-001") {
		t.Errorf("Error() = %q, want it to name the policy", err.Error())
	}
}
