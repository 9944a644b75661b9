package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"arbiter-hq/gavel/pkg/policy"
	"arbiter-hq/gavel/pkg/policy/source"
)

// testPolicy builds a minimal valid deny policy.
func testPolicy(id string) *policy.Policy {
	return &policy.Policy{
		ID:          id,
		Name:        "fixture-" + id,
		Description: "Test fixture rule.",
		Severity:    policy.SeverityDeny,
		Conditions:  policy.Conditions{Always: true},
	}
}

// countingSource counts Load calls to verify load-once semantics.
type countingSource struct {
	inner source.Source
	loads int
}

func (c *countingSource) Load(ctx context.Context) ([]*policy.Policy, error) {
	c.loads++
	return c.inner.Load(ctx)
}

func (c *countingSource) Name() string { return c.inner.Name() }

func TestRegistry_Load_Success(t *testing.T) {
	reg := New(&source.StaticSource{
		Policies: []*policy.Policy{testPolicy("GVL-TEST-001"), testPolicy("GVL-TEST-002")},
	})

	policies, err := reg.Load(context.Background())
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

	if !reg.Loaded() {
		t.Error("Loaded() = false after successful Load()")
	}
	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2", reg.Count())
	}
	if reg.Version() == "" {
		t.Error("Version() = empty after successful Load()")
	}
	if len(reg.Version()) != 16 {
		t.Errorf("Version() length = %d, want 16", len(reg.Version()))
	}
	if reg.LoadTime().IsZero() {
		t.Error("LoadTime() = zero after successful Load()")
	}
}

func TestRegistry_Load_Once(t *testing.T) {
	src := &countingSource{inner: &source.StaticSource{
		Policies: []*policy.Policy{testPolicy("GVL-TEST-001")},
	}}
	reg := New(src)

	first, err := reg.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	version := reg.Version()

	second, err := reg.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if src.loads != 1 {
		t.Errorf("source loaded %d times, want 1", src.loads)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Error("second Load() returned a different set")
	}
	if reg.Version() != version {
		t.Errorf("Version() changed across Load() calls: %q -> %q", version, reg.Version())
	}
}

func TestRegistry_Load_FrozenAgainstSourceChanges(t *testing.T) {
	static := &source.StaticSource{
		Policies: []*policy.Policy{testPolicy("GVL-TEST-001")},
	}
	reg := New(static)

	if _, err := reg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// The source changing after the freeze must not be observable.
	static.Policies = append(static.Policies, testPolicy("GVL-TEST-002"))

	if _, err := reg.Load(context.Background()); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d after source change, want the frozen 1", reg.Count())
	}
}

func TestRegistry_Load_SourceFailure(t *testing.T) {
	wantCause := errors.New("disk gone")
	reg := New(&source.StaticSource{Err: wantCause})

	_, err := reg.Load(context.Background())
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}

	var regErr *RegistryError
	if !errors.As(err, &regErr) {
		t.Fatalf("error type = %T, want *RegistryError", err)
	}
	if !errors.Is(err, wantCause) {
		t.Errorf("errors.Is(err, cause) = false, err = %v", err)
	}
	if reg.Loaded() {
		t.Error("Loaded() = true after failed Load()")
	}
}

func TestRegistry_Load_RetryAfterFailure(t *testing.T) {
	static := &source.StaticSource{Err: errors.New("not ready")}
	reg := New(static)

	if _, err := reg.Load(context.Background()); err == nil {
		t.Fatal("first Load() error = nil, want error")
	}

	// Fix the source; the registry must not have frozen on failure.
	static.Err = nil
	static.Policies = []*policy.Policy{testPolicy("GVL-TEST-001")}

	if _, err := reg.Load(context.Background()); err != nil {
		t.Fatalf("Load() after fix error = %v, want nil", err)
	}
	if !reg.Loaded() {
		t.Error("Loaded() = false after successful retry")
	}
}

func TestRegistry_Load_DuplicateID(t *testing.T) {
	a := testPolicy("GVL-TEST-001")
	a.SourceFile = "a.yaml"
	a.Line = 2
	b := testPolicy("GVL-TEST-001")
	b.SourceFile = "b.yaml"

	reg := New(&source.StaticSource{Policies: []*policy.Policy{a, b}})

	_, err := reg.Load(context.Background())
	if err == nil {
		t.Fatal("Load() error = nil, want error for duplicate ID")
	}

	var regErr *RegistryError
	if !errors.As(err, &regErr) {
		t.Fatalf("error type = %T, want *RegistryError", err)
	}
	if len(regErr.Errors) != 1 {
		t.Fatalf("RegistryError holds %d defects, want 1", len(regErr.Errors))
	}

	var valErr *policy.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("defect type = %T, want *policy.ValidationError", regErr.Errors[0])
	}
	if valErr.PolicyID != "GVL-TEST-001" || valErr.Field != "id" {
		t.Errorf("defect = %v, want duplicate-id defect for GVL-TEST-001", valErr)
	}
	if !strings.Contains(valErr.Message, "a.yaml:2") {
		t.Errorf("defect message = %q, want to name the first declaration site", valErr.Message)
	}
}

func TestRegistry_Load_AggregatesAllDefects(t *testing.T) {
	noPrefix := testPolicy("TEST-001")
	reserved := testPolicy(policy.FailCloseID)
	noConditions := testPolicy("GVL-TEST-003")
	noConditions.Conditions = policy.Conditions{}
	badSeverity := testPolicy("GVL-TEST-004")
	badSeverity.Severity = "block"

	reg := New(&source.StaticSource{Policies: []*policy.Policy{
		noPrefix, reserved, noConditions, badSeverity, testPolicy("GVL-TEST-005"),
	}})

	_, err := reg.Load(context.Background())
	if err == nil {
		t.Fatal("Load() error = nil, want aggregated defects")
	}

	var regErr *RegistryError
	if !errors.As(err, &regErr) {
		t.Fatalf("error type = %T, want *RegistryError", err)
	}
	if len(regErr.Errors) != 4 {
		t.Errorf("RegistryError holds %d defects, want 4:\n%v", len(regErr.Errors), err)
	}
	if reg.Loaded() {
		t.Error("Loaded() = true after rejected load (partial freeze)")
	}
	if reg.Count() != 0 {
		t.Errorf("Count() = %d after rejected load, want 0", reg.Count())
	}
}

func TestRegistry_GetByID(t *testing.T) {
	reg := New(&source.StaticSource{
		Policies: []*policy.Policy{testPolicy("GVL-TEST-001")},
	})
	if _, err := reg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p, err := reg.GetByID("GVL-TEST-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v, want nil", err)
	}
	if p.ID != "GVL-TEST-001" {
		t.Errorf("GetByID() ID = %q, want %q", p.ID, "GVL-TEST-001")
	}

	_, err = reg.GetByID("GVL-TEST-999")
	if err == nil {
		t.Fatal("GetByID(unknown) error = nil, want error")
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if notFound.PolicyID != "GVL-TEST-999" {
		t.Errorf("NotFoundError.PolicyID = %q, want %q", notFound.PolicyID, "GVL-TEST-999")
	}
}

func TestRegistry_GetByID_Unloaded(t *testing.T) {
	reg := New(&source.StaticSource{
		Policies: []*policy.Policy{testPolicy("GVL-TEST-001")},
	})

	_, err := reg.GetByID("GVL-TEST-001")
	if err == nil {
		t.Fatal("GetByID() on unloaded registry error = nil, want error")
	}
	var regErr *RegistryError
	if !errors.As(err, &regErr) {
		t.Fatalf("error type = %T, want *RegistryError", err)
	}
}

func TestRegistry_GetAll_ReturnsCopy(t *testing.T) {
	reg := New(&source.StaticSource{
		Policies: []*policy.Policy{testPolicy("GVL-TEST-001"), testPolicy("GVL-TEST-002")},
	})
	if _, err := reg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := reg.GetAll()
	got[0], got[1] = got[1], got[0]

	again := reg.GetAll()
	if again[0].ID != "GVL-TEST-001" {
		t.Error("mutating GetAll() result changed registry order")
	}
}

func TestRegistry_GetAll_Unloaded(t *testing.T) {
	reg := New(&source.StaticSource{})
	if got := reg.GetAll(); len(got) != 0 {
		t.Errorf("GetAll() on unloaded registry = %v, want empty", got)
	}
}

func TestRegistry_SourceName(t *testing.T) {
	reg := New(&source.StaticSource{SourceName: "static:test"})
	if got, want := reg.SourceName(), "static:test"; got != want {
		t.Errorf("SourceName() = %q, want %q", got, want)
	}
}
