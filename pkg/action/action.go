package action

import (
	"strconv"

	"github.com/google/uuid"
)

// Action describes one operation an agent intends to perform. Values are
// immutable after construction: the scalar fields are never reassigned and
// the metadata map is copied on the way in and on the way out.
type Action struct {
	// ID uniquely identifies this attempt. Two attempts at the same
	// operation carry different IDs.
	ID string

	// Type is the dotted operation category, e.g. "file.write",
	// "git.push", "tool.invoke".
	Type string

	// Target identifies the resource the operation applies to: a file
	// path, a git ref, a tool name.
	Target string

	metadata map[string]string
}

// New creates an Action with a generated unique ID. The metadata map is
// copied; the caller's map is never retained.
func New(actionType, target string, metadata map[string]string) *Action {
	return NewWithID(uuid.New().String(), actionType, target, metadata)
}

// NewWithID creates an Action with a caller-supplied ID. Intended for
// replay and tests, where attempt identity comes from outside.
func NewWithID(id, actionType, target string, metadata map[string]string) *Action {
	a := &Action{
		ID:     id,
		Type:   actionType,
		Target: target,
	}
	if len(metadata) > 0 {
		a.metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			a.metadata[k] = v
		}
	}
	return a
}

// Meta returns the metadata value for key and whether the key is present.
func (a *Action) Meta(key string) (string, bool) {
	v, ok := a.metadata[key]
	return v, ok
}

// HasMeta reports whether the metadata key is present.
func (a *Action) HasMeta(key string) bool {
	_, ok := a.metadata[key]
	return ok
}

// MetaNumber returns the metadata value for key parsed as a number. An
// absent key or a value that does not parse yields (0, false); condition
// operators treat that as "comparison not satisfiable", never as zero.
func (a *Action) MetaNumber(key string) (float64, bool) {
	v, ok := a.metadata[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Metadata returns a copy of the metadata map. Mutating the returned map
// does not affect the Action.
func (a *Action) Metadata() map[string]string {
	if len(a.metadata) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(a.metadata))
	for k, v := range a.metadata {
		out[k] = v
	}
	return out
}
