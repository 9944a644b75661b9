// Package action defines the immutable value describing an operation an
// agent proposes to perform: a dotted type category, a target resource
// identifier, and open string-keyed metadata.
//
// Actions are created once by the caller, never mutated, and never
// persisted by the adjudication core. Metadata is read through typed
// accessors rather than raw map access, so condition operators get
// explicit, validated reads (a numeric read on a non-numeric value reports
// failure instead of silently coercing).
//
//	act := action.New("file.write", ".github/workflows/ci.yml", map[string]string{
//	    "size_bytes": "2048",
//	})
//	n, ok := act.MetaNumber("size_bytes") // 2048, true
package action
