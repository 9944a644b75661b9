// Package source reads rule definitions for the registry.
//
// Three sources exist: FileSource loads YAML rule files from a file or
// directory tree, GitSource checks out a git repository once and loads
// rule files from it, and StaticSource serves an in-memory set (library
// consumers embedding their rules, tests).
//
// # Rule Files
//
// A rule file is a YAML document with a rules list:
//
//	rules:
//	  - id: GVL-GOV-001
//	    name: workflow-write-guard
//	    description: Blocks writes under the CI workflow directory.
//	    severity: deny
//	    conditions:
//	      action_type_prefix: "file."
//	      target_contains: ".github/workflows/"
//
// Directory sources collect *.yaml and *.yml files in lexicographic path
// order; rule order within a file is document order. That total order is
// the order the registry evaluates in.
//
// Loading is all-or-nothing: any unreadable file, malformed document, or
// empty rule list fails the whole load with a *LoadError or *ErrorList.
//
// # Drift Watching
//
// The registry freezes after its first successful load; files changing
// underneath it afterwards is a signal worth surfacing. DriftWatcher
// watches a FileSource's paths and reports when the on-disk rules no
// longer produce the frozen content version. It is advisory only: it
// never reloads anything.
package source
