package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"arbiter-hq/gavel/pkg/policy"
)

// Source reads and parses a full rule set. Load is called once by the
// registry at process start; it is the only I/O phase of the pipeline.
type Source interface {
	// Load reads and parses every rule definition. It is all-or-nothing:
	// any defect fails the whole load.
	Load(ctx context.Context) ([]*policy.Policy, error)

	// Name identifies the source in logs and errors.
	Name() string
}

// maxRuleFileSize caps individual rule files. Rule files are small;
// anything larger is not a rule file.
const maxRuleFileSize = 10 * 1024 * 1024

// FileSource loads YAML rule files from a single file or a directory
// tree.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a source over path, which may be one rule file or
// a directory searched recursively for *.yaml and *.yml files.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:   path,
		logger: slog.Default().With("component", "policy.source"),
	}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Path returns the watched file or directory root.
func (s *FileSource) Path() string {
	return s.path
}

// Load implements Source. Files load in lexicographic path order and
// every failure across the whole tree is collected before reporting.
func (s *FileSource) Load(ctx context.Context) ([]*policy.Policy, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, NewLoadError(s.path, "rule source does not exist", err)
	}

	var files []string
	if info.IsDir() {
		files, err = collectRuleFiles(s.path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, NewLoadError(s.path, "directory contains no rule files (*.yaml, *.yml)", nil)
		}
	} else {
		files = []string{s.path}
	}

	errs := &ErrorList{}
	var all []*policy.Policy
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, NewLoadError(s.path, "load cancelled", err)
		}
		policies, err := loadRuleFile(file)
		if err != nil {
			errs.Add(err)
			continue
		}
		all = append(all, policies...)
	}

	if errs.HasErrors() {
		return nil, errs
	}
	if len(all) == 0 {
		return nil, NewLoadError(s.path, "source yielded zero rule definitions", nil)
	}

	s.logger.Info("rule definitions loaded",
		"path", s.path,
		"files", len(files),
		"rules", len(all),
	)
	return all, nil
}

// loadRuleFile reads and parses one rule file.
func loadRuleFile(path string) ([]*policy.Policy, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, NewLoadError(path, "cannot stat rule file", err)
	}
	if !info.Mode().IsRegular() {
		return nil, NewLoadError(path, "not a regular file", nil)
	}
	if info.Size() > maxRuleFileSize {
		return nil, NewLoadError(path,
			fmt.Sprintf("rule file too large (%d bytes, max %d)", info.Size(), maxRuleFileSize), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoadError(path, "cannot read rule file", err)
	}
	if !utf8.Valid(data) {
		return nil, NewLoadError(path, "rule file is not valid UTF-8", nil)
	}

	return parseRules(data, path)
}

// collectRuleFiles walks the directory tree collecting rule files in
// lexicographic path order. Hidden files and directories are skipped;
// symlinked directories are not followed.
func collectRuleFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(name) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, NewLoadError(root, "cannot walk rule directory", err)
	}
	sort.Strings(files)
	return files, nil
}
