package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"arbiter-hq/gavel/pkg/policy"
)

// GitAuth selects how the rule repository is reached. Supported types:
// "token", "ssh", "none".
type GitAuth struct {
	Type             string
	Token            string
	SSHKeyPath       string
	SSHKeyPassphrase string
}

// GitConfig configures a GitSource.
type GitConfig struct {
	// Repository is the clone URL (or local path) of the rule repository.
	Repository string

	// Branch is the branch to check out.
	Branch string

	// Dir is the subdirectory holding rule files. Empty means the
	// repository root.
	Dir string

	// LocalPath is where the checkout lives.
	// Default: <tmpdir>/gavel-rules.
	LocalPath string

	// Depth enables shallow cloning when positive.
	Depth int

	// CloneTimeout bounds the clone operation. Default: 60s.
	CloneTimeout time.Duration

	// Auth selects the transport credentials.
	Auth GitAuth
}

// CommitInfo describes the commit a rule set was loaded from. Audit
// records carry the SHA as rule-set provenance.
type CommitInfo struct {
	SHA        string
	Author     string
	Email      string
	Timestamp  time.Time
	Message    string
	Branch     string
	Repository string
}

// GitSource loads rule files from a git repository checked out once at
// load time. There is no pull loop: the checkout is pinned for the
// process lifetime, matching the frozen registry.
type GitSource struct {
	cfg    *GitConfig
	auth   transport.AuthMethod
	commit *CommitInfo
	logger *slog.Logger
}

// NewGitSource creates a git-backed rule source.
func NewGitSource(cfg *GitConfig) (*GitSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("git source config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, fmt.Errorf("git source repository cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, fmt.Errorf("git source branch cannot be empty")
	}
	if cfg.LocalPath == "" {
		cfg.LocalPath = filepath.Join(os.TempDir(), "gavel-rules")
	}
	if cfg.CloneTimeout <= 0 {
		cfg.CloneTimeout = 60 * time.Second
	}

	auth, err := gitAuthMethod(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("git source auth: %w", err)
	}

	return &GitSource{
		cfg:    cfg,
		auth:   auth,
		logger: slog.Default().With("component", "policy.source.git"),
	}, nil
}

// Name implements Source.
func (s *GitSource) Name() string {
	return "git:" + s.cfg.Repository + "@" + s.cfg.Branch
}

// Commit returns the commit the rule set was loaded from, or nil before a
// successful Load.
func (s *GitSource) Commit() *CommitInfo {
	if s.commit == nil {
		return nil
	}
	out := *s.commit
	return &out
}

// Load implements Source: clone or open the repository, resolve HEAD, and
// load rule files from the configured subdirectory.
func (s *GitSource) Load(ctx context.Context) ([]*policy.Policy, error) {
	repo, err := s.checkout(ctx)
	if err != nil {
		return nil, NewLoadError(s.cfg.Repository, "cannot check out rule repository", err)
	}

	commit, err := headCommit(repo, s.cfg)
	if err != nil {
		return nil, NewLoadError(s.cfg.Repository, "cannot resolve rule repository HEAD", err)
	}
	s.commit = commit

	ruleDir := filepath.Join(s.cfg.LocalPath, s.cfg.Dir)
	policies, err := NewFileSource(ruleDir).Load(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("rule set loaded from git",
		"repository", s.cfg.Repository,
		"branch", s.cfg.Branch,
		"commit", shortSHA(commit.SHA),
		"rules", len(policies),
	)
	return policies, nil
}

// checkout opens an existing clone or performs a fresh one.
func (s *GitSource) checkout(ctx context.Context) (*gogit.Repository, error) {
	if _, err := os.Stat(filepath.Join(s.cfg.LocalPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(s.cfg.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("open existing checkout: %w", err)
		}
		return repo, nil
	}

	if err := os.MkdirAll(s.cfg.LocalPath, 0o755); err != nil {
		return nil, fmt.Errorf("create checkout directory: %w", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, s.cfg.CloneTimeout)
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, s.cfg.LocalPath, false, &gogit.CloneOptions{
		URL:           s.cfg.Repository,
		ReferenceName: plumbing.NewBranchReferenceName(s.cfg.Branch),
		SingleBranch:  true,
		Depth:         s.cfg.Depth,
		Auth:          s.auth,
	})
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	return repo, nil
}

// headCommit reads metadata for the checked-out HEAD.
func headCommit(repo *gogit.Repository, cfg *GitConfig) (*CommitInfo, error) {
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read HEAD commit: %w", err)
	}
	return &CommitInfo{
		SHA:        commit.Hash.String(),
		Author:     commit.Author.Name,
		Email:      commit.Author.Email,
		Timestamp:  commit.Author.When,
		Message:    commit.Message,
		Branch:     cfg.Branch,
		Repository: cfg.Repository,
	}, nil
}

// gitAuthMethod builds transport credentials from the auth config.
func gitAuthMethod(cfg *GitAuth) (transport.AuthMethod, error) {
	switch cfg.Type {
	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("token auth requires a non-empty token")
		}
		// Username is ignored for token auth.
		return &githttp.BasicAuth{Username: "git", Password: cfg.Token}, nil

	case "ssh":
		if cfg.SSHKeyPath == "" {
			return nil, fmt.Errorf("ssh auth requires ssh_key_path")
		}
		auth, err := gitssh.NewPublicKeysFromFile("git", cfg.SSHKeyPath, cfg.SSHKeyPassphrase)
		if err != nil {
			return nil, fmt.Errorf("load ssh key: %w", err)
		}
		return auth, nil

	case "none", "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
