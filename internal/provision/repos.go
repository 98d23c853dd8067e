// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"robolab-cli/internal/issue"
	"robolab-cli/internal/logging"
	"robolab-cli/pkg/labfile"
)

// ReposStep clones a set of git repositories. Each clone is skipped when its
// checkout directory already exists, so a partially provisioned workspace
// picks up where it left off.
type ReposStep struct {
	stepMeta
	baseDir string
	repos   []labfile.Repo
	tools   *Toolchain
	log     *log.Logger
}

// NewReposStep builds a repos step from its manifest entry. The step's dest,
// when relative, is resolved against the workspace directory.
func NewReposStep(s *labfile.Step, workspace string, tc *Toolchain) *ReposStep {
	baseDir := workspace
	if s.Dest != "" {
		baseDir = resolvePath(workspace, s.Dest)
	}
	return &ReposStep{
		stepMeta: metaFor(s),
		baseDir:  baseDir,
		repos:    s.Repos,
		tools:    tc,
		log:      logging.WithPrefix("provision"),
	}
}

// Check counts existing checkouts.
func (s *ReposStep) Check(_ context.Context) (bool, string, error) {
	cloned := 0
	for i := range s.repos {
		if dirExists(s.checkoutDir(&s.repos[i])) {
			cloned++
		}
	}
	if cloned == len(s.repos) {
		return true, fmt.Sprintf("all %d repositories cloned", len(s.repos)), nil
	}
	return false, fmt.Sprintf("%d of %d repositories cloned", cloned, len(s.repos)), nil
}

// Apply clones every repository that is not checked out yet.
func (s *ReposStep) Apply(ctx context.Context) error {
	if err := requireTool(s.tools.Git, "clone repositories",
		"Install git (try: sudo apt install git)"); err != nil {
		return err
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("create clone directory: %w", err)
	}

	for i := range s.repos {
		repo := &s.repos[i]
		dest := s.checkoutDir(repo)
		if dirExists(dest) {
			s.log.Info("Repository already cloned", "repo", repo.DirName())
			continue
		}

		args := []string{"clone"}
		if repo.Ref != "" {
			args = append(args, "--branch", repo.Ref)
		}
		if repo.Submodules {
			args = append(args, "--recurse-submodules")
		}
		args = append(args, repo.URL, dest)

		s.log.Info("Cloning repository", "url", repo.URL, "dest", dest)
		if err := s.tools.run(ctx, s.tools.Git, "", args...); err != nil {
			return cloneError(repo.URL, err)
		}

		if repo.SetupPy {
			if err := WriteSetupPy(dest); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ReposStep) checkoutDir(repo *labfile.Repo) string {
	return resolvePath(s.baseDir, repo.DirName())
}

func cloneError(url string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("clone repository").
		WithResource(url).
		WithSuggestion("Check the URL and your network connection").
		WithSuggestion("Private repositories need SSH keys or credentials configured for git").
		Wrap(cause).
		BuildError()
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
