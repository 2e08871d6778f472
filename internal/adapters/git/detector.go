// Package git provides git context detection using go-git.
// Completed focus sessions are tagged with the branch they were worked on.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// ErrNoRepository is returned when no repository contains the directory.
var ErrNoRepository = errors.New("no .git directory found")

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct {
	dir string
}

// NewDetector creates a detector rooted at dir. An empty dir means the
// current working directory.
func NewDetector(dir string) *Detector {
	return &Detector{dir: dir}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect reads the checked-out branch of the repository containing workingDir.
// Only HEAD is read; the worktree is never scanned.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	dir, err := d.resolve(workingDir)
	if err != nil {
		return nil, err
	}

	repoPath, err := findGitRepo(dir)
	if err != nil {
		return nil, fmt.Errorf("git repository not found: %w", err)
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if branch == "HEAD" {
		branch = "HEAD detached"
	}

	return &ports.GitInfo{Branch: branch}, nil
}

// IsAvailable reports whether the detector's directory is inside a repository.
func (d *Detector) IsAvailable() bool {
	dir, err := d.resolve("")
	if err != nil {
		return false
	}
	_, err = findGitRepo(dir)
	return err == nil
}

func (d *Detector) resolve(workingDir string) (string, error) {
	if workingDir == "" || workingDir == "." {
		workingDir = d.dir
	}
	if workingDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		workingDir = cwd
	}
	return filepath.Abs(workingDir)
}

// findGitRepo walks up the directory tree to the first .git entry.
func findGitRepo(startPath string) (string, error) {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		info, err := os.Stat(gitPath)
		if err == nil && info.IsDir() {
			return currentPath, nil
		}

		// A worktree checkout has a .git file pointing at the real gitdir.
		if err == nil && !info.IsDir() {
			content, err := os.ReadFile(gitPath)
			if err == nil && strings.HasPrefix(string(content), "gitdir: ") {
				return currentPath, nil
			}
		}

		parent := filepath.Dir(currentPath)
		if parent == currentPath {
			break
		}
		currentPath = parent
	}

	return "", ErrNoRepository
}
