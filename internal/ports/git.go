package ports

import (
	"context"
)

// GitInfo holds the git context attached to a focus session.
type GitInfo struct {
	Branch string
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect scans the given directory and its parents for git context.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)

	// IsAvailable checks if the current directory is inside a repository.
	IsAvailable() bool
}
