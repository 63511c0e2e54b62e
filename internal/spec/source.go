package spec

import (
	"context"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/mosen/jamfsync/internal/object"
	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

// GitSource describes a remote repository holding specification documents.
type GitSource struct {
	URL string
	// Ref is an optional branch name; the remote default branch is used
	// when empty.
	Ref string
	// Dir is an optional subdirectory within the repository.
	Dir string
}

// ParseGit clones the repository into a temporary directory and loads the
// specification documents it contains. The clone is shallow and removed
// before returning.
func ParseGit(ctx context.Context, source GitSource) ([]*object.ManagedObject, error) {
	workdir, err := os.MkdirTemp("", "jamfsync-spec-*")
	if err != nil {
		return nil, jamferrors.NewParseError(source.URL, 0, err)
	}
	defer os.RemoveAll(workdir)

	cloneOpts := &git.CloneOptions{
		URL:   source.URL,
		Depth: 1,
	}
	if source.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(source.Ref)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, workdir, false, cloneOpts); err != nil {
		return nil, jamferrors.NewParseError(source.URL, 0, err)
	}

	dir := workdir
	if source.Dir != "" {
		dir = filepath.Join(workdir, source.Dir)
	}

	return ParseDir(dir)
}
