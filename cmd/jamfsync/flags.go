package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosen/jamfsync/internal/object"
	"github.com/mosen/jamfsync/internal/spec"
)

// specOptions selects where the desired-state documents come from: a local
// file or directory, or a git repository.
type specOptions struct {
	Path   string
	GitURL string
	GitRef string
	GitDir string
}

func addSpecFlags(cmd *cobra.Command, opts *specOptions) {
	cmd.Flags().StringVar(&opts.GitURL, "git-url", "", "Load specification documents from a git repository")
	cmd.Flags().StringVar(&opts.GitRef, "git-ref", "", "Branch to check out when loading from git")
	cmd.Flags().StringVar(&opts.GitDir, "git-dir", "", "Subdirectory within the git repository")
}

func (o specOptions) validate() error {
	hasPath := strings.TrimSpace(o.Path) != ""
	hasGit := strings.TrimSpace(o.GitURL) != ""

	switch {
	case hasPath && hasGit:
		return fmt.Errorf("specify either a local path or --git-url, not both")
	case !hasPath && !hasGit:
		return fmt.Errorf("a specification path or --git-url is required")
	}

	if !hasGit && (o.GitRef != "" || o.GitDir != "") {
		return fmt.Errorf("--git-ref and --git-dir require --git-url")
	}
	return nil
}

// loadObjects resolves the selected source into the desired object list and
// a display name for the run.
func loadObjects(ctx context.Context, opts specOptions) ([]*object.ManagedObject, string, error) {
	if opts.GitURL != "" {
		objects, err := spec.ParseGit(ctx, spec.GitSource{URL: opts.GitURL, Ref: opts.GitRef, Dir: opts.GitDir})
		return objects, opts.GitURL, err
	}

	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve specification path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", fmt.Errorf("specification path does not exist: %w", err)
	}

	if info.IsDir() {
		objects, err := spec.ParseDir(abs)
		return objects, filepath.Base(abs), err
	}

	file, err := spec.ParseFile(abs)
	if err != nil {
		return nil, "", err
	}
	name := file.Name
	if strings.TrimSpace(name) == "" {
		name = filepath.Base(abs)
	}
	return file.Objects, name, nil
}
