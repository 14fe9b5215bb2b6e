package pathutil

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/goabstract/packtree/internal/gitpath"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrNoRepo is an error returned when no repo are found
var ErrNoRepo = errors.New("not a git repository (or any of the parent directories)")

// RepoRoot returns the absolute path to the root of the repo on fs.
func RepoRoot(fs afero.Fs) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", xerrors.Errorf("could not get current working directory: %w", err)
	}
	return RepoRootFromPath(fs, wd)
}

// RepoRootFromPath returns the absolute path to the root of the repo on fs
// that contains the provided directory. A regular repo is recognized by a
// ".git" subdirectory; a bare repo by a non-empty "HEAD" file directly at
// its root.
func RepoRootFromPath(fs afero.Fs, p string) (string, error) {
	prev := ""
	for p != prev {
		// Regular repo
		info, err := fs.Stat(filepath.Join(p, gitpath.DotGitPath))
		if err == nil && info.IsDir() {
			return p, nil
		}
		// Bare repo
		info, err = fs.Stat(filepath.Join(p, gitpath.HEADPath))
		if err == nil && !info.IsDir() && info.Size() > 0 {
			return p, nil
		}

		prev = p
		p = filepath.Dir(p)
	}
	return "", ErrNoRepo
}
