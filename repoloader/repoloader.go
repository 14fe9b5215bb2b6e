// Package repoloader locates a git repository on a filesystem and
// loads just enough of it - its pack file and its HEAD commit - to
// hand off to the core packfile decoder and commit walker. It never
// writes to the repository; there is no init, no object writing, no
// ref writing.
package repoloader

import (
	"os"
	"path/filepath"

	"github.com/goabstract/packtree/internal/env"
	"github.com/goabstract/packtree/internal/gitpath"
	"github.com/goabstract/packtree/internal/pathutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrNotAGitDir is returned when the given path, and none of its
// parents, contains a .git directory.
var ErrNotAGitDir = xerrors.New("not a git repository")

// ErrNoPackfile is returned when a located .git directory's
// objects/pack directory contains no .pack file.
var ErrNoPackfile = xerrors.New("repository has no packfile")

// Repo is a located, but not yet parsed, on-disk git repository: the
// filesystem it lives on, and the absolute path to its .git directory
// (or, for a bare repository, the repository root itself).
type Repo struct {
	fs     afero.Fs
	gitDir string
}

// Open locates the .git directory for path (walking up through
// parent directories the way git itself does) and returns a Repo
// ready to have its pack file and HEAD read. fs is the filesystem to
// use; pass afero.NewOsFs() for real use and afero.NewMemMapFs() in
// tests.
func Open(fs afero.Fs, path string) (*Repo, error) {
	gitDir, err := locateGitDir(fs, path)
	if err != nil {
		return nil, err
	}
	return &Repo{fs: fs, gitDir: gitDir}, nil
}

// locateGitDir walks up from path looking for a .git directory,
// honoring GIT_DIR when set, the way real git does. The parent walk
// and bare-repository detection themselves are pathutil.RepoRootFromPath's
// job; this only turns the repo root it finds into the actual
// directory the rest of the package reads from (the ".git"
// subdirectory for a regular repo, the root itself for a bare one).
func locateGitDir(fs afero.Fs, path string) (string, error) {
	if gitDir := env.NewFromOs().Get("GIT_DIR"); gitDir != "" {
		return gitDir, nil
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return "", xerrors.Errorf("could not resolve %s: %w", path, err)
	}

	root, err := pathutil.RepoRootFromPath(fs, dir)
	if err != nil {
		return "", xerrors.Errorf("searched up from %s: %w", path, ErrNotAGitDir)
	}

	candidate := filepath.Join(root, gitpath.DotGitPath)
	if info, err := fs.Stat(candidate); err == nil && info.IsDir() {
		return candidate, nil
	}
	return root, nil
}

// GitDir returns the absolute path to the repository's .git
// directory.
func (r *Repo) GitDir() string {
	return r.gitDir
}

// PackFiles returns the absolute paths of every .pack file under
// objects/pack, in the order afero.Walk visits them.
func (r *Repo) PackFiles() ([]string, error) {
	packDir := filepath.Join(r.gitDir, gitpath.ObjectsPackPath)
	var paths []string
	err := afero.Walk(r.fs, packDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// an empty repository has no objects/pack directory at all
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".pack" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not walk %s: %w", packDir, err)
	}
	if len(paths) == 0 {
		return nil, ErrNoPackfile
	}
	return paths, nil
}

// ReadPack reads the full contents of the first located pack file.
// Most on-disk repositories this tool targets were produced by a
// single `git gc`, so a single pack is the common case; when more
// than one exists only the first (by walk order) is read.
func (r *Repo) ReadPack() ([]byte, error) {
	paths, err := r.PackFiles()
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(r.fs, paths[0])
	if err != nil {
		return nil, xerrors.Errorf("could not read %s: %w", paths[0], err)
	}
	return data, nil
}
