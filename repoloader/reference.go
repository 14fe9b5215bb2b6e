package repoloader

import (
	"bytes"
	"path/filepath"

	"github.com/goabstract/packtree/internal/gitpath"
	"github.com/goabstract/packtree/plumbing"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrRefInvalid is returned when a reference file's content is
// neither a symbolic "ref: <name>" line nor a 40-char hex oid.
var ErrRefInvalid = xerrors.New("invalid reference content")

// ErrRefCircular is returned when chasing a chain of symbolic
// references loops back on itself.
var ErrRefCircular = xerrors.New("circular symbolic reference")

// Head resolves the repository's HEAD reference down to the commit
// oid it ultimately points at, following any chain of symbolic
// "ref: refs/heads/..." indirections.
func (r *Repo) Head() (plumbing.Oid, error) {
	return r.resolveRef(gitpath.HEADPath, map[string]struct{}{})
}

// ResolveRef resolves an arbitrary reference name (e.g.
// "refs/heads/main"), relative to the repository's .git directory,
// down to the commit oid it ultimately points at, following any chain
// of symbolic indirections. name must satisfy plumbing.IsRefNameValid;
// callers taking a ref name from outside the program (such as a CLI
// flag) should check that themselves before calling this.
func (r *Repo) ResolveRef(name string) (plumbing.Oid, error) {
	return r.resolveRef(name, map[string]struct{}{})
}

// resolveRef reads the reference named name and, if it's symbolic,
// recurses into its target. visited guards against a reference
// chain that loops back on itself.
func (r *Repo) resolveRef(name string, visited map[string]struct{}) (plumbing.Oid, error) {
	if _, seen := visited[name]; seen {
		return plumbing.NullOid, xerrors.Errorf("%s: %w", name, ErrRefCircular)
	}
	visited[name] = struct{}{}

	data, err := afero.ReadFile(r.fs, filepath.Join(r.gitDir, name))
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not read reference %s: %w", name, err)
	}
	data = bytes.TrimSpace(data)

	const symbolicPrefix = "ref: "
	if bytes.HasPrefix(data, []byte(symbolicPrefix)) {
		target := string(data[len(symbolicPrefix):])
		return r.resolveRef(target, visited)
	}

	oid, err := plumbing.NewOidFromStr(string(data))
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("reference %s: %w", name, ErrRefInvalid)
	}
	return oid, nil
}
