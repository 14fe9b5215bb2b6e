// Package changewalk walks a commit's ancestry and counts, for every
// file and directory reachable from its tree, how many commits
// changed it - then assembles the result into a tree mirroring the
// head commit's own tree, the shape a caller would want to render as
// a file browser annotated with change frequency.
//
// Only file modifications count. A path that only ever had entries
// added to it, or only ever had entries removed from it between two
// commits, does not get its change counter incremented - this is a
// deliberate asymmetry, not an oversight (see diff.go).
package changewalk

import (
	"errors"

	"github.com/goabstract/packtree/plumbing"
	"github.com/goabstract/packtree/plumbing/object"
	"github.com/goabstract/packtree/plumbing/packfile"
)

// ErrUnknownReference is returned when the walk reaches an oid (a
// commit or a tree) that isn't present in the object table. Since the
// table is built once and never mutated, this always means the pack
// was missing an object the head's history depends on.
var ErrUnknownReference = errors.New("reference not found while walking history")

// walker holds the state accumulated while walking a commit's
// ancestry: which commits have already been visited, and how many
// times each path has been seen to change.
type walker struct {
	table    *packfile.ObjectTable
	visited  map[plumbing.Oid]struct{}
	changes  map[string]uint32
	commits  map[plumbing.Oid]*object.Commit
	trees    map[plumbing.Oid]*object.Tree
}

// Walk reconstructs the commit and tree objects of table reachable
// from head, walks head's ancestry depth-first (counting changes
// along every parent edge), and returns the head's tree as a Node
// tree annotated with the resulting change counts.
func Walk(table *packfile.ObjectTable, head plumbing.Oid) (*Node, error) {
	w := &walker{
		table:   table,
		visited: map[plumbing.Oid]struct{}{},
		changes: map[string]uint32{},
		commits: map[plumbing.Oid]*object.Commit{},
		trees:   map[plumbing.Oid]*object.Tree{},
	}

	headCommit, err := w.commit(head)
	if err != nil {
		return nil, err
	}

	if err := w.walkCommit(head); err != nil {
		return nil, err
	}

	return w.buildNode("", "/", headCommit.TreeOid)
}

// commit returns the parsed commit for oid, parsing and caching it on
// first access.
func (w *walker) commit(oid plumbing.Oid) (*object.Commit, error) {
	if c, ok := w.commits[oid]; ok {
		return c, nil
	}
	o, err := w.table.Get(oid)
	if err != nil {
		return nil, ErrUnknownReference
	}
	c, err := o.AsCommit()
	if err != nil {
		return nil, err
	}
	w.commits[oid] = c
	return c, nil
}

// tree returns the parsed tree for oid, parsing and caching it on
// first access.
func (w *walker) tree(oid plumbing.Oid) (*object.Tree, error) {
	if t, ok := w.trees[oid]; ok {
		return t, nil
	}
	o, err := w.table.Get(oid)
	if err != nil {
		return nil, ErrUnknownReference
	}
	t, err := o.AsTree()
	if err != nil {
		return nil, err
	}
	w.trees[oid] = t
	return t, nil
}

// walkCommit visits commitOid and, for every parent, records the
// changes between the parent's tree and commitOid's tree before
// recursing into the parent. Already-visited commits are skipped,
// both to terminate on merge commits that share ancestors and to
// avoid double-counting a change reachable through more than one
// path in the graph.
func (w *walker) walkCommit(commitOid plumbing.Oid) error {
	if _, seen := w.visited[commitOid]; seen {
		return nil
	}
	w.visited[commitOid] = struct{}{}

	commit, err := w.commit(commitOid)
	if err != nil {
		return err
	}

	for _, parentOid := range commit.ParentOids {
		parent, err := w.commit(parentOid)
		if err != nil {
			return err
		}
		if err := w.recordChanges(parent.TreeOid, commit.TreeOid, []string{"/"}); err != nil {
			return err
		}
		if err := w.walkCommit(parentOid); err != nil {
			return err
		}
	}

	return nil
}
