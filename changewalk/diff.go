package changewalk

import (
	"github.com/goabstract/packtree/plumbing"
	"github.com/goabstract/packtree/plumbing/object"
)

// recordChanges compares the trees at oldOid and newOid and looks at
// every entry whose name and kind (file vs. directory) exist in both
// trees but whose underlying oid differs. A file entry bumps the
// change counter for itself and for every directory above it up to
// the root. A directory entry is not counted by itself; it is
// recursed into with oldOid's child and newOid's child, so it only
// accumulates the file changes found beneath it.
//
// Entries that only exist on one side (an addition or a deletion) are
// never counted and never recursed into: a path that was added or
// removed wholesale was never "changed", it came into or went out of
// existence. Only a path present, as the same kind, on both sides of
// a commit can accumulate a change. Because every change bumps every
// ancestor prefix, the root's own counter ends up holding the total
// number of changes found anywhere beneath it.
func (w *walker) recordChanges(oldOid, newOid plumbing.Oid, prefix []string) error {
	if oldOid == newOid {
		return nil
	}

	oldTree, err := w.tree(oldOid)
	if err != nil {
		return err
	}
	newTree, err := w.tree(newOid)
	if err != nil {
		return err
	}

	oldByName := make(map[string]object.TreeEntry, len(oldTree.Entries))
	for _, e := range oldTree.Entries {
		oldByName[e.Name] = e
	}

	for _, newEntry := range newTree.Entries {
		oldEntry, ok := oldByName[newEntry.Name]
		if !ok || oldEntry.IsDir != newEntry.IsDir {
			continue
		}
		if oldEntry.ChildOid == newEntry.ChildOid {
			continue
		}

		path := appendPath(prefix, newEntry.Name)

		if newEntry.IsDir {
			if err := w.recordChanges(oldEntry.ChildOid, newEntry.ChildOid, path); err != nil {
				return err
			}
			continue
		}
		w.countChange(path)
	}

	return nil
}

// countChange bumps the change counter for path itself and for every
// ancestor prefix of path, including the root. A change four levels
// deep is therefore also reflected in the counters of the three
// directories above it and in the root's own counter.
func (w *walker) countChange(path []string) {
	for i := 1; i <= len(path); i++ {
		key := joinPath(path[:i])
		w.changes[key]++
	}
}

// appendPath returns a new slice with name appended to prefix,
// without mutating prefix's backing array.
func appendPath(prefix []string, name string) []string {
	out := make([]string, len(prefix), len(prefix)+1)
	copy(out, prefix)
	return append(out, name)
}

// joinPath renders a path stack as a single string key, unique per
// path, used to index the walker's change counters.
func joinPath(path []string) string {
	total := 0
	for _, p := range path {
		total += len(p) + 1
	}
	buf := make([]byte, 0, total)
	for _, p := range path {
		buf = append(buf, p...)
		buf = append(buf, '/')
	}
	return string(buf)
}
