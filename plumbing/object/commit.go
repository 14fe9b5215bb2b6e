package object

import (
	"bytes"
	"fmt"

	"github.com/goabstract/packtree/internal/readutil"
	"github.com/goabstract/packtree/plumbing"
)

// Commit represents a commit object, trimmed to the two fields the
// change-count walker cares about: the tree it points to, and the
// commits it descends from. Author, committer, gpg signature and
// message are parsed far enough to be skipped over but are not kept.
type Commit struct {
	ID         plumbing.Oid
	TreeOid    plumbing.Oid
	ParentOids []plumbing.Oid
}

// parseCommit parses a commit object's content.
//
//	tree {oid}\n
//	parent {oid}\n        (zero or more times)
//	author ...\n
//	committer ...\n
//	gpgsig ...\n          (optional, may span multiple lines)
//	\n
//	{message}
func parseCommit(id plumbing.Oid, data []byte) (*Commit, error) {
	c := &Commit{ID: id}
	offset := 0

	for {
		line := readutil.ReadTo(data[offset:], '\n')
		if line == nil {
			return nil, fmt.Errorf("could not find commit header line: %w", ErrCommitInvalid)
		}
		offset += len(line) + 1 // +1 for the \n

		if len(line) == 0 {
			// blank line: everything past it is the message, which we
			// don't keep.
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		if len(kv) != 2 {
			continue
		}
		switch string(kv[0]) {
		case "tree":
			oid, err := plumbing.NewOidFromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("invalid tree oid %q: %w", kv[1], err)
			}
			c.TreeOid = oid
		case "parent":
			oid, err := plumbing.NewOidFromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("invalid parent oid %q: %w", kv[1], err)
			}
			c.ParentOids = append(c.ParentOids, oid)
		case "gpgsig":
			// A gpg signature spans multiple lines, each continuation
			// line starting with a space, until the PGP footer. Skip
			// past it so the blank-line scan above doesn't trip on a
			// blank line inside the signature block.
			end := []byte("-----END PGP SIGNATURE-----\n")
			idx := bytes.Index(data[offset:], end)
			if idx >= 0 {
				offset += idx + len(end)
			}
		}
	}

	if c.TreeOid == plumbing.NullOid {
		return nil, fmt.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}
	return c, nil
}
