package object

import (
	"fmt"

	"github.com/goabstract/packtree/internal/readutil"
	"github.com/goabstract/packtree/plumbing"
)

// TreeEntry represents a single entry inside a git tree: either a file
// (a blob) or a subdirectory (another tree).
type TreeEntry struct {
	// IsDir is true when the entry's mode does not start with the ASCII
	// character '1' (a regular/executable/symlink blob mode always
	// starts with "100"/"120"; tree entries use "40000").
	IsDir bool
	// Name is the entry's path component, not a full path.
	Name string
	// ChildOid is the oid of the blob or tree this entry points to.
	ChildOid plumbing.Oid
}

// Tree represents a git tree object: an ordered list of entries.
type Tree struct {
	ID      plumbing.Oid
	Entries []TreeEntry
}

// parseTree parses the NUL-delimited mode/name/oid triplets that make
// up a tree object's content.
func parseTree(id plumbing.Oid, data []byte) (*Tree, error) {
	entries := []TreeEntry{}
	offset := 0

	for offset < len(data) {
		mode := readutil.ReadTo(data[offset:], ' ')
		if mode == nil {
			return nil, fmt.Errorf("could not find entry mode: %w", ErrTreeInvalid)
		}
		offset += len(mode) + 1 // +1 for the space

		name := readutil.ReadTo(data[offset:], 0)
		if name == nil {
			return nil, fmt.Errorf("could not find entry name: %w", ErrTreeInvalid)
		}
		offset += len(name) + 1 // +1 for the NUL

		if offset+plumbing.OidSize > len(data) {
			return nil, fmt.Errorf("not enough bytes left for entry oid: %w", ErrTreeInvalid)
		}
		oid, err := plumbing.NewOidFromHex(data[offset : offset+plumbing.OidSize])
		if err != nil {
			return nil, fmt.Errorf("invalid entry oid: %w", err)
		}
		offset += plumbing.OidSize

		entries = append(entries, TreeEntry{
			IsDir:    mode[0] != '1',
			Name:     string(name),
			ChildOid: oid,
		})
	}

	return &Tree{ID: id, Entries: entries}, nil
}
