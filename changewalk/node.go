package changewalk

import "github.com/goabstract/packtree/plumbing"

// NodeKind distinguishes a file entry from a directory entry in the
// output tree.
type NodeKind string

const (
	NodeKindFile NodeKind = "file"
	NodeKindDir  NodeKind = "directory"
)

// Node is one entry of the output tree: a file or a directory,
// annotated with how many commits touched it and, for directories,
// how many files it contains recursively.
type Node struct {
	// Name is the entry's own path component. The root node's Name is
	// the empty string.
	Name string `json:"name"`
	// Kind is NodeKindFile or NodeKindDir.
	Kind NodeKind `json:"kind"`
	// NumChanges is, for a file, the number of commit/parent pairs in
	// which it changed and, for a directory, the number of such file
	// changes beneath it (a commit changing two files in a directory
	// adds 2 to that directory).
	NumChanges uint32 `json:"num_changes"`
	// NumFiles is the number of files reachable beneath this node. For
	// a file node it is always 1.
	NumFiles int `json:"num_files"`
	// Children holds this node's direct descendants, in tree order.
	// Always empty for a file node.
	Children []*Node `json:"children,omitempty"`
}

// buildNode recursively turns the tree at oid into a Node named name
// and placed at the root path "/"; the second argument is ignored and
// the node is always built at the root. The resulting node's
// NumChanges and, for directories, NumFiles are computed from the
// walker's accumulated state rather than hardcoded.
func (w *walker) buildNode(name string, _ string, oid plumbing.Oid) (*Node, error) {
	path := []string{"/"}
	return w.buildNodeAt(name, path, oid)
}

// buildNodeAt builds the Node for the tree at oid, whose path stack
// (including the root marker "/" as its first element) is path.
func (w *walker) buildNodeAt(name string, path []string, oid plumbing.Oid) (*Node, error) {
	tree, err := w.tree(oid)
	if err != nil {
		return nil, err
	}

	node := &Node{
		Name:       name,
		Kind:       NodeKindDir,
		NumChanges: w.changes[joinPath(path)],
	}

	for _, entry := range tree.Entries {
		childPath := appendPath(path, entry.Name)

		if entry.IsDir {
			child, err := w.buildNodeAt(entry.Name, childPath, entry.ChildOid)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
			node.NumFiles += child.NumFiles
			continue
		}

		node.Children = append(node.Children, &Node{
			Name:       entry.Name,
			Kind:       NodeKindFile,
			NumChanges: w.changes[joinPath(childPath)],
			NumFiles:   1,
		})
		node.NumFiles++
	}

	return node, nil
}
