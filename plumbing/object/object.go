// Package object contains methods and objects to work with git objects
// once they have been extracted from a packfile.
package object

import (
	"errors"
	"fmt"

	"github.com/goabstract/packtree/plumbing"
)

var (
	// ErrObjectUnknown represents an error thrown when encountering an
	// unknown object type
	ErrObjectUnknown = errors.New("invalid object type")

	// ErrTreeInvalid represents an error thrown when parsing an invalid
	// tree object
	ErrTreeInvalid = errors.New("invalid tree")

	// ErrCommitInvalid represents an error thrown when parsing an invalid
	// commit object
	ErrCommitInvalid = errors.New("invalid commit")
)

// Type represents the type of an object as stored in a packfile
type Type int8

// List of all the possible object types
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
	TypeTag    Type = 4
	// 5 is reserved for future use
	TypeOfsDelta Type = 6
	TypeRefDelta Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	case TypeTag:
		return "tag"
	case TypeOfsDelta:
		return "ofs-delta"
	case TypeRefDelta:
		return "ref-delta"
	default:
		return fmt.Sprintf("unknown(%d)", int8(t))
	}
}

// IsValid checks if the type is one of the 6 types used on the wire
// (1 through 4, plus the 2 delta encodings, 6 and 7). 5 is reserved
// and is never valid.
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob, TypeTag, TypeOfsDelta, TypeRefDelta:
		return true
	default:
		return false
	}
}

// Object represents a single git object: a commit, a tree, a blob, or
// a tag, fully resolved (deltas already applied) and content-addressed
// by its Oid.
type Object struct {
	id      plumbing.Oid
	typ     Type
	content []byte
}

// New creates a new resolved object of the given type.
func New(id plumbing.Oid, typ Type, content []byte) *Object {
	return &Object{
		id:      id,
		typ:     typ,
		content: content,
	}
}

// ID returns the object's Oid
func (o *Object) ID() plumbing.Oid {
	return o.id
}

// Type returns the object's Type
func (o *Object) Type() Type {
	return o.typ
}

// Size returns the size of the object's content
func (o *Object) Size() int {
	return len(o.content)
}

// Bytes returns the object's raw content (without the "type size\0" header)
func (o *Object) Bytes() []byte {
	return o.content
}

// AsBlob returns the object as a Blob. The object isn't checked for
// its type: blobs are opaque content, so any object can be read as one.
func (o *Object) AsBlob() *Blob {
	return &Blob{Object: o}
}

// AsTree parses the object as a Tree.
//
// A tree is a sequence of entries with no separator between them:
//
//	{octal_mode} {name}\0{20-byte oid}{octal_mode} {name}\0{20-byte oid}...
func (o *Object) AsTree() (*Tree, error) {
	if o.typ != TypeTree {
		return nil, fmt.Errorf("type %s is not a tree: %w", o.typ, ErrTreeInvalid)
	}
	return parseTree(o.id, o.content)
}

// AsCommit parses the object as a Commit.
//
// Only the tree line and the (possibly absent, possibly repeated)
// parent lines are kept: author, committer, gpg signature and message
// are discarded, since nothing downstream of packtree's core needs
// them.
func (o *Object) AsCommit() (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, fmt.Errorf("type %s is not a commit: %w", o.typ, ErrCommitInvalid)
	}
	return parseCommit(o.id, o.content)
}
