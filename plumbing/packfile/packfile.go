// Package packfile decodes the packed object format used to transfer
// and store git objects: a header, a sequence of zlib-compressed,
// optionally delta-compressed objects, and a trailer.
//
// Pack layout:
//
//	Header (12 bytes): magic "PACK", a 4-byte big-endian version, a
//	4-byte big-endian object count.
//	Content (variable): one entry per object. Each entry starts with a
//	variable-length type/size header (the first byte holds a
//	continuation bit, a 3-bit type, and the low 4 size bits; any
//	further bytes each hold a continuation bit and 7 more size bits,
//	least-significant chunk first), followed by the object's zlib
//	deflate stream. The declared size is the object's *uncompressed*
//	size; the compressed length is never stored and must be recovered
//	by observing how many bytes the deflate reader actually consumed.
//	A REF_DELTA entry additionally carries a 20-byte base object id
//	right after the type/size header, before the deflate stream.
//	Trailer (20 bytes): a SHA-1 of the preceding bytes. This package
//	does not validate it (see Non-goals).
//
// https://github.com/git/git/blob/master/Documentation/technical/pack-format.txt
package packfile

import (
	"errors"

	"github.com/goabstract/packtree/plumbing"
)

const (
	// headerSize is the fixed size, in bytes, of a pack's own header:
	// 4 bytes of magic, 4 bytes of version, 4 bytes of object count.
	headerSize = 12
	// trailerSize is the fixed size, in bytes, of the trailing
	// checksum. Present but never validated (Non-goal).
	trailerSize = 20
)

var packMagic = [4]byte{'P', 'A', 'C', 'K'}

var (
	// ErrMalformedHeader is returned when the pack's 12-byte header or
	// an individual object's type/size header can't be parsed.
	ErrMalformedHeader = errors.New("malformed packfile header")
	// ErrUnknownType is returned when an object's type code is outside
	// the 7 values the format defines (type code 5 is reserved and
	// also surfaces this error).
	ErrUnknownType = errors.New("unknown object type")
	// ErrUnsupportedEncoding is returned for object encodings this
	// package deliberately does not implement: offset-deltas.
	ErrUnsupportedEncoding = errors.New("unsupported object encoding")
	// ErrDecompressionFailed is returned when an object's deflate
	// stream can't be read to completion, or its inflated length
	// doesn't match the size declared in its header.
	ErrDecompressionFailed = errors.New("could not decompress object")
	// ErrMalformedDelta is returned when a delta instruction stream is
	// truncated or refers outside the bounds of its base object.
	ErrMalformedDelta = errors.New("malformed delta instructions")
	// ErrObjectCountMismatch is returned when the number of objects
	// actually read from the pack doesn't match the count declared in
	// the pack header.
	ErrObjectCountMismatch = errors.New("object count does not match packfile header")
	// ErrIntOverflow is returned when a variable-length size field is
	// still continuing past maxSizeBytes (10) bytes, more than a uint64
	// can need. A field that runs out of input before terminating is
	// ErrMalformedHeader instead.
	ErrIntOverflow = errors.New("int64 overflow reading a variable-length field")
	// ErrObjectNotFound is returned by ObjectTable.Get when no object
	// with the given oid was inserted into the table.
	ErrObjectNotFound = errors.New("object not found in packfile")
)

// DecodeOptions configures Decode's handling of conditions the core
// does not treat as fatal errors.
type DecodeOptions struct {
	// OnSkippedDelta, if set, is called whenever a ref-delta entry's
	// base object isn't present yet in the table (the pack listed the
	// delta before its base, or never included the base at all). The
	// entry is dropped; decoding continues. This is the only
	// "logged, not raised" condition in the decoder (everything else
	// is fatal), so it's surfaced through a callback instead of a
	// bundled logging dependency the core has no other use for.
	OnSkippedDelta func(missingBase plumbing.Oid)
}
