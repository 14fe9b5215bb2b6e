// Package testutil contains helpers shared by packtree's tests.
package testutil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"

	"github.com/goabstract/packtree/plumbing"
	"github.com/goabstract/packtree/plumbing/object"
)

// PackBuilder synthesizes byte-exact PACK streams for tests. None of
// the core's tests have access to a real on-disk repository, so every
// pack exercised by plumbing/packfile and changewalk's tests is built
// with this helper instead of a fixture file.
type PackBuilder struct {
	entries [][]byte
}

// NewPackBuilder returns an empty builder.
func NewPackBuilder() *PackBuilder {
	return &PackBuilder{}
}

// AddObject appends a non-delta object entry and returns its oid.
func (b *PackBuilder) AddObject(typ object.Type, content []byte) plumbing.Oid {
	header := fmt.Sprintf("%s %d\x00", typ, len(content))
	full := append([]byte(header), content...)
	oid := plumbing.NewOidFromContent(full)

	b.entries = append(b.entries, encodeEntry(typ, content, nil))
	return oid
}

// AddBlob is a convenience wrapper around AddObject for blob content.
func (b *PackBuilder) AddBlob(content []byte) plumbing.Oid {
	return b.AddObject(object.TypeBlob, content)
}

// AddTree encodes and appends a tree built from the given entries.
func (b *PackBuilder) AddTree(entries []object.TreeEntry) plumbing.Oid {
	var buf bytes.Buffer
	for _, e := range entries {
		mode := "100644"
		if e.IsDir {
			mode = "40000"
		}
		buf.WriteString(mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ChildOid.Bytes())
	}
	return b.AddObject(object.TypeTree, buf.Bytes())
}

// AddCommit encodes and appends a commit pointing at treeOid with the
// given parents. A minimal author/committer line is included since
// real git commits always have one, even though packtree's Commit
// type discards it.
func (b *PackBuilder) AddCommit(treeOid plumbing.Oid, parentOids ...plumbing.Oid) plumbing.Oid {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", treeOid.String())
	for _, p := range parentOids {
		fmt.Fprintf(&buf, "parent %s\n", p.String())
	}
	buf.WriteString("author test <test@example.com> 1600000000 +0000\n")
	buf.WriteString("committer test <test@example.com> 1600000000 +0000\n")
	buf.WriteString("\ncommit message\n")
	return b.AddObject(object.TypeCommit, buf.Bytes())
}

// AddRefDelta appends a ref-delta entry resolving against baseOid.
// instructions is the delta payload (source size, target size, then
// COPY/INSERT instructions) as described in plumbing/packfile.
func (b *PackBuilder) AddRefDelta(baseOid plumbing.Oid, instructions []byte) {
	b.entries = append(b.entries, encodeEntry(object.TypeRefDelta, instructions, &baseOid))
}

// Build assembles the header, all entries in insertion order, and a
// (deliberately incorrect, since the trailer is never validated) 20
// zero bytes for the trailer.
func (b *PackBuilder) Build() []byte {
	var out bytes.Buffer
	out.WriteString("PACK")
	writeBE32(&out, 2)
	writeBE32(&out, uint32(len(b.entries)))
	for _, e := range b.entries {
		out.Write(e)
	}
	out.Write(make([]byte, 20))
	return out.Bytes()
}

func writeBE32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// encodeEntry builds one pack entry: the variable-length type/size
// header, an optional 20-byte ref-delta base oid, then the
// zlib-compressed payload.
func encodeEntry(typ object.Type, payload []byte, baseOid *plumbing.Oid) []byte {
	var out bytes.Buffer

	size := uint64(len(payload))
	first := byte(typ) << 4
	low := byte(size & 0x0F)
	size >>= 4
	if size > 0 {
		first |= 0x80
	}
	out.WriteByte(first | low)
	for size > 0 {
		b := byte(size & 0x7F)
		size >>= 7
		if size > 0 {
			b |= 0x80
		}
		out.WriteByte(b)
	}

	if baseOid != nil {
		out.Write(baseOid.Bytes())
	}

	if len(payload) > 0 {
		zw := zlib.NewWriter(&out)
		_, _ = zw.Write(payload)
		_ = zw.Close()
	} else {
		zw := zlib.NewWriter(&out)
		_ = zw.Close()
	}

	return out.Bytes()
}

// EncodeCopyInstruction builds a single COPY instruction byte
// sequence for delta payload tests. Always emits all 4 offset bytes
// and all 3 size bytes (full presence bitmaps) - simpler to construct
// correctly than a minimal encoding, and the decoder accepts any
// subset. Pass size 0 to exercise the "default to 0x10000" rule.
func EncodeCopyInstruction(offset, size uint32) []byte {
	var out bytes.Buffer
	instr := byte(0x80 | 0x0F | 0x70) // all 4 offset bits + all 3 size bits
	out.WriteByte(instr)
	out.Write(leBytes(offset))
	out.Write(leBytes(size)[:3])
	return out.Bytes()
}

// EncodeInsertInstruction builds a single INSERT instruction for
// delta payload tests.
func EncodeInsertInstruction(literal []byte) []byte {
	out := make([]byte, 0, len(literal)+1)
	out = append(out, byte(len(literal)))
	out = append(out, literal...)
	return out
}

func leBytes(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

// EncodeDeltaSizeVarint encodes a single size field the way delta
// source/target sizes (and the continuation bytes of object headers)
// are encoded: little endian, 7 bits per byte, MSB set on every byte
// but the last.
func EncodeDeltaSizeVarint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v > 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

// BuildDeltaPayload assembles a full delta instruction stream: the
// source size varint, the target size varint, then the concatenation
// of instructions.
func BuildDeltaPayload(sourceSize, targetSize uint64, instructions ...[]byte) []byte {
	out := append([]byte{}, EncodeDeltaSizeVarint(sourceSize)...)
	out = append(out, EncodeDeltaSizeVarint(targetSize)...)
	for _, instr := range instructions {
		out = append(out, instr...)
	}
	return out
}
