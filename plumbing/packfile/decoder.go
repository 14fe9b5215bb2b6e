package packfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/goabstract/packtree/plumbing"
	"github.com/goabstract/packtree/plumbing/object"
	"golang.org/x/xerrors"
)

// emptyZlibStreamSize is the byte length of a zlib stream that
// deflates zero bytes of content, computed once against the actual
// compress/zlib implementation rather than hardcoded, since the exact
// bytes a "stored, empty, final block" deflate stream takes aren't
// part of the format's public contract.
var emptyZlibStreamSize = func() int {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_ = w.Close()
	return buf.Len()
}()

// countingReader wraps a byte slice and tracks how many bytes have
// been consumed through it. It implements both io.Reader and
// io.ByteReader so compress/flate uses it directly instead of
// wrapping it in its own bufio.Reader - which would read ahead into
// its internal buffer and make the "bytes consumed" count wrong. This
// is the only way to recover a compressed object's length, since the
// pack format never stores it (it only stores the *uncompressed*
// size).
type countingReader struct {
	data []byte
	pos  int
}

func (c *countingReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := copy(p, c.data[c.pos:])
	c.pos += n
	return n, nil
}

func (c *countingReader) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Decode parses a full pack stream (header, object entries, trailer)
// into an ObjectTable. It reads the buffer once, front to back; it
// never seeks and never requires a companion index file.
func Decode(buf []byte, opts DecodeOptions) (*ObjectTable, error) {
	if len(buf) < headerSize+trailerSize {
		return nil, xerrors.Errorf("packfile shorter than header+trailer: %w", ErrMalformedHeader)
	}
	if !bytes.Equal(buf[0:4], packMagic[:]) {
		return nil, xerrors.Errorf("bad magic %q: %w", buf[0:4], ErrMalformedHeader)
	}
	declaredCount := binary.BigEndian.Uint32(buf[8:12])

	table := NewObjectTable()
	pos := headerSize
	end := len(buf) - trailerSize
	var readCount uint32

	for pos < end {
		startPos := pos

		first := buf[pos]
		typ := object.Type((first >> 4) & 0b0111)
		size := uint64(first & 0b0000_1111)
		pos++

		if isMSBSet(first) {
			extra, read, err := readSize(buf[pos:])
			if err != nil {
				return nil, xerrors.Errorf("object at byte %d: %w", startPos, err)
			}
			size |= extra << 4
			pos += read
		}

		if typ == object.TypeOfsDelta {
			return nil, xerrors.Errorf("offset-delta object at byte %d: %w", startPos, ErrUnsupportedEncoding)
		}
		if !typ.IsValid() {
			return nil, xerrors.Errorf("type code %d at byte %d: %w", typ, startPos, ErrUnknownType)
		}

		isRefDelta := typ == object.TypeRefDelta
		var baseOid plumbing.Oid
		if isRefDelta {
			if pos+plumbing.OidSize > len(buf) {
				return nil, xerrors.Errorf("truncated ref-delta base oid at byte %d: %w", startPos, ErrMalformedHeader)
			}
			var err error
			baseOid, err = plumbing.NewOidFromHex(buf[pos : pos+plumbing.OidSize])
			if err != nil {
				return nil, xerrors.Errorf("invalid ref-delta base oid at byte %d: %w", startPos, err)
			}
			pos += plumbing.OidSize
		}

		var content []byte
		if size == 0 {
			content = []byte{}
			pos += emptyZlibStreamSize
		} else {
			cr := &countingReader{data: buf[pos:]}
			zr, err := zlib.NewReader(cr)
			if err != nil {
				return nil, xerrors.Errorf("object at byte %d: could not open zlib stream: %w", startPos, ErrDecompressionFailed)
			}
			var out bytes.Buffer
			if _, err := io.Copy(&out, zr); err != nil {
				return nil, xerrors.Errorf("object at byte %d: %w", startPos, ErrDecompressionFailed)
			}
			if err := zr.Close(); err != nil {
				return nil, xerrors.Errorf("object at byte %d: checksum validation failed: %w", startPos, ErrDecompressionFailed)
			}
			if out.Len() != int(size) {
				return nil, xerrors.Errorf("object at byte %d: declared size %d, decompressed to %d: %w", startPos, size, out.Len(), ErrDecompressionFailed)
			}
			content = out.Bytes()
			pos += cr.pos
		}

		readCount++

		if isRefDelta {
			base, err := table.Get(baseOid)
			if err != nil {
				if opts.OnSkippedDelta != nil {
					opts.OnSkippedDelta(baseOid)
				}
				continue
			}
			resolved, err := ResolveDelta(base.Bytes(), content)
			if err != nil {
				return nil, xerrors.Errorf("object at byte %d: %w", startPos, err)
			}
			table.Insert(object.New(hashContent(base.Type(), resolved), base.Type(), resolved))
			continue
		}

		table.Insert(object.New(hashContent(typ, content), typ, content))
	}

	if readCount != declaredCount {
		return nil, xerrors.Errorf("read %d objects, header declared %d: %w", readCount, declaredCount, ErrObjectCountMismatch)
	}
	return table, nil
}

// hashContent computes the content-addressing oid of an object: the
// SHA-1 of its type name, a space, its decimal length, a NUL, then
// its raw content.
func hashContent(typ object.Type, content []byte) plumbing.Oid {
	header := fmt.Sprintf("%s %d\x00", typ, len(content))
	buf := make([]byte, 0, len(header)+len(content))
	buf = append(buf, header...)
	buf = append(buf, content...)
	return plumbing.NewOidFromContent(buf)
}
