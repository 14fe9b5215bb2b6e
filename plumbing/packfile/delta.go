package packfile

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

// copyDefaultSize is the copy-size a COPY instruction uses when its
// size decodes to zero, whether because no size bytes follow or
// because every size byte present is zero: the instruction stream
// encodes "use the default" rather than an explicit zero-length copy,
// since a zero-length copy would never be emitted in practice.
const copyDefaultSize = 0x10000

// ResolveDelta reconstructs a full object's content from a base
// object's content and a reference-delta instruction stream.
//
// The instruction stream is:
//
//	{source size, varint}{target size, varint}{instructions...}
//
// Each instruction is either:
//   - COPY (MSB of the first byte set): a 4-bit presence bitmap
//     selects which of up to 4 little-endian offset bytes follow, a
//     3-bit presence bitmap selects which of up to 3 little-endian
//     size bytes follow; copy [offset, offset+size) from the base into
//     the output. A size that decodes to zero means "copy
//     copyDefaultSize (0x10000) bytes", since an explicit 0 would
//     never be worth encoding.
//   - INSERT (MSB clear): the instruction byte itself (1-127) is a
//     literal byte count; that many bytes follow in the delta stream
//     and are copied straight to the output.
func ResolveDelta(base []byte, delta []byte) ([]byte, error) {
	sourceSize, n, err := readSize(delta)
	if err != nil {
		return nil, xerrors.Errorf("could not read delta source size: %w", err)
	}
	if int(sourceSize) != len(base) {
		return nil, xerrors.Errorf("delta source size %d does not match base size %d: %w", sourceSize, len(base), ErrMalformedDelta)
	}
	delta = delta[n:]

	targetSize, n, err := readSize(delta)
	if err != nil {
		return nil, xerrors.Errorf("could not read delta target size: %w", err)
	}
	delta = delta[n:]

	out := make([]byte, 0, targetSize)
	for i := 0; i < len(delta); {
		instr := delta[i]
		i++

		if isMSBSet(instr) {
			offsetBytes := make([]byte, 4)
			var read int
			for j := uint(0); j < 4; j++ {
				if instr&(1<<j) != 0 {
					if i+read >= len(delta) {
						return nil, xerrors.Errorf("truncated copy offset: %w", ErrMalformedDelta)
					}
					offsetBytes[j] = delta[i+read]
					read++
				}
			}
			offset := binary.LittleEndian.Uint32(offsetBytes)
			i += read

			sizeBytes := make([]byte, 4)
			read = 0
			for j := uint(0); j < 3; j++ {
				if instr&(1<<(j+4)) != 0 {
					if i+read >= len(delta) {
						return nil, xerrors.Errorf("truncated copy size: %w", ErrMalformedDelta)
					}
					sizeBytes[j] = delta[i+read]
					read++
				}
			}
			i += read
			size := binary.LittleEndian.Uint32(sizeBytes)
			if size == 0 {
				size = copyDefaultSize
			}

			end := uint64(offset) + uint64(size)
			if end > uint64(len(base)) {
				return nil, xerrors.Errorf("copy [%d,%d) out of range of base (len %d): %w", offset, end, len(base), ErrMalformedDelta)
			}
			out = append(out, base[offset:end]...)
		} else if instr == 0 {
			return nil, xerrors.Errorf("instruction byte is 0, which is reserved: %w", ErrMalformedDelta)
		} else {
			litLen := int(instr)
			if i+litLen > len(delta) {
				return nil, xerrors.Errorf("truncated insert literal: %w", ErrMalformedDelta)
			}
			out = append(out, delta[i:i+litLen]...)
			i += litLen
		}
	}

	if uint64(len(out)) != targetSize {
		return nil, xerrors.Errorf("resolved delta size %d does not match target size %d: %w", len(out), targetSize, ErrMalformedDelta)
	}
	return out, nil
}
