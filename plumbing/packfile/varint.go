package packfile

import "golang.org/x/xerrors"

// isMSBSet checks if the most significant bit of a byte is set.
func isMSBSet(b byte) bool {
	return b >= 0b_1000_0000
}

// unsetMSB clears the most significant bit of a byte.
func unsetMSB(b byte) byte {
	return b & 0b_0111_1111
}

// insertLittleEndian7 inserts the 7 useful bits of chunk into base at
// the given 7-bit-wide position. Used to assemble both the per-object
// header size and the delta source/target sizes, which are both
// little-endian, MSB-continuation encoded.
func insertLittleEndian7(base uint64, chunk byte, position uint) uint64 {
	return (uint64(chunk) << (position * 7)) | base
}

// maxSizeBytes bounds the number of MSB-continuation bytes readSize
// will consume. 10 bytes of 7 useful bits each cover all 64 bits of a
// uint64 with room to spare; a field that still has its continuation
// bit set beyond that can only be represented by silently overflowing
// insertLittleEndian7's shift rather than by a value that fits.
const maxSizeBytes = 10

// readSize reads a MSB-continuation, little-endian 7-bit-chunk size
// from data, returning the decoded value and the number of bytes
// consumed. Used both for the delta source/target size fields (called
// directly on the full field) and for the continuation bytes of a
// per-object header size (called on the bytes following the first,
// whose 4 size bits the caller has already extracted and which it
// shifts the result of this call left by 4 to merge with).
func readSize(data []byte) (size uint64, bytesRead int, err error) {
	for i, b := range data {
		if i >= maxSizeBytes {
			return 0, 0, xerrors.Errorf("size field longer than %d bytes: %w", maxSizeBytes, ErrIntOverflow)
		}
		bytesRead = i + 1
		chunk := unsetMSB(b)
		size = insertLittleEndian7(size, chunk, uint(i))
		if !isMSBSet(b) {
			return size, bytesRead, nil
		}
	}
	return 0, 0, xerrors.Errorf("truncated size field: %w", ErrMalformedHeader)
}
