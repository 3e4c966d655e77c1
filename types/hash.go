package types

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// hashKey is fixed so two runs of the same process hash a given structural
// description to the same value; the type system never persists hashes
// across processes so a rotating key is unnecessary.
var hashKey = []byte("RVSDGTYPEHASHKEY0123456789ABCDEF")

// hashBytes hashes an arbitrary structural encoding of a type. Concrete types
// build the encoding from their own fields (kind tag plus sub-hashes of
// nested types) so that equal structural descriptions always hash equal.
func hashBytes(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// hashKey is a fixed 32-byte literal; New64 only fails on bad key length.
		panic("types: invalid highwayhash key: " + err.Error())
	}
	_, _ = h.Write(data)
	return h.Sum64()
}

// encodeUint64 appends v to buf in a fixed little-endian width, used to build
// the structural encodings hashed by hashBytes.
func encodeUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// encodeKind appends the kind tag as a fixed-width field (no separator).
func encodeKind(buf []byte, k Kind) []byte {
	return encodeUint64(buf, uint64(k))
}
