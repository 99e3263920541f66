package kv

import (
	"encoding/binary"
)

// Part is one component of a composite key.
type Part []byte

func Uint64(v uint64) Part {
	return binary.BigEndian.AppendUint64(nil, v)
}

func Uint8(v uint8) Part {
	return Part{v}
}

func String(s string) Part {
	return Part(s)
}

// Tuple joins parts into a composite key. Every part is length-prefixed with two
// big-endian bytes, so the encoding of any leading subset of parts is a strict
// byte prefix of the full key and ordering within a part is preserved.
func Tuple(parts ...Part) []byte {
	size := 0
	for _, part := range parts {
		size += 2 + len(part)
	}
	out := make([]byte, 0, size)
	for _, part := range parts {
		out = binary.BigEndian.AppendUint16(out, uint16(len(part)))
		out = append(out, part...)
	}
	return out
}

// DecodeUint64 reads a key produced by Tuple(Uint64(v)).
func DecodeUint64(key []byte) (uint64, bool) {
	if len(key) != 10 || binary.BigEndian.Uint16(key) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[2:]), true
}

// After returns the smallest key strictly greater than key.
func After(key []byte) []byte {
	out := make([]byte, len(key)+1)
	copy(out, key)
	return out
}
