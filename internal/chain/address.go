package chain

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const addressLength = 20

// ContractAddress derives the address of the seq-th instance of a code id.
// Every node computes the same address for the same history.
func ContractAddress(prefix string, codeID, seq uint64) string {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], codeID)
	binary.BigEndian.PutUint64(buf[8:], seq)
	sum := blake2b.Sum256(buf[:])
	return prefix + hex.EncodeToString(sum[:addressLength])
}
