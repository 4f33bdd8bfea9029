// Package loom contains shared definitions for the Loom Virtual Machine (LVM).
package loom

import (
	"lukechampine.com/blake3"

	"loomvm.org/loom/internal/fingerprint"
)

const (
	// WordBits is the width of a machine word.
	// Every operand stack slot and every local slot holds one word.
	WordBits  = 32
	WordBytes = WordBits / 8
)

type (
	// Fingerprint identifies a program by the hash of its canonical encoding.
	Fingerprint = fingerprint.FP
)

// Hash calculates the hash of x.
// If tag == nil, then the hash is unkeyed.
// If tag != nil, then the hash will be keyed with the tag.
func Hash(tag *Fingerprint, x []byte) (ret Fingerprint) {
	var key []byte
	if tag != nil {
		key = tag[:]
	}
	h := blake3.New(32, key)
	h.Write(x)
	h.Sum(ret[:0])
	return ret
}
