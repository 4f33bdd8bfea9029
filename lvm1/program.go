package lvm1

import (
	"encoding/binary"

	"loomvm.org/loom"
)

// Program is a single start function: declared local slots plus a body.
// The body is a plain sequence; it is not itself repeatable.
type Program struct {
	// Locals holds the initial value of each declared local slot.
	Locals []Word
	// Body is the instruction sequence.
	Body []I
}

// Fingerprint hashes the canonical encoding of the program.
// Two programs have the same fingerprint iff they have the same locals
// and the same instruction sequence.
func (p *Program) Fingerprint() loom.Fingerprint {
	return loom.Hash(nil, p.encode(nil))
}

// one tag byte per instruction variant in the canonical encoding
const (
	tagPush = iota + 1
	tagLocalGet
	tagLocalSet
	tagLocalTee
	tagAddImm
	tagGtSImm
	tagLoop
	tagEnd
	tagBrIf
)

func (p *Program) encode(out []byte) []byte {
	out = binary.LittleEndian.AppendUint32(out, uint32(len(p.Locals)))
	for _, x := range p.Locals {
		out = binary.LittleEndian.AppendUint32(out, uint32(x))
	}
	for _, ix := range p.Body {
		switch ix := ix.(type) {
		case pushI:
			out = append(out, tagPush)
			out = binary.LittleEndian.AppendUint32(out, uint32(ix.x))
		case localGetI:
			out = append(out, tagLocalGet)
			out = binary.LittleEndian.AppendUint32(out, ix.idx)
		case localSetI:
			out = append(out, tagLocalSet)
			out = binary.LittleEndian.AppendUint32(out, ix.idx)
		case localTeeI:
			out = append(out, tagLocalTee)
			out = binary.LittleEndian.AppendUint32(out, ix.idx)
		case addImmI:
			out = append(out, tagAddImm)
			out = binary.LittleEndian.AppendUint32(out, uint32(ix.k))
		case gtSImmI:
			out = append(out, tagGtSImm)
			out = binary.LittleEndian.AppendUint32(out, uint32(ix.k))
		case loopI:
			out = append(out, tagLoop)
		case endI:
			out = append(out, tagEnd)
		case brIfI:
			out = append(out, tagBrIf)
			out = binary.LittleEndian.AppendUint32(out, ix.depth)
		default:
			panic(ix)
		}
	}
	return out
}

// Countdown builds the canonical countdown program.
// One local slot starts at n; the loop body decrements it and repeats while
// the new value is still positive.
// The body runs before the first test, so it executes at least once even
// when n <= 0.
func Countdown(n Word) Program {
	return Program{
		Locals: []Word{n},
		Body: []I{
			loopI{},
			localGetI{idx: 0},
			addImmI{k: -1},
			localTeeI{idx: 0},
			gtSImmI{k: 0},
			brIfI{depth: 0},
			endI{},
		},
	}
}
