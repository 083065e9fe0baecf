package bytecode

import (
	"encoding/binary"

	"vellum/internal/object"
)

// SourceMapEntry is one (pc-offset, token) pair letting the runtime
// attribute errors to source positions (spec GLOSSARY "source map").
type SourceMapEntry struct {
	PC     int
	Line   int
	Column int
	File   string
}

// Code is the bytecode container (spec §3.4): a byte buffer, a
// deduplicated constant pool, and a parallel source map. Not persisted
// to disk by the core (spec §6); purely in-memory.
type Code struct {
	Name      string
	Bytes     []byte
	Constants []object.Object
	SourceMap []SourceMapEntry

	constIndex map[constKey]int
}

type constKey struct {
	kind byte
	val  interface{}
}

// NewCode constructs an empty code buffer for the function/module named
// name.
func NewCode(name string) *Code {
	return &Code{Name: name, constIndex: make(map[constKey]int)}
}

// Emit appends op (and, if it takes one, a 32-bit little-endian operand)
// at the given source position, returning the pc of the opcode byte.
func (c *Code) Emit(op Op, operand int32, line, col int, file string) int {
	pc := len(c.Bytes)
	c.Bytes = append(c.Bytes, byte(op))
	if op.HasOperand() {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(operand))
		c.Bytes = append(c.Bytes, buf[:]...)
	}
	c.SourceMap = append(c.SourceMap, SourceMapEntry{PC: pc, Line: line, Column: col, File: file})
	return pc
}

// PatchOperand overwrites the 32-bit operand at pc+1 (used to back-patch
// forward jump targets once the target offset is known).
func (c *Code) PatchOperand(pc int, operand int32) {
	binary.LittleEndian.PutUint32(c.Bytes[pc+1:pc+5], uint32(operand))
}

// Here returns the current write position (the pc a not-yet-emitted
// instruction would get), useful for computing jump offsets.
func (c *Code) Here() int { return len(c.Bytes) }

// ReadOperand decodes the 32-bit operand following the opcode at pc.
func (c *Code) ReadOperand(pc int) int32 {
	return int32(binary.LittleEndian.Uint32(c.Bytes[pc+1 : pc+5]))
}

// AddConstant interns val into the pool, never duplicating constants
// that compare equal by type-and-value (spec §4.6): strings and small
// ints are deduplicated via a Go-native key; other constants (notably
// kfunc templates) are never deduplicated since each occurrence must be
// a distinct template for NEW_FUNC to copy.
func (c *Code) AddConstant(val object.Object, dedupeKey interface{}) int {
	if dedupeKey != nil {
		key := constKey{val: dedupeKey}
		if idx, ok := c.constIndex[key]; ok {
			return idx
		}
		c.Constants = append(c.Constants, val)
		idx := len(c.Constants) - 1
		c.constIndex[key] = idx
		return idx
	}
	c.Constants = append(c.Constants, val)
	return len(c.Constants) - 1
}

// PositionAt returns the nearest source-map entry at or before pc, used
// to attribute a running instruction to a source location when an
// exception is raised.
func (c *Code) PositionAt(pc int) SourceMapEntry {
	var best SourceMapEntry
	for _, e := range c.SourceMap {
		if e.PC > pc {
			break
		}
		best = e
	}
	return best
}
