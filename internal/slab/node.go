package slab

import "encoding/binary"

// NodeSize is the size of one free-list node record in the control
// region.
const NodeSize = 8

// nodeTag marks a record as a written free-list node. A mismatch on
// read means the record was never written or its page was lost, both
// of which are allocator-internal corruption.
const nodeTag = 0x51ab4e0d

// putNode writes a node record: next-link plus check tag.
func putNode(b []byte, next int32) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(next))
	binary.LittleEndian.PutUint32(b[4:8], nodeTag)
}

// readNode reads a node record back. ok is false when the check tag
// does not match.
func readNode(b []byte) (next int32, ok bool) {
	if binary.LittleEndian.Uint32(b[4:8]) != nodeTag {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(b[0:4])), true
}
