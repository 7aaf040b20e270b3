package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeIDCanonicalRange(t *testing.T) {
	assert.Equal(t, 0, NodeID(0, 0, 0))
	assert.Equal(t, 1, NodeID(0, 0, 1))
	assert.Equal(t, 32, NodeID(0, 1, 0))
	assert.Equal(t, 1024, NodeID(1, 0, 0))
	assert.Equal(t, LatticeSize-1, NodeID(31, 31, 31))
}

func TestNodeIDToroidalWrap(t *testing.T) {
	for _, c := range [][3]int{{0, 0, 0}, {5, 7, 9}, {31, 31, 31}, {12, 0, 30}} {
		base := NodeID(c[0], c[1], c[2])
		assert.Equal(t, base, NodeID(c[0]+32, c[1], c[2]))
		assert.Equal(t, base, NodeID(c[0], c[1]+64, c[2]))
		assert.Equal(t, base, NodeID(c[0], c[1], c[2]-32))
		assert.Equal(t, base, NodeID(c[0]-32, c[1]+32, c[2]+96))
	}
}

func TestNodeIDNegativeWrap(t *testing.T) {
	assert.Equal(t, NodeID(31, 0, 0), NodeID(-1, 0, 0))
	assert.Equal(t, NodeID(0, 31, 31), NodeID(0, -33, -1))
}

func TestDecodeNodeRoundTrip(t *testing.T) {
	for _, c := range [][3]int{{0, 0, 0}, {1, 2, 3}, {9, 31, 0}, {31, 31, 31}} {
		x, y, z := DecodeNode(NodeID(c[0], c[1], c[2]))
		assert.Equal(t, c[0], x)
		assert.Equal(t, c[1], y)
		assert.Equal(t, c[2], z)
	}
}
