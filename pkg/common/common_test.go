package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64(t *testing.T) {
	seen := make(map[int64]bool)
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.False(t, seen[id])
		assert.Greater(t, id, prev)
		seen[id], prev = true, id
	}
}

func TestNodeNumber(t *testing.T) {
	t.Setenv("STOCKLEDGER_NODE_ID", "17")
	assert.EqualValues(t, 17, nodeNumber())
	t.Setenv("STOCKLEDGER_NODE_ID", "5000")
	assert.EqualValues(t, 1, nodeNumber())
	t.Setenv("STOCKLEDGER_NODE_ID", "")
	assert.EqualValues(t, 1, nodeNumber())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "x", IfEmptyStr(" ", "x"))
	assert.Equal(t, "a", IfEmptyStr("a", "x"))
	assert.True(t, InSlice("b", []string{"a", "b"}))
	assert.False(t, InSlice("c", nil))
}
