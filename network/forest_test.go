package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/network"
)

func TestParentOrder_Forest(t *testing.T) {
	parent := map[field.DeviceID]field.DeviceID{
		0: 0, 1: 0, 2: 1, 3: 1, // tree rooted at 0
		5: 9, 6: 5, // 9 is unknown, so 5 is a root
	}
	order, err := network.ParentOrder(parent)
	require.NoError(t, err)
	require.Len(t, order, len(parent))

	pos := map[field.DeviceID]int{}
	for i, id := range order {
		pos[id] = i
	}
	for id, p := range parent {
		if _, ok := parent[p]; ok && p != id {
			assert.Less(t, pos[p], pos[id], "parent %d after child %d", p, id)
		}
	}
}

func TestParentOrder_Cycle(t *testing.T) {
	_, err := network.ParentOrder(map[field.DeviceID]field.DeviceID{0: 1, 1: 2, 2: 0, 3: 3})
	assert.ErrorIs(t, err, network.ErrParentCycle)

	order, err := network.ParentOrder(nil)
	require.NoError(t, err)
	assert.Empty(t, order)
}
