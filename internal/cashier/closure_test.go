package cashier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherBlockersEmptyBacklog(t *testing.T) {
	v := NewClosureValidator(&stubOrders{})
	blockers, err := v.GatherBlockers(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, blockers)
}

func TestGatherBlockersOnePerCategory(t *testing.T) {
	v := NewClosureValidator(&stubOrders{
		comandas:      []string{"CMD-001"},
		counterOrders: []string{"BAL-007", "BAL-008"},
		items:         []string{"CMD-001/2"},
	})

	blockers, err := v.GatherBlockers(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, blockers, 3)

	assert.Equal(t, BlockerOpenComandas, blockers[0].Category)
	assert.Equal(t, 1, blockers[0].Count)
	assert.Equal(t, BlockerPendingCounter, blockers[1].Category)
	assert.Equal(t, 2, blockers[1].Count)
	assert.Contains(t, blockers[1].Message, "2 ")
	assert.Equal(t, BlockerUndeliveredItems, blockers[2].Category)
}

func TestGatherBlockersCapsSamplesButKeepsFullCount(t *testing.T) {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("CMD-%03d", i+1)
	}
	v := NewClosureValidator(&stubOrders{comandas: ids})

	blockers, err := v.GatherBlockers(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, blockers, 1)
	assert.Equal(t, 12, blockers[0].Count)
	assert.Len(t, blockers[0].Samples, maxBlockerSamples)
}

func TestGatherBlockersPropagatesDirectoryErrors(t *testing.T) {
	boom := errors.New("directory offline")
	v := NewClosureValidator(&stubOrders{err: boom})

	_, err := v.GatherBlockers(context.Background(), uuid.New())
	require.ErrorIs(t, err, boom)
}

func TestGatherBlockersNilDirectoryIsNoop(t *testing.T) {
	v := NewClosureValidator(nil)
	blockers, err := v.GatherBlockers(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, blockers)
}
