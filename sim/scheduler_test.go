package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchScheduler_Submit_StampsArrivalAsEnqueue(t *testing.T) {
	s := NewBatchScheduler()
	tk := task("a", 100, 1)
	tk.ArrivalTime = 42.5

	s.Submit(tk)
	st, ok := s.Next()

	require.True(t, ok)
	assert.Equal(t, 42.5, st.EnqueueTime)
	assert.Equal(t, "a", st.ID)
}

func TestScheduler_Next_ReturnsEDFOrder(t *testing.T) {
	s := NewBatchScheduler()
	s.Submit(task("loose", 50, 1))
	s.Submit(task("tight", 5, 1))
	s.Submit(task("mid", 20, 1))

	var order []string
	for {
		st, ok := s.Next()
		if !ok {
			break
		}
		order = append(order, st.ID)
	}
	assert.Equal(t, []string{"tight", "mid", "loose"}, order)
}

func TestScheduler_Next_Empty(t *testing.T) {
	s := NewBatchScheduler()
	st, ok := s.Next()
	assert.False(t, ok)
	assert.Nil(t, st)
}

func TestScheduler_Pending_SnapshotLeavesQueueIntact(t *testing.T) {
	s := NewBatchScheduler()
	s.Submit(task("b", 20, 1))
	s.Submit(task("a", 10, 1))

	pending := s.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, 2, s.Len())
}

func TestWallClock_IsMonotonicEnough(t *testing.T) {
	// Sanity check only: two stamps taken in order never go backwards.
	t1 := WallClock(nil)
	t2 := WallClock(nil)
	assert.GreaterOrEqual(t, t2, t1)
}
