package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrainShowsOnce(t *testing.T) {
	c := NewCenter(nil)
	c.Success("s1", "Connection created")
	c.Error("s2", "other session")

	got := c.Drain("s1")
	require.Len(t, got, 1)
	require.Equal(t, LevelSuccess, got[0].Level)
	require.Equal(t, "Connection created", got[0].Message)
	require.Empty(t, c.Drain("s1"))
	require.Len(t, c.Pending("s2"), 1)
}

func TestReplaceInPlace(t *testing.T) {
	c := NewCenter(nil)
	id := c.Loading("s1", "Retrying delivery...")
	c.Info("s1", "unrelated")

	c.Replace("s1", id, LevelError, "Retry failed: timeout")

	got := c.Drain("s1")
	require.Len(t, got, 2)
	require.Equal(t, id, got[0].ID)
	require.Equal(t, LevelError, got[0].Level)
	require.Equal(t, "Retry failed: timeout", got[0].Message)
}

func TestReplaceAfterDrainQueues(t *testing.T) {
	c := NewCenter(nil)
	id := c.Loading("s1", "working")
	c.Drain("s1")

	c.Replace("s1", id, LevelSuccess, "done")
	got := c.Drain("s1")
	require.Len(t, got, 1)
	require.Equal(t, "done", got[0].Message)
}

func TestQueueIsBounded(t *testing.T) {
	c := NewCenter(nil)
	for i := 0; i < maxQueued+5; i++ {
		c.Info("s1", fmt.Sprintf("n%d", i))
	}
	got := c.Pending("s1")
	require.Len(t, got, maxQueued)
	require.Equal(t, "n5", got[0].Message)

	c.Drop("s1")
	require.Empty(t, c.Pending("s1"))
}
