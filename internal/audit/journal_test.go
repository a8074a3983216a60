package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, j.Record(Event{Timestamp: base, Op: "create-vpc", VPC: "net1"}))
	require.NoError(t, j.Record(Event{Timestamp: base.Add(time.Minute), Op: "create-subnet", VPC: "net1", Subnet: "a"}))
	require.NoError(t, j.Record(Event{Timestamp: base.Add(2 * time.Minute), Op: "delete-vpc", VPC: "net1", Detail: "bridge not present", Status: 1}))

	events, err := j.Recent(2)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first
	assert.Equal(t, "delete-vpc", events[0].Op)
	assert.Equal(t, 1, events[0].Status)
	assert.Equal(t, "bridge not present", events[0].Detail)
	assert.Equal(t, "create-subnet", events[1].Op)
	assert.Equal(t, "a", events[1].Subnet)

	count, err := j.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestRecordFillsDefaults(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record(Event{Op: "cleanup"}))
	require.NoError(t, j.Record(Event{Op: "cleanup"}))

	events, err := j.Recent(0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.NotEmpty(t, events[0].RunID)
	assert.NotEmpty(t, events[1].RunID)
	assert.NotEqual(t, events[0].RunID, events[1].RunID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Empty(t, events[0].VPC)
}

func TestRecentEmpty(t *testing.T) {
	j := openTestJournal(t)
	events, err := j.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPrune(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record(Event{Timestamp: time.Now().AddDate(0, 0, -30), Op: "create-vpc", VPC: "old"}))
	require.NoError(t, j.Record(Event{Op: "create-vpc", VPC: "new"}))

	removed, err := j.Prune(7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	events, err := j.Recent(0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].VPC)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(Event{Op: "create-vpc", VPC: "net1"}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	count, err := j.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
