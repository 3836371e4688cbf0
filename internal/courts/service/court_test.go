package service

import (
	"testing"

	"courtsync/internal/watch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestReduce_CancelledExcludedBeforeIndexing(t *testing.T) {
	snapshot := watch.Snapshot{
		{ID: "b1", Fields: bson.M{"courtId": 1, "status": "active", "userId": "alice"}},
		{ID: "b2", Fields: bson.M{"courtId": 1, "status": "cancelled", "userId": "bob"}},
		{ID: "b3", Fields: bson.M{"courtId": 2, "status": "active", "userId": "cara"}},
	}

	board := Reduce(snapshot, 6)

	require.Len(t, board.Courts, 6)
	assert.True(t, board.Courts[0].Booked)
	assert.True(t, board.Courts[1].Booked)
	for _, status := range board.Courts[2:] {
		assert.False(t, status.Booked)
	}

	// The cancelled booking never overwrote the active one on court 1.
	require.NotNil(t, board.Courts[0].Booking)
	assert.Equal(t, "b1", board.Courts[0].Booking.ID)
	assert.Len(t, board.Active, 2)
}

func TestReduce_LastActiveBookingWinsPerCourt(t *testing.T) {
	snapshot := watch.Snapshot{
		{ID: "b1", Fields: bson.M{"courtId": 3, "status": "active"}},
		{ID: "b2", Fields: bson.M{"courtId": 3, "status": "confirmed"}},
	}

	board := Reduce(snapshot, 6)

	require.NotNil(t, board.Courts[2].Booking)
	assert.Equal(t, "b2", board.Courts[2].Booking.ID)
	assert.Len(t, board.Active, 1)
}

func TestReduce_CourtNumberForms(t *testing.T) {
	snapshot := watch.Snapshot{
		{ID: "b1", Fields: bson.M{"courtId": "2"}},
		{ID: "b2", Fields: bson.M{"courtId": int64(4)}},
		{ID: "b3", Fields: bson.M{"courtId": 5.0}},
		{ID: "b4", Fields: bson.M{"courtId": "court five"}},
		{ID: "b5", Fields: bson.M{}},
	}

	board := Reduce(snapshot, 6)

	// String, integer, and float forms all parse; unparsable and
	// missing court ids are skipped, not zeroed.
	assert.True(t, board.Courts[1].Booked)
	assert.True(t, board.Courts[3].Booked)
	assert.True(t, board.Courts[4].Booked)
	assert.Len(t, board.Active, 3)
}

func TestReduce_OutOfRangeCourtsDiscarded(t *testing.T) {
	snapshot := watch.Snapshot{
		{ID: "b1", Fields: bson.M{"courtId": 0}},
		{ID: "b2", Fields: bson.M{"courtId": 7}},
		{ID: "b3", Fields: bson.M{"courtId": 6}},
	}

	board := Reduce(snapshot, 6)

	require.Len(t, board.Active, 1)
	assert.Equal(t, "b3", board.Active[0].ID)
}

func TestReduce_EmptySnapshot(t *testing.T) {
	board := Reduce(watch.Snapshot{}, 6)

	require.Len(t, board.Courts, 6)
	for i, status := range board.Courts {
		assert.Equal(t, i+1, status.Court)
		assert.False(t, status.Booked)
		assert.Nil(t, status.Booking)
	}
	assert.Empty(t, board.Active)
}
