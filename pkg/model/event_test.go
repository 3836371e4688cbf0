package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeEvent_RequesterChain(t *testing.T) {
	tests := []struct {
		name         string
		doc          bson.M
		wantName     string
		wantFromID   bool
	}{
		{
			name:     "requesterName wins",
			doc:      bson.M{"requesterName": "Club Captain", "userName": "ignored", "name": "ignored"},
			wantName: "Club Captain",
		},
		{
			name:     "userName is second",
			doc:      bson.M{"userName": "Mei Ling", "name": "ignored"},
			wantName: "Mei Ling",
		},
		{
			name:     "name is third",
			doc:      bson.M{"name": "Hafiz"},
			wantName: "Hafiz",
		},
		{
			name:       "userId placeholder when no name present",
			doc:        bson.M{"userId": "u1x2y3z4abcdef"},
			wantName:   "u1x2y3z4",
			wantFromID: true,
		},
		{
			name:     "unknown when nothing present",
			doc:      bson.M{},
			wantName: RequesterUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEvent("ev1", tt.doc)
			assert.Equal(t, tt.wantName, got.RequesterName)
			assert.Equal(t, tt.wantFromID, got.RequesterFromID)
		})
	}
}

func TestNormalizeEvent_StatusCaseFoldedAndDefaulted(t *testing.T) {
	assert.Equal(t, "pending", NormalizeEvent("e", bson.M{}).Status)
	assert.Equal(t, "pending", NormalizeEvent("e", bson.M{"status": "Pending"}).Status)
	assert.Equal(t, "approved", NormalizeEvent("e", bson.M{"status": "APPROVED"}).Status)
	assert.Equal(t, "declined", NormalizeEvent("e", bson.M{"status": "declined"}).Status)
}

func TestNormalizeEvent_Defaults(t *testing.T) {
	got := NormalizeEvent("e", bson.M{})
	assert.Equal(t, "Untitled Event", got.EventName)
	assert.Equal(t, "No Date Set", got.DateTime)
	assert.Equal(t, []string{}, got.Courts)
}

func TestNormalizeEvent_TitleAndDateFallbacks(t *testing.T) {
	got := NormalizeEvent("e", bson.M{"title": "Friendly Tournament", "date": "2026-04-11"})
	assert.Equal(t, "Friendly Tournament", got.EventName)
	assert.Equal(t, "2026-04-11", got.DateTime)
}

func TestNormalizeEvent_Courts(t *testing.T) {
	multi := NormalizeEvent("e", bson.M{"courts": primitive.A{"1", int32(3), "5"}})
	assert.Equal(t, []string{"1", "3", "5"}, multi.Courts)

	single := NormalizeEvent("e", bson.M{"court": int64(2)})
	assert.Equal(t, []string{"2"}, single.Courts)
}

func TestEventRequest_Pending(t *testing.T) {
	assert.True(t, NormalizeEvent("e", bson.M{"status": "PENDING"}).Pending())
	assert.False(t, NormalizeEvent("e", bson.M{"status": "approved"}).Pending())
}
