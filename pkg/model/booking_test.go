package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeBooking(t *testing.T) {
	doc := bson.M{
		"courtId":   "3",
		"userId":    "uid_abcdefgh_tail",
		"startTime": "19:00",
		"duration":  int32(2),
		"date":      "2026-05-20",
		"status":    "Active",
	}

	got, ok := NormalizeBooking("bk1", doc)
	assert.True(t, ok)
	assert.Equal(t, Booking{
		ID:        "bk1",
		Court:     3,
		UserID:    "uid_abcdefgh_tail",
		PlayerRef: "uid_abcd",
		StartTime: "19:00",
		Duration:  "2",
		Date:      "2026-05-20",
		Status:    "active",
	}, got)
}

func TestNormalizeBooking_CourtNumberForms(t *testing.T) {
	tests := []struct {
		name    string
		courtID any
		want    int
		wantOK  bool
	}{
		{"string form", "4", 4, true},
		{"int32 form", int32(6), 6, true},
		{"int64 form", int64(1), 1, true},
		{"float form", float64(2), 2, true},
		{"unparsable string", "court four", 0, false},
		{"missing", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{}
			if tt.courtID != nil {
				doc["courtId"] = tt.courtID
			}
			got, ok := NormalizeBooking("bk", doc)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got.Court)
			}
		})
	}
}

func TestBooking_Cancelled(t *testing.T) {
	cancelled, ok := NormalizeBooking("bk", bson.M{"courtId": 1, "status": "Cancelled"})
	assert.True(t, ok)
	assert.True(t, cancelled.Cancelled())

	active, ok := NormalizeBooking("bk", bson.M{"courtId": 1, "status": "active"})
	assert.True(t, ok)
	assert.False(t, active.Cancelled())

	noStatus, ok := NormalizeBooking("bk", bson.M{"courtId": 1})
	assert.True(t, ok)
	assert.False(t, noStatus.Cancelled())
}

func TestNormalizeUser_Defaults(t *testing.T) {
	got := NormalizeUser("u1", bson.M{})
	assert.Equal(t, "N/A", got.Name)
	assert.Equal(t, "N/A", got.Email)

	full := NormalizeUser("u2", bson.M{"name": "Sofia", "email": "sofia@example.com", "role": "member", "joinDate": "2025-11-02"})
	assert.Equal(t, User{ID: "u2", Name: "Sofia", Email: "sofia@example.com", Role: "member", JoinDate: "2025-11-02"}, full)
}
