package model

import (
	"courtsync/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	StatusCancelled = "cancelled"

	// Length of the shortened player reference shown on court cards.
	PlayerRefLen = 8
)

// Booking is the display record derived from one raw document in the
// bookings collection.
type Booking struct {
	ID        string `json:"id"`
	Court     int    `json:"court"`
	UserID    string `json:"userId,omitempty"`
	PlayerRef string `json:"playerRef,omitempty"`
	StartTime string `json:"startTime"`
	Duration  string `json:"duration,omitempty"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

// NormalizeBooking reshapes a raw booking document. It reports ok=false
// when the court number cannot be parsed as an integer; such records
// are skipped by the occupancy reduction, never fatal to the snapshot.
func NormalizeBooking(id string, doc bson.M) (Booking, bool) {
	court, ok := intValue(doc["courtId"])
	if !ok {
		return Booking{}, false
	}

	userID := firstString(doc, "userId")
	return Booking{
		ID:        id,
		Court:     court,
		UserID:    userID,
		PlayerRef: sanitizer.Truncate(userID, PlayerRefLen),
		StartTime: firstString(doc, "startTime"),
		Duration:  stringify(doc["duration"]),
		Date:      firstString(doc, "date"),
		Status:    sanitizer.NormalizeStatus(firstString(doc, "status")),
	}, true
}

// Cancelled bookings are excluded from every occupancy view.
func (b Booking) Cancelled() bool {
	return b.Status == StatusCancelled
}
