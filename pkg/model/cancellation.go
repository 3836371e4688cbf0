package model

import (
	"courtsync/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

// NoBookingRef is the sentinel a cancellation request carries when it
// does not reference a deletable booking. Accepting such a request
// marks it processed without touching the bookings collection.
const NoBookingRef = "N/A"

// CancellationRequest is the display record for one document in the
// cancellation_requests collection. The court/date/time fields are the
// denormalized snapshot captured when the request was filed.
type CancellationRequest struct {
	ID        string `json:"id"`
	BookingID string `json:"bookingId"`
	CourtName string `json:"courtName"`
	UserName  string `json:"userName"`
	Reason    string `json:"reason"`
	Processed bool   `json:"processed"`
	Time      string `json:"time"`
	Date      string `json:"date"`
}

// NormalizeCancellation applies the per-field fallback chains. Chain
// order is load-bearing: existing documents were written by several
// client versions that disagree on field names.
func NormalizeCancellation(id string, doc bson.M) CancellationRequest {
	details := subDoc(doc, "bookingDetails")

	bookingID := firstString(doc, "bookingId")
	if bookingID == "" && details != nil {
		bookingID = firstString(details, "bookingId")
	}
	if bookingID == "" {
		bookingID = NoBookingRef
	}

	courtName := ""
	if details != nil {
		courtName = firstString(details, "courtName")
		if courtName == "" {
			courtName = "Court " + stringify(details["courtId"])
		}
	} else {
		courtName = "Court "
	}

	reason := sanitizer.TrimAndNormalize(firstString(doc, "reason"))
	if reason == "" {
		reason = "No reason provided"
	}

	userName := firstString(doc, "userName", "name")
	if userName == "" {
		userName = "User"
	}

	timeField := ""
	dateField := ""
	if details != nil {
		timeField = firstString(details, "time")
		dateField = firstString(details, "date")
	}
	if timeField == "" {
		timeField = "N/A"
	}

	return CancellationRequest{
		ID:        id,
		BookingID: bookingID,
		CourtName: courtName,
		UserName:  userName,
		Reason:    reason,
		Processed: boolValue(doc["processed"]),
		Time:      timeField,
		Date:      dateField,
	}
}

// HasBookingRef reports whether accepting this request should also
// delete a booking document.
func (r CancellationRequest) HasBookingRef() bool {
	return r.BookingID != "" && r.BookingID != NoBookingRef
}
