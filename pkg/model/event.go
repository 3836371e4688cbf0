package model

import (
	"courtsync/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusDeclined = "declined"

	RequesterUnknown = "Unknown"
)

// EventRequest is the display record for one document in the
// event_bookings collection.
type EventRequest struct {
	ID            string   `json:"id"`
	RequesterName string   `json:"requesterName"`
	UserID        string   `json:"userId,omitempty"`
	EventName     string   `json:"eventName"`
	Purpose       string   `json:"purpose,omitempty"`
	DateTime      string   `json:"dateTime"`
	Attendance    string   `json:"attendance,omitempty"`
	Courts        []string `json:"courts"`
	Status        string   `json:"status"`

	// RequesterFromID marks a requester name that is currently the
	// 8-char id placeholder and should be overwritten by a users
	// lookup when one succeeds.
	RequesterFromID bool `json:"-"`
}

// NormalizeEvent reshapes a raw event-booking document. The requester
// chain is: requesterName, userName, name, then the first 8 characters
// of userId as a placeholder pending a users-collection lookup, then
// "Unknown". Status is lowercased and defaults to pending.
func NormalizeEvent(id string, doc bson.M) EventRequest {
	req := EventRequest{
		ID:         id,
		UserID:     firstString(doc, "userId"),
		EventName:  firstString(doc, "eventName", "title"),
		Purpose:    sanitizer.TrimAndNormalize(firstString(doc, "purpose")),
		DateTime:   firstString(doc, "dateTime", "date"),
		Attendance: stringify(doc["attendance"]),
		Courts:     eventCourts(doc),
		Status:     sanitizer.NormalizeStatus(firstString(doc, "status")),
	}

	req.RequesterName = firstString(doc, "requesterName", "userName", "name")
	if req.RequesterName == "" {
		if req.UserID != "" {
			req.RequesterName = sanitizer.Truncate(req.UserID, PlayerRefLen)
			req.RequesterFromID = true
		} else {
			req.RequesterName = RequesterUnknown
		}
	}

	if req.EventName == "" {
		req.EventName = "Untitled Event"
	}
	if req.DateTime == "" {
		req.DateTime = "No Date Set"
	}
	if req.Status == "" {
		req.Status = EventStatusPending
	}

	return req
}

func eventCourts(doc bson.M) []string {
	if courts, ok := stringSlice(doc["courts"]); ok {
		return courts
	}
	if single := stringify(doc["court"]); single != "" {
		return []string{single}
	}
	return []string{}
}

func (e EventRequest) Pending() bool {
	return e.Status == EventStatusPending
}
