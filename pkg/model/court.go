package model

// CourtStatus describes one of the venue's fixed court slots. Presence
// of a booking is the sole "booked" signal; courts are never persisted.
type CourtStatus struct {
	Court   int      `json:"court"`
	Booked  bool     `json:"booked"`
	Booking *Booking `json:"booking,omitempty"`
}

// OccupancyBoard is the derived view over the current booking snapshot:
// one status per fixed court plus the flat list of active bookings for
// the monitor table.
type OccupancyBoard struct {
	Courts []CourtStatus `json:"courts"`
	Active []Booking     `json:"active"`
}

// Stats holds the three point-in-time collection counts. They are not
// live; a consumer re-fetches when it wants fresh numbers.
type Stats struct {
	Bookings int64 `json:"bookings"`
	Events   int64 `json:"events"`
	Users    int64 `json:"users"`
}
