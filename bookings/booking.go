// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bookings is the data-fetch layer: it loads booking JSON by
// file identifier and serves parsed records through the caching stack.
package bookings

import "time"

// Booking is one parsed booking record.
type Booking struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Passenger Passenger `json:"passenger"`
	Segments  []Segment `json:"segments"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Passenger identifies the lead traveller on a booking.
type Passenger struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Segment is a single leg of the itinerary.
type Segment struct {
	Carrier   string    `json:"carrier"`
	Number    string    `json:"number"`
	Origin    string    `json:"origin"`
	Dest      string    `json:"dest"`
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`
}
