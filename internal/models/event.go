package models

import "time"

// Event holds the capacity record for a bookable event. The allocation
// service keeps AvailableTickets + BookedTickets == TotalTickets at all
// times; both counts stay non-negative.
type Event struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OwnerID          string    `gorm:"not null" json:"owner_id"`
	Name             string    `gorm:"not null" json:"name"`
	TotalTickets     int       `gorm:"not null" json:"total_tickets"`
	AvailableTickets int       `gorm:"not null" json:"available_tickets"`
	BookedTickets    int       `gorm:"not null" json:"booked_tickets"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SoldOut reports whether no seats remain.
func (e *Event) SoldOut() bool {
	return e.AvailableTickets <= 0
}
