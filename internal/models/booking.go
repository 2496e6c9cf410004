package models

import "time"

type BookingStatus string

const StatusBooked BookingStatus = "booked"

// Booking is one active seat held by a user for an event. TicketID is the
// human-readable identifier handed to the user, distinct from the row ID.
type Booking struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	EventID   uint          `gorm:"not null;index:idx_booking_event_user,priority:1" json:"event_id"`
	UserID    string        `gorm:"not null;index:idx_booking_event_user,priority:2" json:"user_id"`
	TicketID  string        `gorm:"uniqueIndex;not null" json:"ticket_id"`
	Status    BookingStatus `gorm:"type:varchar(20);not null;default:'booked'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
