package dto

import (
	"time"

	"github.com/greatbrands/ticketing/internal/models"
	"github.com/greatbrands/ticketing/internal/service"
)

type EventResponse struct {
	ID               uint      `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Name             string    `json:"name"`
	TotalTickets     int       `json:"total_tickets"`
	AvailableTickets int       `json:"available_tickets"`
	BookedTickets    int       `json:"booked_tickets"`
	CreatedAt        time.Time `json:"created_at"`
}

type BookingResponse struct {
	ID        uint                 `json:"id"`
	EventID   uint                 `json:"event_id"`
	UserID    string               `json:"user_id"`
	TicketID  string               `json:"ticket_id"`
	Status    models.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

type WaitingListEntryResponse struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookResponse covers both outcomes of a booking attempt.
type BookResponse struct {
	Message     string                    `json:"message"`
	Booking     *BookingResponse          `json:"booking,omitempty"`
	Event       *EventResponse            `json:"event,omitempty"`
	WaitingList *WaitingListEntryResponse `json:"waiting_list,omitempty"`
}

type CancelResponse struct {
	Message string `json:"message"`
}

type EventStatusResponse struct {
	AvailableTickets int               `json:"available_tickets"`
	BookedTickets    int               `json:"booked_tickets"`
	WaitingListCount int64             `json:"waiting_list_count"`
	Bookings         []BookingResponse `json:"bookings"`
}

type InitializeEventResponse struct {
	Message string        `json:"message"`
	Event   EventResponse `json:"event"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:               e.ID,
		OwnerID:          e.OwnerID,
		Name:             e.Name,
		TotalTickets:     e.TotalTickets,
		AvailableTickets: e.AvailableTickets,
		BookedTickets:    e.BookedTickets,
		CreatedAt:        e.CreatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		EventID:   b.EventID,
		UserID:    b.UserID,
		TicketID:  b.TicketID,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

func ToBookResponse(o *service.BookOutcome) BookResponse {
	resp := BookResponse{Message: o.Message}
	if o.Booking != nil {
		b := ToBookingResponse(o.Booking)
		resp.Booking = &b
	}
	if o.Event != nil && !o.Waitlisted {
		e := ToEventResponse(o.Event)
		resp.Event = &e
	}
	if o.Entry != nil {
		resp.WaitingList = &WaitingListEntryResponse{
			ID:        o.Entry.ID,
			EventID:   o.Entry.EventID,
			UserID:    o.Entry.UserID,
			CreatedAt: o.Entry.CreatedAt,
		}
	}
	return resp
}

func ToEventStatusResponse(s *service.EventStatus) EventStatusResponse {
	bookings := make([]BookingResponse, len(s.Bookings))
	for i, b := range s.Bookings {
		bookings[i] = ToBookingResponse(&b)
	}
	return EventStatusResponse{
		AvailableTickets: s.AvailableTickets,
		BookedTickets:    s.BookedTickets,
		WaitingListCount: s.WaitingListCount,
		Bookings:         bookings,
	}
}
