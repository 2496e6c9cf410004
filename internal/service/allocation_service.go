package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/greatbrands/ticketing/internal/auth"
	"github.com/greatbrands/ticketing/internal/models"
	"github.com/greatbrands/ticketing/internal/notifier"
	"github.com/greatbrands/ticketing/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrForbidden           = errors.New("you are not authorized to perform this action")
	ErrInvalidTotalTickets = errors.New("total tickets must be a positive number")
)

// ticketPrefix is the brand prefix on every generated ticket identifier.
const ticketPrefix = "GB"

// BookOutcome reports the result of a booking attempt: either a confirmed
// booking with the updated capacity, or a waiting-list placement.
type BookOutcome struct {
	Waitlisted bool
	Booking    *models.Booking
	Event      *models.Event
	Entry      *models.WaitingListEntry
	Message    string
}

// CancelOutcome reports who, if anyone, took over the freed seat.
type CancelOutcome struct {
	PromotedUserID string
	Message        string
}

// EventStatus is an admin snapshot of an event's allocation state. Reads
// are not transactional; slightly stale counts under concurrent writes are
// acceptable.
type EventStatus struct {
	AvailableTickets int
	BookedTickets    int
	WaitingListCount int64
	Bookings         []models.Booking
}

type AllocationService interface {
	InitializeEvent(ctx context.Context, caller auth.Claims, name string, totalTickets int) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	Book(ctx context.Context, caller auth.Claims, eventID uint) (*BookOutcome, error)
	Cancel(ctx context.Context, caller auth.Claims, eventID uint) (*CancelOutcome, error)
	GetStatus(ctx context.Context, caller auth.Claims, eventID uint) (*EventStatus, error)
}

type allocationService struct {
	eventRepo   repository.EventRepository
	bookingRepo repository.BookingRepository
	waitingRepo repository.WaitingListRepository
	notify      notifier.Notifier
}

func NewAllocationService(
	eventRepo repository.EventRepository,
	bookingRepo repository.BookingRepository,
	waitingRepo repository.WaitingListRepository,
	notify notifier.Notifier,
) AllocationService {
	return &allocationService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		waitingRepo: waitingRepo,
		notify:      notify,
	}
}

// requireRole is the single capability check used by every operation entry
// point. It runs before any transaction opens, so a rejected caller never
// touches storage.
func requireRole(caller auth.Claims, role string) error {
	if caller.Role != role {
		return ErrForbidden
	}
	return nil
}

// newTicketID generates a human-readable ticket identifier: brand prefix
// plus a short random hex suffix. Collisions are negligible at this scale;
// the unique index on ticket_id turns one into a rolled-back transaction.
func newTicketID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s", ticketPrefix, suffix)
}

func (s *allocationService) InitializeEvent(ctx context.Context, caller auth.Claims, name string, totalTickets int) (*models.Event, error) {
	if err := requireRole(caller, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if totalTickets <= 0 {
		return nil, ErrInvalidTotalTickets
	}

	event := &models.Event{
		OwnerID:          caller.UserID,
		Name:             name,
		TotalTickets:     totalTickets,
		AvailableTickets: totalTickets,
		BookedTickets:    0,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *allocationService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.FindAll(ctx)
}

func (s *allocationService) Book(ctx context.Context, caller auth.Claims, eventID uint) (*BookOutcome, error) {
	if err := requireRole(caller, auth.RoleUser); err != nil {
		return nil, err
	}

	var outcome *BookOutcome

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the event row — serializes concurrent booking attempts
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		// Sold out → queue the caller, no capacity mutation
		if event.SoldOut() {
			entry := &models.WaitingListEntry{EventID: eventID, UserID: caller.UserID}
			if err := s.waitingRepo.Enqueue(ctx, tx, entry); err != nil {
				return err
			}
			outcome = &BookOutcome{
				Waitlisted: true,
				Event:      event,
				Entry:      entry,
				Message:    "No tickets available, you have been added to the waiting list",
			}
			return nil
		}

		booking := &models.Booking{
			EventID:  eventID,
			UserID:   caller.UserID,
			TicketID: newTicketID(),
			Status:   models.StatusBooked,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		event.AvailableTickets -= 1
		event.BookedTickets += 1
		if err := s.eventRepo.Save(ctx, tx, event); err != nil {
			return err
		}

		outcome = &BookOutcome{
			Booking: booking,
			Event:   event,
			Message: "Ticket booked successfully",
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("book ticket: %w", err)
	}

	if outcome.Waitlisted {
		s.notify.Notify(caller.UserID, "Waiting list",
			fmt.Sprintf("Event %d is sold out. You are in the waiting list and will be booked automatically when a seat frees up.", eventID))
	} else {
		s.notify.Notify(caller.UserID, "Ticket booked",
			fmt.Sprintf("Your ticket for event %d is confirmed. Ticket ID: %s", eventID, outcome.Booking.TicketID))
	}

	return outcome, nil
}

func (s *allocationService) Cancel(ctx context.Context, caller auth.Claims, eventID uint) (*CancelOutcome, error) {
	if err := requireRole(caller, auth.RoleUser); err != nil {
		return nil, err
	}

	var (
		outcome        *CancelOutcome
		promotedTicket string
	)

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock first, then look up the booking inside the same transaction,
		// so a concurrent cancel cannot slip between lookup and delete.
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		booking, err := s.bookingRepo.FindByEventAndUser(ctx, tx, eventID, caller.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if err := s.bookingRepo.Delete(ctx, tx, booking.ID); err != nil {
			return err
		}

		// Pop only the head of the waiting list; everyone behind it keeps
		// their place. The freed seat goes straight to the promoted user,
		// so the capacity counts do not move.
		head, err := s.waitingRepo.DequeueFront(ctx, tx, eventID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if head != nil {
			promoted := &models.Booking{
				EventID:  eventID,
				UserID:   head.UserID,
				TicketID: newTicketID(),
				Status:   models.StatusBooked,
			}
			if err := s.bookingRepo.Create(ctx, tx, promoted); err != nil {
				return err
			}
			promotedTicket = promoted.TicketID
			outcome = &CancelOutcome{
				PromotedUserID: head.UserID,
				Message:        fmt.Sprintf("Your booking was cancelled. Ticket assigned to next user in waiting list (User ID: %s).", head.UserID),
			}
			return nil
		}

		event.AvailableTickets += 1
		event.BookedTickets -= 1
		if err := s.eventRepo.Save(ctx, tx, event); err != nil {
			return err
		}
		outcome = &CancelOutcome{
			Message: "Your booking was cancelled successfully, and a ticket was made available.",
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrBookingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	s.notify.Notify(caller.UserID, "Booking cancelled", outcome.Message)
	if outcome.PromotedUserID != "" {
		s.notify.Notify(outcome.PromotedUserID, "Ticket booked",
			fmt.Sprintf("A seat for event %d freed up and your waiting-list entry was converted to a booking. Ticket ID: %s", eventID, promotedTicket))
	}

	return outcome, nil
}

func (s *allocationService) GetStatus(ctx context.Context, caller auth.Claims, eventID uint) (*EventStatus, error) {
	if err := requireRole(caller, auth.RoleAdmin); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}

	waiting, err := s.waitingRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count waiting list: %w", err)
	}

	bookings, err := s.bookingRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return &EventStatus{
		AvailableTickets: event.AvailableTickets,
		BookedTickets:    event.BookedTickets,
		WaitingListCount: waiting,
		Bookings:         bookings,
	}, nil
}
