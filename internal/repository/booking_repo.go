package repository

import (
	"context"

	"github.com/greatbrands/ticketing/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByEventAndUser(ctx context.Context, tx *gorm.DB, eventID uint, userID string) (*models.Booking, error)
	FindByEventID(ctx context.Context, eventID uint) ([]models.Booking, error)
	Delete(ctx context.Context, tx *gorm.DB, bookingID uint) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

// FindByEventAndUser returns the caller's active booking for the event. The
// cancellation path runs it inside the same locked transaction that deletes
// the booking, so the row cannot vanish between lookup and delete.
func (r *bookingRepository) FindByEventAndUser(ctx context.Context, tx *gorm.DB, eventID uint, userID string) (*models.Booking, error) {
	var booking models.Booking
	err := tx.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Order("id ASC").
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, bookingID uint) error {
	return tx.WithContext(ctx).Delete(&models.Booking{}, bookingID).Error
}
