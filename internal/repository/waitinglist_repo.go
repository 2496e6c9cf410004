package repository

import (
	"context"

	"github.com/greatbrands/ticketing/internal/models"
	"gorm.io/gorm"
)

type WaitingListRepository interface {
	Enqueue(ctx context.Context, tx *gorm.DB, entry *models.WaitingListEntry) error
	DequeueFront(ctx context.Context, tx *gorm.DB, eventID uint) (*models.WaitingListEntry, error)
	ListByEvent(ctx context.Context, eventID uint) ([]models.WaitingListEntry, error)
	ClearEvent(ctx context.Context, tx *gorm.DB, eventID uint) error
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
}

type waitingListRepository struct {
	db *gorm.DB
}

func NewWaitingListRepository(db *gorm.DB) WaitingListRepository {
	return &waitingListRepository{db: db}
}

func (r *waitingListRepository) Enqueue(ctx context.Context, tx *gorm.DB, entry *models.WaitingListEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

// DequeueFront removes and returns the earliest entry for the event.
// Returns gorm.ErrRecordNotFound when the queue is empty. Entries behind
// the head are untouched and keep their position.
func (r *waitingListRepository) DequeueFront(ctx context.Context, tx *gorm.DB, eventID uint) (*models.WaitingListEntry, error) {
	var entry models.WaitingListEntry
	err := tx.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&models.WaitingListEntry{}, entry.ID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *waitingListRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.WaitingListEntry, error) {
	var entries []models.WaitingListEntry
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *waitingListRepository) ClearEvent(ctx context.Context, tx *gorm.DB, eventID uint) error {
	return tx.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.WaitingListEntry{}).Error
}

func (r *waitingListRepository) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WaitingListEntry{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}
