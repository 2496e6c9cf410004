package models

import "time"

// WaitingListEntry queues a user for a sold-out event. The autoincrement
// primary key doubles as the FIFO sequence: reading entries ordered by id
// yields insertion order.
type WaitingListEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	UserID    string    `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (WaitingListEntry) TableName() string {
	return "waiting_list"
}
