package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityEntry is one domain event as recorded by the activity log.
type ActivityEntry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MessageID  string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"message_id"`
	RoutingKey string         `gorm:"type:varchar(100);not null;index" json:"routing_key"`
	Payload    datatypes.JSON `json:"payload"`
	OccurredAt time.Time      `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time      `json:"created_at"`
}
