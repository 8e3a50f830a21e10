package notification

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"

	EventLeadCreated = "lead.created"
)

// NotificationLog records every delivery attempt of every channel.
type NotificationLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SiteID        uint           `gorm:"not null;index" json:"site_id"`
	ApplicationID *uint          `gorm:"index" json:"application_id,omitempty"`
	Channel       string         `gorm:"size:20;not null" json:"channel"`
	Subject       string         `gorm:"size:255" json:"subject,omitempty"`
	Body          string         `gorm:"type:text;not null" json:"body"`
	Recipients    datatypes.JSON `gorm:"type:jsonb" json:"recipients"`
	Status        string         `gorm:"size:20;not null" json:"status"`
	Error         *string        `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// LeadEvent is the payload published for a newly created lead.
type LeadEvent struct {
	Event         string    `json:"event"`
	ApplicationID uint      `json:"application_id"`
	SiteID        uint      `json:"site_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
}

// Message is handed to each channel; channels pick the parts they need.
type Message struct {
	Subject string
	Body    string
	Lead    LeadEvent
}
