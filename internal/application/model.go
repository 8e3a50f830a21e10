package application

import (
	"time"
)

// Status of a lead. Any status may follow any other.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

var statusLabels = map[Status]string{
	StatusNew:        "Новая",
	StatusInProgress: "В работе",
	StatusClosed:     "Закрыта",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Application is an inbound customer lead.
type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SiteID    uint      `gorm:"index;not null" json:"site_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:20;not null" json:"phone"`
	Status    Status    `gorm:"size:20;not null;default:'new';index" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Application) String() string {
	return a.Name + " — " + a.Phone
}

// CreateInput is what the public site submits.
type CreateInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Comment string `json:"comment"`
}

// UpdateInput is a partial update from the admin surface.
type UpdateInput struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Status  *string `json:"status,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

type ListFilter struct {
	Status   Status
	Search   string
	Ordering string
	IDs      []uint
	Limit    int
	Offset   int
}

type PaginatedApplications struct {
	Data   []Application `json:"data"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
