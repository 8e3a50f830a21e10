package site

import "time"

// Site is the coarse scope every inventory, media and lead record is tagged with.
type Site struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Domain    string    `gorm:"size:100;uniqueIndex;not null" json:"domain"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Site) TableName() string {
	return "sites"
}
