package media

import "time"

type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SiteID    uint      `gorm:"index;not null" json:"site_id"`
	Image     string    `gorm:"size:255;not null" json:"-"`
	ImageURL  string    `gorm:"-" json:"image"`
	Caption   string    `gorm:"size:255" json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Photo) String() string {
	if p.Caption == "" {
		return "Фото без подписи"
	}
	return p.Caption
}

type Video struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SiteID      uint   `gorm:"index;not null" json:"site_id"`
	YoutubeLink string `gorm:"size:500;not null" json:"youtube_link"`
	Description string `gorm:"type:text" json:"description"`
	Year        string `gorm:"size:4;not null;index" json:"year"`
	Month       string `gorm:"size:20;not null" json:"month"`
}

func (v Video) String() string {
	return v.YoutubeLink
}

type VideoInput struct {
	YoutubeLink string `json:"youtube_link" binding:"required"`
	Description string `json:"description"`
	Year        string `json:"year" binding:"required"`
	Month       string `json:"month" binding:"required"`
}

type VideoFilter struct {
	Year   string
	Month  string
	Search string
}
