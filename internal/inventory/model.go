package inventory

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Level is the position of a Floor within its Block.
type Level string

const (
	Level1       Level = "1"
	Level2       Level = "2"
	Level3       Level = "3"
	LevelMansard Level = "mansard"
)

var levelLabels = map[Level]string{
	Level1:       "1 этаж",
	Level2:       "2 этаж",
	Level3:       "3 этаж",
	LevelMansard: "Мансарда",
}

// Levels in display order.
var Levels = []Level{Level1, Level2, Level3, LevelMansard}

func (l Level) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

func (l Level) Label() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return string(l)
}

// Block is a building wing identified by a single letter.
type Block struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	SiteID uint   `gorm:"index;not null" json:"site_id"`
	Name   string `gorm:"size:1;not null" json:"name"`
}

func (b Block) String() string {
	return b.Name
}

type Floor struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	SiteID  uint   `gorm:"index;not null" json:"site_id"`
	BlockID uint   `gorm:"not null;uniqueIndex:idx_floor_block_level" json:"block_id"`
	Level   Level  `gorm:"size:10;not null;uniqueIndex:idx_floor_block_level" json:"level"`
	Label   string `gorm:"-" json:"level_label"`
	Block   *Block `gorm:"constraint:OnDelete:CASCADE" json:"block,omitempty"`
}

func (f *Floor) AfterFind(tx *gorm.DB) error {
	f.Label = f.Level.Label()
	return nil
}

func (f Floor) String() string {
	if f.Block == nil {
		return f.Level.Label()
	}
	return f.Block.Name + " - " + f.Level.Label()
}

// Plan is the priced unit layout of exactly one Floor.
type Plan struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SiteID      uint            `gorm:"index;not null" json:"site_id"`
	FloorID     uint            `gorm:"not null;uniqueIndex" json:"floor_id"`
	Floor       *Floor          `gorm:"constraint:OnDelete:CASCADE" json:"floor,omitempty"`
	Drawing     string          `gorm:"size:255" json:"-"`
	DrawingURL  string          `gorm:"-" json:"drawing"`
	Description string          `gorm:"size:255" json:"description"`
	PricePerM2  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price_per_m2"`
}

type BlockInput struct {
	Name string `json:"name" binding:"required"`
}

type FloorInput struct {
	BlockID uint   `json:"block_id" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

type PlanInput struct {
	FloorID     uint            `json:"floor_id" binding:"required"`
	Description string          `json:"description"`
	PricePerM2  decimal.Decimal `json:"price_per_m2"`
}

type FloorFilter struct {
	BlockID *uint
	Level   string
}

type PlanFilter struct {
	BlockID *uint
	Level   string
	Search  string
}
