package proposal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/senecapartners/seneca-cms-backend/internal/application"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
)

// FinishLevel is the interior finish tier offered in a proposal.
type FinishLevel string

const (
	FinishNone    FinishLevel = "none"
	FinishBasic   FinishLevel = "basic"
	FinishPremium FinishLevel = "premium"
)

var finishLabels = map[FinishLevel]string{
	FinishNone:    "Без отделки",
	FinishBasic:   "Базовая",
	FinishPremium: "Премиум",
}

func (f FinishLevel) Valid() bool {
	_, ok := finishLabels[f]
	return ok
}

func (f FinishLevel) Label() string {
	if label, ok := finishLabels[f]; ok {
		return label
	}
	return string(f)
}

// Template is a plain-text proposal body with {placeholder} markers.
// Templates are never edited after creation.
type Template struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SiteID    uint      `gorm:"index;not null" json:"site_id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (Template) TableName() string {
	return "proposal_templates"
}

// Proposal is a priced commercial offer for one floor of one block.
// PricePerM2 and TotalPrice are derived; see Pricer.
type Proposal struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	SiteID        uint                     `gorm:"index;not null" json:"site_id"`
	TemplateID    uint                     `gorm:"not null;index" json:"template_id"`
	Template      *Template                `gorm:"constraint:OnDelete:RESTRICT" json:"template,omitempty"`
	ApplicationID *uint                    `gorm:"index" json:"application_id"`
	Application   *application.Application `gorm:"constraint:OnDelete:SET NULL" json:"application,omitempty"`
	BlockID       uint                     `gorm:"not null;index" json:"block_id"`
	Block         *inventory.Block         `gorm:"constraint:OnDelete:RESTRICT" json:"block,omitempty"`
	FloorID       uint                     `gorm:"not null;index" json:"floor_id"`
	Floor         *inventory.Floor         `gorm:"constraint:OnDelete:RESTRICT" json:"floor,omitempty"`
	Area          decimal.Decimal          `gorm:"type:numeric(8,2);not null" json:"area"`
	FinishLevel   FinishLevel              `gorm:"size:50;not null" json:"finish_level"`
	PricePerM2    decimal.Decimal          `gorm:"type:numeric(10,2);not null;default:0" json:"price_per_m2"`
	TotalPrice    decimal.Decimal          `gorm:"type:numeric(12,2);not null;default:0" json:"total_price"`
	PDFFile       string                   `gorm:"column:pdf_file;size:255;not null;default:''" json:"-"`
	PDFURL        string                   `gorm:"-" json:"pdf_file"`
	CreatedAt     time.Time                `json:"created_at"`
}

func (p Proposal) String() string {
	if p.Block == nil || p.Floor == nil {
		return fmt.Sprintf("Предложение #%d", p.ID)
	}
	return fmt.Sprintf("Предложение #%d — %s, %s", p.ID, p.Block.Name, p.Floor.Level.Label())
}

type TemplateInput struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type ProposalInput struct {
	TemplateID    uint            `json:"template_id" binding:"required"`
	ApplicationID *uint           `json:"application_id"`
	BlockID       uint            `json:"block_id" binding:"required"`
	FloorID       uint            `json:"floor_id" binding:"required"`
	Area          decimal.Decimal `json:"area"`
	FinishLevel   string          `json:"finish_level" binding:"required"`
}

type ListFilter struct {
	ApplicationID *uint
	BlockID       *uint
	Limit         int
	Offset        int
}
