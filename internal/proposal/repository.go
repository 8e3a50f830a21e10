package proposal

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateTemplate(ctx context.Context, t *Template) error
	ListTemplates(ctx context.Context, siteID uint) ([]Template, error)
	GetTemplate(ctx context.Context, siteID, id uint) (*Template, error)
	DeleteTemplate(ctx context.Context, siteID, id uint) error

	Save(ctx context.Context, p *Proposal) error
	Get(ctx context.Context, siteID, id uint) (*Proposal, error)
	List(ctx context.Context, siteID uint, filter ListFilter) ([]Proposal, int64, error)
	UpdatePDF(ctx context.Context, siteID, id uint, key string) error
	Delete(ctx context.Context, siteID, id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// -----------------------------------------
// Templates
// -----------------------------------------

func (r *repository) CreateTemplate(ctx context.Context, t *Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) ListTemplates(ctx context.Context, siteID uint) ([]Template, error) {
	var templates []Template
	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("created_at DESC").
		Find(&templates).Error
	return templates, err
}

func (r *repository) GetTemplate(ctx context.Context, siteID, id uint) (*Template, error) {
	var t Template
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) DeleteTemplate(ctx context.Context, siteID, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), &Template{}, siteID, id)
}

// -----------------------------------------
// Proposals
// -----------------------------------------

// Save inserts or rewrites the proposal row. The attachment column is never
// written here; only UpdatePDF touches it.
func (r *repository) Save(ctx context.Context, p *Proposal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "PDFFile").Save(p).Error
}

func (r *repository) Get(ctx context.Context, siteID, id uint) (*Proposal, error) {
	var p Proposal
	err := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Application").
		Preload("Block").
		Preload("Floor.Block").
		Where("site_id = ?", siteID).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, siteID uint, filter ListFilter) ([]Proposal, int64, error) {
	var proposals []Proposal
	var total int64

	query := r.db.WithContext(ctx).Model(&Proposal{}).Where("site_id = ?", siteID)
	if filter.ApplicationID != nil {
		query = query.Where("application_id = ?", *filter.ApplicationID)
	}
	if filter.BlockID != nil {
		query = query.Where("block_id = ?", *filter.BlockID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Application").
		Preload("Block").
		Preload("Floor").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&proposals).Error
	return proposals, total, err
}

// UpdatePDF writes only the attachment column, bypassing the pricing path.
func (r *repository) UpdatePDF(ctx context.Context, siteID, id uint, key string) error {
	res := r.db.WithContext(ctx).
		Model(&Proposal{}).
		Where("id = ? AND site_id = ?", id, siteID).
		UpdateColumn("pdf_file", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, siteID, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), &Proposal{}, siteID, id)
}

func deleteScoped(db *gorm.DB, model interface{}, siteID, id uint) error {
	res := db.Where("site_id = ?", siteID).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
