package application

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

var orderings = map[string]string{
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"updated_at":  "updated_at ASC",
	"-updated_at": "updated_at DESC",
}

const defaultOrdering = "-created_at"

type Repository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, siteID, id uint) (*Application, error)
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, siteID, id uint) error
	List(ctx context.Context, siteID uint, filter ListFilter) ([]Application, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, app *Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) GetByID(ctx context.Context, siteID, id uint) (*Application, error) {
	var app Application
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) Update(ctx context.Context, app *Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *repository) Delete(ctx context.Context, siteID, id uint) error {
	res := r.db.WithContext(ctx).Where("site_id = ?", siteID).Delete(&Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List applies status, search and id filters. A zero limit returns every match.
func (r *repository) List(ctx context.Context, siteID uint, filter ListFilter) ([]Application, int64, error) {
	var apps []Application
	var total int64

	query := r.db.WithContext(ctx).
		Model(&Application{}).
		Where("site_id = ?", siteID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		term := "%" + search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", term, term)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := orderings[filter.Ordering]
	if !ok {
		order = orderings[defaultOrdering]
	}
	query = query.Order(order).Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	err := query.Find(&apps).Error
	return apps, total, err
}
