package site

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Site, error)
	GetByDomain(ctx context.Context, domain string) (*Site, error)
	FirstOrCreate(ctx context.Context, domain, name string) (*Site, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Site, error) {
	var s Site
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetByDomain(ctx context.Context, domain string) (*Site, error) {
	var s Site
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FirstOrCreate(ctx context.Context, domain, name string) (*Site, error) {
	s := Site{Domain: domain, Name: name}
	if err := r.db.WithContext(ctx).Where(Site{Domain: domain}).FirstOrCreate(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
