package reports

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/internal/application"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
	"github.com/senecapartners/seneca-cms-backend/internal/media"
)

// ReportRepository holds the read-only queries behind the diagnostics pages.
type ReportRepository interface {
	FloorsMissingPlan(ctx context.Context, siteID uint) ([]inventory.Floor, error)
	BlocksWithoutFloors(ctx context.Context, siteID uint) ([]inventory.Block, error)
	LinkSources(ctx context.Context, siteID uint) ([]LinkSource, error)
	FunnelStats(ctx context.Context, siteID uint, r DateRange) (FunnelStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ReportRepository {
	return &repository{db: db}
}

// ======================
// Inventory integrity
// ======================

func (r *repository) FloorsMissingPlan(ctx context.Context, siteID uint) ([]inventory.Floor, error) {
	var floors []inventory.Floor
	err := r.db.WithContext(ctx).
		Preload("Block").
		Joins("LEFT JOIN plans ON plans.floor_id = floors.id").
		Where("floors.site_id = ? AND plans.id IS NULL", siteID).
		Order("floors.block_id, floors.level").
		Find(&floors).Error
	return floors, err
}

func (r *repository) BlocksWithoutFloors(ctx context.Context, siteID uint) ([]inventory.Block, error) {
	var blocks []inventory.Block
	err := r.db.WithContext(ctx).
		Where("blocks.site_id = ?", siteID).
		Where("NOT EXISTS (SELECT 1 FROM floors WHERE floors.block_id = blocks.id)").
		Order("blocks.name").
		Find(&blocks).Error
	return blocks, err
}

// ======================
// Link sources
// ======================

// LinkSources returns video links, video descriptions and plan descriptions.
func (r *repository) LinkSources(ctx context.Context, siteID uint) ([]LinkSource, error) {
	var videos []media.Video
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).Order("id").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to load videos: %w", err)
	}

	var plans []inventory.Plan
	err := r.db.WithContext(ctx).
		Select("id", "description").
		Where("site_id = ? AND description <> ''", siteID).
		Order("id").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	sources := make([]LinkSource, 0, 2*len(videos)+len(plans))
	for _, v := range videos {
		label := fmt.Sprintf("video #%d", v.ID)
		sources = append(sources, LinkSource{Source: label, Text: v.YoutubeLink})
		if v.Description != "" {
			sources = append(sources, LinkSource{Source: label + " description", Text: v.Description})
		}
	}
	for _, p := range plans {
		sources = append(sources, LinkSource{Source: fmt.Sprintf("plan #%d description", p.ID), Text: p.Description})
	}
	return sources, nil
}

// ======================
// Lead funnel
// ======================

func (r *repository) FunnelStats(ctx context.Context, siteID uint, dr DateRange) (FunnelStats, error) {
	var stats FunnelStats

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&application.Application{}).Where("site_id = ?", siteID)
		if dr.Start != nil {
			q = q.Where("created_at >= ?", *dr.Start)
		}
		if end := dr.EndExclusive(); end != nil {
			q = q.Where("created_at < ?", *end)
		}
		return q
	}

	if err := scoped().Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := scoped().Where("status = ?", application.StatusClosed).Count(&stats.Closed).Error; err != nil {
		return stats, err
	}

	var avg sql.NullFloat64
	row := scoped().
		Where("status = ?", application.StatusClosed).
		Select("AVG(EXTRACT(EPOCH FROM (updated_at - created_at)))").
		Row()
	if err := row.Scan(&avg); err != nil {
		return stats, err
	}
	if avg.Valid {
		stats.AvgSecs = &avg.Float64
	}
	return stats, nil
}
