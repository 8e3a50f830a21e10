package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	ListBlocks(ctx context.Context, siteID uint) ([]Block, error)
	GetBlock(ctx context.Context, siteID, id uint) (*Block, error)
	CreateBlock(ctx context.Context, block *Block) error
	UpdateBlock(ctx context.Context, block *Block) error
	DeleteBlock(ctx context.Context, siteID, id uint) error

	ListFloors(ctx context.Context, siteID uint, filter FloorFilter) ([]Floor, error)
	GetFloor(ctx context.Context, siteID, id uint) (*Floor, error)
	CreateFloor(ctx context.Context, floor *Floor) error
	UpdateFloor(ctx context.Context, floor *Floor) error
	DeleteFloor(ctx context.Context, siteID, id uint) error

	ListPlans(ctx context.Context, siteID uint, filter PlanFilter) ([]Plan, error)
	GetPlan(ctx context.Context, siteID, id uint) (*Plan, error)
	GetPlanByFloor(ctx context.Context, siteID, floorID uint) (*Plan, error)
	CreatePlan(ctx context.Context, plan *Plan) error
	UpdatePlan(ctx context.Context, plan *Plan) error
	DeletePlan(ctx context.Context, siteID, id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// -----------------------------------------
// Blocks
// -----------------------------------------

func (r *repository) ListBlocks(ctx context.Context, siteID uint) ([]Block, error) {
	var blocks []Block
	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("name").
		Find(&blocks).Error
	return blocks, err
}

func (r *repository) GetBlock(ctx context.Context, siteID, id uint) (*Block, error) {
	var block Block
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&block, id).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *repository) CreateBlock(ctx context.Context, block *Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *repository) UpdateBlock(ctx context.Context, block *Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *repository) DeleteBlock(ctx context.Context, siteID, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), &Block{}, siteID, id)
}

// -----------------------------------------
// Floors
// -----------------------------------------

func (r *repository) ListFloors(ctx context.Context, siteID uint, filter FloorFilter) ([]Floor, error) {
	var floors []Floor
	query := r.db.WithContext(ctx).
		Preload("Block").
		Joins("JOIN blocks ON blocks.id = floors.block_id").
		Where("floors.site_id = ?", siteID)

	if filter.BlockID != nil {
		query = query.Where("floors.block_id = ?", *filter.BlockID)
	}
	if filter.Level != "" {
		query = query.Where("floors.level = ?", filter.Level)
	}

	err := query.Order("blocks.name, floors.level").Find(&floors).Error
	return floors, err
}

func (r *repository) GetFloor(ctx context.Context, siteID, id uint) (*Floor, error) {
	var floor Floor
	err := r.db.WithContext(ctx).
		Preload("Block").
		Where("site_id = ?", siteID).
		First(&floor, id).Error
	if err != nil {
		return nil, err
	}
	return &floor, nil
}

func (r *repository) CreateFloor(ctx context.Context, floor *Floor) error {
	return r.db.WithContext(ctx).Omit("Block").Create(floor).Error
}

func (r *repository) UpdateFloor(ctx context.Context, floor *Floor) error {
	return r.db.WithContext(ctx).Omit("Block").Save(floor).Error
}

func (r *repository) DeleteFloor(ctx context.Context, siteID, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), &Floor{}, siteID, id)
}

// -----------------------------------------
// Plans
// -----------------------------------------

func (r *repository) ListPlans(ctx context.Context, siteID uint, filter PlanFilter) ([]Plan, error) {
	var plans []Plan
	query := r.db.WithContext(ctx).
		Preload("Floor.Block").
		Joins("JOIN floors ON floors.id = plans.floor_id").
		Joins("JOIN blocks ON blocks.id = floors.block_id").
		Where("plans.site_id = ?", siteID)

	if filter.BlockID != nil {
		query = query.Where("floors.block_id = ?", *filter.BlockID)
	}
	if filter.Level != "" {
		query = query.Where("floors.level = ?", filter.Level)
	}
	if filter.Search != "" {
		query = query.Where("plans.description ILIKE ?", "%"+filter.Search+"%")
	}

	err := query.Order("blocks.name, floors.level").Find(&plans).Error
	return plans, err
}

func (r *repository) GetPlan(ctx context.Context, siteID, id uint) (*Plan, error) {
	var plan Plan
	err := r.db.WithContext(ctx).
		Preload("Floor.Block").
		Where("site_id = ?", siteID).
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) GetPlanByFloor(ctx context.Context, siteID, floorID uint) (*Plan, error) {
	var plan Plan
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND floor_id = ?", siteID, floorID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) CreatePlan(ctx context.Context, plan *Plan) error {
	return r.db.WithContext(ctx).Omit("Floor").Create(plan).Error
}

func (r *repository) UpdatePlan(ctx context.Context, plan *Plan) error {
	return r.db.WithContext(ctx).Omit("Floor").Save(plan).Error
}

func (r *repository) DeletePlan(ctx context.Context, siteID, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), &Plan{}, siteID, id)
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

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
