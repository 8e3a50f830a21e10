package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

var (
	ErrPlanExists  = utils.NewConflictError("floor already has a plan")
	ErrFloorExists = utils.NewConflictError("floor with this level already exists in the block")
)

type Service struct {
	repo  Repository
	files filestore.Store
}

func NewService(repo Repository, files filestore.Store) *Service {
	return &Service{repo: repo, files: files}
}

// ========================= BLOCKS =============================

func (s *Service) ListBlocks(ctx context.Context, siteID uint) ([]Block, error) {
	return s.repo.ListBlocks(ctx, siteID)
}

func (s *Service) GetBlock(ctx context.Context, siteID, id uint) (*Block, error) {
	return s.repo.GetBlock(ctx, siteID, id)
}

func (s *Service) CreateBlock(ctx context.Context, siteID uint, in BlockInput) (*Block, error) {
	name, err := validateBlockName(in.Name)
	if err != nil {
		return nil, err
	}
	block := &Block{SiteID: siteID, Name: name}
	if err := s.repo.CreateBlock(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *Service) UpdateBlock(ctx context.Context, siteID, id uint, in BlockInput) (*Block, error) {
	block, err := s.repo.GetBlock(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	if block.Name, err = validateBlockName(in.Name); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBlock(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

// DeleteBlock removes the block; floors and plans go with it at the storage
// level. Drawings of the removed plans are deleted afterwards.
func (s *Service) DeleteBlock(ctx context.Context, siteID, id uint) error {
	plans, err := s.repo.ListPlans(ctx, siteID, PlanFilter{BlockID: &id})
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBlock(ctx, siteID, id); err != nil {
		return err
	}
	for _, p := range plans {
		s.removeFile(ctx, p.Drawing)
	}
	return nil
}

func validateBlockName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) != 1 {
		return "", utils.NewValidationError("block name must be a single character")
	}
	return name, nil
}

// ========================= FLOORS =============================

func (s *Service) ListFloors(ctx context.Context, siteID uint, filter FloorFilter) ([]Floor, error) {
	return s.repo.ListFloors(ctx, siteID, filter)
}

func (s *Service) GetFloor(ctx context.Context, siteID, id uint) (*Floor, error) {
	return s.repo.GetFloor(ctx, siteID, id)
}

func (s *Service) CreateFloor(ctx context.Context, siteID uint, in FloorInput) (*Floor, error) {
	floor := &Floor{SiteID: siteID}
	if err := s.applyFloorInput(ctx, siteID, floor, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateFloor(ctx, floor); err != nil {
		return nil, translateFloorErr(err)
	}
	return floor, nil
}

func (s *Service) UpdateFloor(ctx context.Context, siteID, id uint, in FloorInput) (*Floor, error) {
	floor, err := s.repo.GetFloor(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyFloorInput(ctx, siteID, floor, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFloor(ctx, floor); err != nil {
		return nil, translateFloorErr(err)
	}
	return floor, nil
}

func (s *Service) DeleteFloor(ctx context.Context, siteID, id uint) error {
	plan, err := s.PlanForFloor(ctx, siteID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFloor(ctx, siteID, id); err != nil {
		return err
	}
	if plan != nil {
		s.removeFile(ctx, plan.Drawing)
	}
	return nil
}

func (s *Service) applyFloorInput(ctx context.Context, siteID uint, floor *Floor, in FloorInput) error {
	level := Level(strings.ToLower(strings.TrimSpace(in.Level)))
	if !level.Valid() {
		return utils.NewValidationError(fmt.Sprintf("invalid level %q", in.Level))
	}
	block, err := s.repo.GetBlock(ctx, siteID, in.BlockID)
	if isNotFound(err) {
		return utils.NewValidationError("block not found")
	}
	if err != nil {
		return err
	}
	floor.BlockID = block.ID
	floor.Block = block
	floor.Level = level
	floor.Label = level.Label()
	return nil
}

func translateFloorErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrFloorExists
	}
	return err
}

// ========================= PLANS =============================

func (s *Service) ListPlans(ctx context.Context, siteID uint, filter PlanFilter) ([]Plan, error) {
	plans, err := s.repo.ListPlans(ctx, siteID, filter)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		s.decoratePlan(&plans[i])
	}
	return plans, nil
}

func (s *Service) GetPlan(ctx context.Context, siteID, id uint) (*Plan, error) {
	plan, err := s.repo.GetPlan(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	s.decoratePlan(plan)
	return plan, nil
}

// PlanForFloor returns the floor's plan, or nil when the floor has none.
func (s *Service) PlanForFloor(ctx context.Context, siteID, floorID uint) (*Plan, error) {
	plan, err := s.repo.GetPlanByFloor(ctx, siteID, floorID)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) CreatePlan(ctx context.Context, siteID uint, in PlanInput) (*Plan, error) {
	plan := &Plan{SiteID: siteID}
	if err := s.applyPlanInput(ctx, siteID, plan, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, translatePlanErr(err)
	}
	s.decoratePlan(plan)
	return plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, siteID, id uint, in PlanInput) (*Plan, error) {
	plan, err := s.repo.GetPlan(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPlanInput(ctx, siteID, plan, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, translatePlanErr(err)
	}
	s.decoratePlan(plan)
	return plan, nil
}

// SetDrawing stores a new drawing under plans/ and replaces the old one.
func (s *Service) SetDrawing(ctx context.Context, siteID, id uint, ext string, r io.Reader) (*Plan, error) {
	plan, err := s.repo.GetPlan(ctx, siteID, id)
	if err != nil {
		return nil, err
	}

	key, err := s.files.Save(ctx, filestore.PrefixPlans, ext, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store drawing: %w", err)
	}

	old := plan.Drawing
	plan.Drawing = key
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		s.removeFile(ctx, key)
		return nil, err
	}
	s.removeFile(ctx, old)
	s.decoratePlan(plan)
	return plan, nil
}

func (s *Service) DeletePlan(ctx context.Context, siteID, id uint) error {
	plan, err := s.repo.GetPlan(ctx, siteID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePlan(ctx, siteID, id); err != nil {
		return err
	}
	s.removeFile(ctx, plan.Drawing)
	return nil
}

func (s *Service) applyPlanInput(ctx context.Context, siteID uint, plan *Plan, in PlanInput) error {
	if in.PricePerM2.IsNegative() {
		return utils.NewValidationError("price_per_m2 must not be negative")
	}
	if utf8.RuneCountInString(in.Description) > 255 {
		return utils.NewValidationError("description must be at most 255 characters")
	}

	floor, err := s.repo.GetFloor(ctx, siteID, in.FloorID)
	if isNotFound(err) {
		return utils.NewValidationError("floor not found")
	}
	if err != nil {
		return err
	}

	if floor.ID != plan.FloorID {
		existing, err := s.PlanForFloor(ctx, siteID, floor.ID)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != plan.ID {
			return ErrPlanExists
		}
	}

	plan.FloorID = floor.ID
	plan.Floor = floor
	plan.Description = in.Description
	plan.PricePerM2 = in.PricePerM2.Round(2)
	return nil
}

func translatePlanErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPlanExists
	}
	return err
}

func (s *Service) decoratePlan(p *Plan) {
	p.DrawingURL = s.files.URL(p.Drawing)
}

func (s *Service) removeFile(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, filestore.ErrNotFound) {
		log.Printf("⚠️ failed to remove %s: %v", key, err)
	}
}
