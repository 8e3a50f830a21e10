package proposal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/internal/application"
	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

var (
	ErrFloorBlockMismatch = utils.NewValidationError("floor does not belong to the selected block")
	ErrNoDocument         = errors.New("proposal has no generated document")
)

// Inventory is the slice of the inventory service proposals depend on.
type Inventory interface {
	PlanLookup
	GetBlock(ctx context.Context, siteID, id uint) (*inventory.Block, error)
	GetFloor(ctx context.Context, siteID, id uint) (*inventory.Floor, error)
}

// Leads resolves the optional linked application.
type Leads interface {
	Get(ctx context.Context, siteID, id uint) (*application.Application, error)
}

// Renderer turns a fully loaded proposal into a PDF byte stream.
type Renderer interface {
	Render(p *Proposal) ([]byte, error)
}

type Service struct {
	repo     Repository
	pricer   *Pricer
	inv      Inventory
	leads    Leads
	renderer Renderer
	files    filestore.Store
	currency string
	now      func() time.Time
}

func NewService(repo Repository, inv Inventory, leads Leads, renderer Renderer, files filestore.Store, currency string) *Service {
	return &Service{
		repo:     repo,
		pricer:   NewPricer(inv),
		inv:      inv,
		leads:    leads,
		renderer: renderer,
		files:    files,
		currency: currency,
		now:      time.Now,
	}
}

// ========================= TEMPLATES =============================

func (s *Service) CreateTemplate(ctx context.Context, siteID uint, in TemplateInput) (*Template, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.NewValidationError("name is required")
	}
	if len([]rune(name)) > 200 {
		return nil, utils.NewValidationError("name must be at most 200 characters")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, utils.NewValidationError("content is required")
	}
	t := &Template{SiteID: siteID, Name: name, Content: in.Content}
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListTemplates(ctx context.Context, siteID uint) ([]Template, error) {
	return s.repo.ListTemplates(ctx, siteID)
}

func (s *Service) GetTemplate(ctx context.Context, siteID, id uint) (*Template, error) {
	return s.repo.GetTemplate(ctx, siteID, id)
}

func (s *Service) DeleteTemplate(ctx context.Context, siteID, id uint) error {
	return s.repo.DeleteTemplate(ctx, siteID, id)
}

// ========================= PROPOSALS =============================

func (s *Service) List(ctx context.Context, siteID uint, filter ListFilter) ([]Proposal, int64, error) {
	proposals, total, err := s.repo.List(ctx, siteID, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range proposals {
		s.decorate(&proposals[i])
	}
	return proposals, total, nil
}

func (s *Service) Get(ctx context.Context, siteID, id uint) (*Proposal, error) {
	p, err := s.repo.Get(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	s.decorate(p)
	return p, nil
}

func (s *Service) Create(ctx context.Context, siteID uint, in ProposalInput) (*Proposal, error) {
	p := &Proposal{SiteID: siteID}
	return s.persist(ctx, p, in)
}

func (s *Service) Update(ctx context.Context, siteID, id uint, in ProposalInput) (*Proposal, error) {
	p, err := s.repo.Get(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, p, in)
}

// persist validates the input, reprices and saves. Every write goes
// through here so derived prices never go stale.
func (s *Service) persist(ctx context.Context, p *Proposal, in ProposalInput) (*Proposal, error) {
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.pricer.Price(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, p.SiteID, p.ID)
}

func (s *Service) apply(ctx context.Context, p *Proposal, in ProposalInput) error {
	area := in.Area.Round(2)
	if !area.IsPositive() {
		return utils.NewValidationError("area must be greater than zero")
	}
	finish := FinishLevel(strings.ToLower(strings.TrimSpace(in.FinishLevel)))
	if !finish.Valid() {
		return utils.NewValidationError(fmt.Sprintf("invalid finish_level %q", in.FinishLevel))
	}

	if _, err := s.repo.GetTemplate(ctx, p.SiteID, in.TemplateID); err != nil {
		return missingAs(err, "template not found")
	}
	block, err := s.inv.GetBlock(ctx, p.SiteID, in.BlockID)
	if err != nil {
		return missingAs(err, "block not found")
	}
	floor, err := s.inv.GetFloor(ctx, p.SiteID, in.FloorID)
	if err != nil {
		return missingAs(err, "floor not found")
	}
	if floor.BlockID != block.ID {
		return ErrFloorBlockMismatch
	}
	if in.ApplicationID != nil {
		if _, err := s.leads.Get(ctx, p.SiteID, *in.ApplicationID); err != nil {
			return missingAs(err, "application not found")
		}
	}

	p.TemplateID = in.TemplateID
	p.BlockID = block.ID
	p.FloorID = floor.ID
	p.ApplicationID = in.ApplicationID
	p.Area = area
	p.FinishLevel = finish
	return nil
}

func (s *Service) Delete(ctx context.Context, siteID, id uint) error {
	p, err := s.repo.Get(ctx, siteID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, siteID, id); err != nil {
		return err
	}
	s.removeFile(ctx, p.PDFFile)
	return nil
}

// Generate renders the document, stores it and points the proposal at it.
// The previous file is removed only once the new reference is saved; on any
// failure the existing attachment stays as it was.
func (s *Service) Generate(ctx context.Context, siteID, id uint) (*Proposal, error) {
	p, err := s.repo.Get(ctx, siteID, id)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(p)
	if err != nil {
		return nil, err
	}

	key, err := s.files.Save(ctx, filestore.PrefixProposals, ".pdf", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store proposal document: %w", err)
	}

	if err := s.repo.UpdatePDF(ctx, siteID, id, key); err != nil {
		s.removeFile(ctx, key)
		return nil, err
	}

	old := p.PDFFile
	p.PDFFile = key
	if old != "" && old != key {
		s.removeFile(ctx, old)
	}
	s.decorate(p)
	return p, nil
}

// Download opens the current attachment.
func (s *Service) Download(ctx context.Context, siteID, id uint) (io.ReadCloser, *Proposal, error) {
	p, err := s.repo.Get(ctx, siteID, id)
	if err != nil {
		return nil, nil, err
	}
	if p.PDFFile == "" {
		return nil, nil, ErrNoDocument
	}
	rc, err := s.files.Open(ctx, p.PDFFile)
	if errors.Is(err, filestore.ErrNotFound) {
		return nil, nil, ErrNoDocument
	}
	if err != nil {
		return nil, nil, err
	}
	return rc, p, nil
}

// Preview renders the proposal's template body with its current values.
func (s *Service) Preview(ctx context.Context, siteID, id uint) (string, error) {
	p, err := s.repo.Get(ctx, siteID, id)
	if err != nil {
		return "", err
	}
	if p.Template == nil {
		t, err := s.repo.GetTemplate(ctx, siteID, p.TemplateID)
		if err != nil {
			return "", err
		}
		p.Template = t
	}
	return Preview(p.Template, p, s.currency, s.now()), nil
}

func (s *Service) decorate(p *Proposal) {
	if p.PDFFile != "" {
		p.PDFURL = fmt.Sprintf("/admin/proposals/%d/pdf", p.ID)
	}
}

func (s *Service) removeFile(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, filestore.ErrNotFound) {
		log.Printf("⚠️ failed to remove stale proposal file %s: %v", key, err)
	}
}

func missingAs(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, utils.ErrNotFound) {
		return utils.NewValidationError(msg)
	}
	return err
}
