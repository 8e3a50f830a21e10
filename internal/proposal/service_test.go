package proposal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/internal/application"
	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
)

const siteID uint = 1

type fakeInventory struct {
	blocks map[uint]*inventory.Block
	floors map[uint]*inventory.Floor
	plans  map[uint]*inventory.Plan // keyed by floor
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		blocks: map[uint]*inventory.Block{},
		floors: map[uint]*inventory.Floor{},
		plans:  map[uint]*inventory.Plan{},
	}
}

func (f *fakeInventory) GetBlock(_ context.Context, site, id uint) (*inventory.Block, error) {
	if b, ok := f.blocks[id]; ok && b.SiteID == site {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInventory) GetFloor(_ context.Context, site, id uint) (*inventory.Floor, error) {
	if fl, ok := f.floors[id]; ok && fl.SiteID == site {
		return fl, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInventory) PlanForFloor(_ context.Context, site, floorID uint) (*inventory.Plan, error) {
	if p, ok := f.plans[floorID]; ok && p.SiteID == site {
		return p, nil
	}
	return nil, nil
}

type fakeLeads map[uint]*application.Application

func (f fakeLeads) Get(_ context.Context, site, id uint) (*application.Application, error) {
	if a, ok := f[id]; ok && a.SiteID == site {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// memRepo stores proposals and hydrates associations the way the gorm
// repository preloads them.
type memRepo struct {
	inv          *fakeInventory
	leads        fakeLeads
	templates    map[uint]*Template
	proposals    map[uint]Proposal
	nextID       uint
	updatePDFErr error
}

func newMemRepo(inv *fakeInventory, leads fakeLeads) *memRepo {
	return &memRepo{inv: inv, leads: leads, templates: map[uint]*Template{}, proposals: map[uint]Proposal{}}
}

func (m *memRepo) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memRepo) CreateTemplate(_ context.Context, t *Template) error {
	t.ID = m.id()
	m.templates[t.ID] = t
	return nil
}

func (m *memRepo) ListTemplates(_ context.Context, site uint) ([]Template, error) {
	var out []Template
	for _, t := range m.templates {
		if t.SiteID == site {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memRepo) GetTemplate(_ context.Context, site, id uint) (*Template, error) {
	if t, ok := m.templates[id]; ok && t.SiteID == site {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) DeleteTemplate(_ context.Context, site, id uint) error {
	for _, p := range m.proposals {
		if p.TemplateID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(m.templates, id)
	return nil
}

func (m *memRepo) Save(_ context.Context, p *Proposal) error {
	stored := *p
	stored.Template, stored.Application, stored.Block, stored.Floor = nil, nil, nil, nil
	if p.ID == 0 {
		p.ID = m.id()
		p.CreatedAt = time.Now()
		stored.ID, stored.CreatedAt = p.ID, p.CreatedAt
		stored.PDFFile = ""
	} else {
		stored.PDFFile = m.proposals[p.ID].PDFFile
	}
	m.proposals[p.ID] = stored
	return nil
}

func (m *memRepo) Get(_ context.Context, site, id uint) (*Proposal, error) {
	p, ok := m.proposals[id]
	if !ok || p.SiteID != site {
		return nil, gorm.ErrRecordNotFound
	}
	p.Template = m.templates[p.TemplateID]
	p.Block = m.inv.blocks[p.BlockID]
	p.Floor = m.inv.floors[p.FloorID]
	if p.ApplicationID != nil {
		p.Application = m.leads[*p.ApplicationID]
	}
	return &p, nil
}

func (m *memRepo) List(ctx context.Context, site uint, filter ListFilter) ([]Proposal, int64, error) {
	var out []Proposal
	for id := range m.proposals {
		p, _ := m.Get(ctx, site, id)
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) UpdatePDF(_ context.Context, site, id uint, key string) error {
	if m.updatePDFErr != nil {
		return m.updatePDFErr
	}
	p, ok := m.proposals[id]
	if !ok || p.SiteID != site {
		return gorm.ErrRecordNotFound
	}
	p.PDFFile = key
	m.proposals[id] = p
	return nil
}

func (m *memRepo) Delete(_ context.Context, site, id uint) error {
	if p, ok := m.proposals[id]; !ok || p.SiteID != site {
		return gorm.ErrRecordNotFound
	}
	delete(m.proposals, id)
	return nil
}

type stubRenderer struct {
	calls int
	err   error
}

func (s *stubRenderer) Render(p *Proposal) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.3 proposal"), nil
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	inv      *fakeInventory
	files    *filestore.MemoryStore
	renderer *stubRenderer
	template *Template
}

// newFixture seeds block A with floors 1 and 2; only floor 1 has a plan at 150000.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	inv := newFakeInventory()
	inv.blocks[1] = &inventory.Block{ID: 1, SiteID: siteID, Name: "A"}
	inv.blocks[2] = &inventory.Block{ID: 2, SiteID: siteID, Name: "B"}
	inv.floors[10] = &inventory.Floor{ID: 10, SiteID: siteID, BlockID: 1, Level: inventory.Level1, Block: inv.blocks[1]}
	inv.floors[11] = &inventory.Floor{ID: 11, SiteID: siteID, BlockID: 1, Level: inventory.Level2, Block: inv.blocks[1]}
	inv.plans[10] = &inventory.Plan{ID: 100, SiteID: siteID, FloorID: 10, PricePerM2: decimal.NewFromInt(150000)}

	leads := fakeLeads{5: {ID: 5, SiteID: siteID, Name: "Айгерим", Phone: "+77010000000"}}
	repo := newMemRepo(inv, leads)
	files := filestore.NewMemoryStore("/media/")
	renderer := &stubRenderer{}
	svc := NewService(repo, inv, leads, renderer, files, "₸")
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	tpl, err := svc.CreateTemplate(context.Background(), siteID, TemplateInput{Name: "Стандарт", Content: "Блок {block}, {floor}: {total_price}"})
	require.NoError(t, err)

	return &fixture{svc: svc, repo: repo, inv: inv, files: files, renderer: renderer, template: tpl}
}

func (f *fixture) input(floorID uint, area string) ProposalInput {
	return ProposalInput{
		TemplateID:  f.template.ID,
		BlockID:     1,
		FloorID:     floorID,
		Area:        decimal.RequireFromString(area),
		FinishLevel: "basic",
	}
}

func TestApplyPricing(t *testing.T) {
	p := &Proposal{Area: decimal.RequireFromString("50.00")}
	ApplyPricing(p, &inventory.Plan{PricePerM2: decimal.NewFromInt(150000)})
	assert.Equal(t, "150000.00", p.PricePerM2.StringFixed(2))
	assert.Equal(t, "7500000.00", p.TotalPrice.StringFixed(2))

	ApplyPricing(p, nil)
	assert.True(t, p.PricePerM2.IsZero())
	assert.True(t, p.TotalPrice.IsZero())
}

func TestCreatePricesFromFloorPlan(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Create(context.Background(), siteID, f.input(10, "50.00"))
	require.NoError(t, err)

	assert.Equal(t, "150000.00", p.PricePerM2.StringFixed(2))
	assert.Equal(t, "7500000.00", p.TotalPrice.StringFixed(2))
	assert.Equal(t, FinishBasic, p.FinishLevel)
	assert.Equal(t, "A", p.Block.Name)

	stored := f.repo.proposals[p.ID]
	assert.Equal(t, "7500000.00", stored.TotalPrice.StringFixed(2))
}

func TestCreateWithoutPlanPricesZero(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Create(context.Background(), siteID, f.input(11, "42.5"))
	require.NoError(t, err)

	assert.True(t, p.PricePerM2.IsZero())
	assert.True(t, p.TotalPrice.IsZero())
}

func TestUpdateRepricesOnEverySave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)

	f.inv.plans[10].PricePerM2 = decimal.NewFromInt(200000)
	p, err = f.svc.Update(ctx, siteID, p.ID, f.input(10, "60.00"))
	require.NoError(t, err)
	assert.Equal(t, "200000.00", p.PricePerM2.StringFixed(2))
	assert.Equal(t, "12000000.00", p.TotalPrice.StringFixed(2))

	p, err = f.svc.Update(ctx, siteID, p.ID, f.input(11, "60.00"))
	require.NoError(t, err)
	assert.True(t, p.TotalPrice.IsZero())
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input(10, "0")
	_, err := f.svc.Create(ctx, siteID, in)
	assert.EqualError(t, err, "area must be greater than zero")

	in = f.input(10, "50")
	in.FinishLevel = "luxury"
	_, err = f.svc.Create(ctx, siteID, in)
	assert.EqualError(t, err, `invalid finish_level "luxury"`)

	in = f.input(10, "50")
	in.TemplateID = 999
	_, err = f.svc.Create(ctx, siteID, in)
	assert.EqualError(t, err, "template not found")

	in = f.input(10, "50")
	in.BlockID = 2
	_, err = f.svc.Create(ctx, siteID, in)
	assert.ErrorIs(t, err, ErrFloorBlockMismatch)

	in = f.input(10, "50")
	missing := uint(77)
	in.ApplicationID = &missing
	_, err = f.svc.Create(ctx, siteID, in)
	assert.EqualError(t, err, "application not found")

	assert.Empty(t, f.repo.proposals)
}

func TestGenerateTwiceReplacesAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)

	first, err := f.svc.Generate(ctx, siteID, p.ID)
	require.NoError(t, err)
	second, err := f.svc.Generate(ctx, siteID, p.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.PDFFile, second.PDFFile)
	assert.Equal(t, []string{second.PDFFile}, f.files.Keys(filestore.PrefixProposals))
	assert.Equal(t, fmt.Sprintf("/admin/proposals/%d/pdf", p.ID), second.PDFURL)
	assert.Equal(t, second.PDFFile, f.repo.proposals[p.ID].PDFFile)

	rc, _, err := f.svc.Download(ctx, siteID, p.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSaveKeepsAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)
	generated, err := f.svc.Generate(ctx, siteID, p.ID)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, siteID, p.ID, f.input(10, "55.00"))
	require.NoError(t, err)
	assert.Equal(t, generated.PDFFile, updated.PDFFile)
}

func TestGenerateRenderFailureKeepsAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)
	generated, err := f.svc.Generate(ctx, siteID, p.ID)
	require.NoError(t, err)

	f.renderer.err = errors.New("font table corrupt")
	_, err = f.svc.Generate(ctx, siteID, p.ID)
	require.Error(t, err)

	assert.Equal(t, generated.PDFFile, f.repo.proposals[p.ID].PDFFile)
	assert.Equal(t, []string{generated.PDFFile}, f.files.Keys(filestore.PrefixProposals))
}

func TestGenerateStoreFailureRemovesNewFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)
	generated, err := f.svc.Generate(ctx, siteID, p.ID)
	require.NoError(t, err)

	f.repo.updatePDFErr = errors.New("connection reset")
	_, err = f.svc.Generate(ctx, siteID, p.ID)
	require.Error(t, err)

	assert.Equal(t, []string{generated.PDFFile}, f.files.Keys(filestore.PrefixProposals))
}

func TestDownloadWithoutDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)

	_, _, err = f.svc.Download(ctx, siteID, p.ID)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestDeleteRemovesDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)
	_, err = f.svc.Generate(ctx, siteID, p.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, siteID, p.ID))
	assert.Empty(t, f.files.Keys(filestore.PrefixProposals))
}

func TestServicePreview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, siteID, f.input(10, "50.00"))
	require.NoError(t, err)

	text, err := f.svc.Preview(ctx, siteID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Блок A, 1 этаж: 7 500 000.00 ₸", text)
}
