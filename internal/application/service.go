package application

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/senecapartners/seneca-cms-backend/utils"
)

// Notifier is told about every newly created lead. Implementations must not block.
type Notifier interface {
	NotifyNewApplication(app Application)
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create stores a new lead with status new and notifies the office.
func (s *Service) Create(ctx context.Context, siteID uint, in CreateInput) (*Application, error) {
	app := &Application{
		SiteID:  siteID,
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Comment: in.Comment,
		Status:  StatusNew,
	}
	if err := validate(app); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewApplication(*app)
	}
	return app, nil
}

func (s *Service) Get(ctx context.Context, siteID, id uint) (*Application, error) {
	return s.repo.GetByID(ctx, siteID, id)
}

// Update never notifies.
func (s *Service) Update(ctx context.Context, siteID, id uint, in UpdateInput) (*Application, error) {
	app, err := s.repo.GetByID(ctx, siteID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		app.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		app.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Comment != nil {
		app.Comment = *in.Comment
	}
	if in.Status != nil {
		app.Status = Status(*in.Status)
	}
	if err := validate(app); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Service) Delete(ctx context.Context, siteID, id uint) error {
	return s.repo.Delete(ctx, siteID, id)
}

func (s *Service) List(ctx context.Context, siteID uint, filter ListFilter) (*PaginatedApplications, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid status %q", filter.Status))
	}
	if filter.Ordering != "" {
		if _, ok := orderings[filter.Ordering]; !ok {
			return nil, utils.NewValidationError(fmt.Sprintf("invalid ordering %q", filter.Ordering))
		}
	}

	apps, total, err := s.repo.List(ctx, siteID, filter)
	if err != nil {
		return nil, err
	}
	return &PaginatedApplications{Data: apps, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func validate(app *Application) error {
	switch {
	case app.Name == "":
		return utils.NewValidationError("name is required")
	case utf8.RuneCountInString(app.Name) > 100:
		return utils.NewValidationError("name must be at most 100 characters")
	case app.Phone == "":
		return utils.NewValidationError("phone is required")
	case utf8.RuneCountInString(app.Phone) > 20:
		return utils.NewValidationError("phone must be at most 20 characters")
	case !app.Status.Valid():
		return utils.NewValidationError(fmt.Sprintf("invalid status %q", app.Status))
	}
	return nil
}
