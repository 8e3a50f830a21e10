package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/senecapartners/seneca-cms-backend/middleware"
)

type Service interface {
	LogAction(ctx context.Context, staffID *uint, siteID *uint, action string, details map[string]interface{}, ip string, status string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAction(ctx context.Context, staffID *uint, siteID *uint, action string, details map[string]interface{}, ip string, status string) error {
	if details == nil {
		details = make(map[string]interface{})
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return s.repo.Create(ctx, &AuditLog{
		StaffID:   staffID,
		SiteID:    siteID,
		Action:    action,
		Details:   datatypes.JSON(detailsJSON),
		IPAddress: ip,
		Status:    status,
	})
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("audit log not found: %w", err)
	}
	return entry, nil
}

// Record writes an audit entry for the current request. Failures to persist
// the entry are logged and never surface to the caller.
func Record(c *gin.Context, svc Service, action string, details map[string]interface{}, opErr error) {
	if svc == nil {
		return
	}
	status := StatusSuccess
	if opErr != nil {
		status = StatusFailure
		if details == nil {
			details = map[string]interface{}{}
		}
		details["error"] = opErr.Error()
	}

	var siteID *uint
	if id := middleware.SiteID(c); id != 0 {
		siteID = &id
	}

	if err := svc.LogAction(c.Request.Context(), middleware.StaffID(c), siteID, action, details, middleware.GetIPFromContext(c), status); err != nil {
		log.Printf("⚠️ audit log %s failed: %v", action, err)
	}
}
