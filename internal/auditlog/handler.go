package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/senecapartners/seneca-cms-backend/middleware"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs godoc
// @Summary List audit logs for the current site
// @Tags AuditLog
// @Produce json
// @Param staff_id query int false "Filter by staff user"
// @Param action query string false "Filter by action (partial match)"
// @Param status query string false "success or failure"
// @Param from_date query string false "From date (YYYY-MM-DD)"
// @Param to_date query string false "To date inclusive (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} PaginatedAuditLogs
// @Security BearerAuth
// @Router /admin/api/auditlogs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	siteID := middleware.SiteID(c)
	filter := AuditLogFilter{
		SiteID: &siteID,
		Action: c.Query("action"),
		Status: c.Query("status"),
	}

	staffID, err := utils.OptionalID(c.Query("staff_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	filter.StaffID = staffID

	if filter.FromDate, err = utils.ParseDate(c.Query("from_date"), time.UTC); err != nil {
		utils.RespondError(c, err)
		return
	}
	toDate, err := utils.ParseDate(c.Query("to_date"), time.UTC)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if toDate != nil {
		end := toDate.AddDate(0, 0, 1)
		filter.ToDate = &end
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAuditLogByID godoc
// @Summary Get audit log by ID
// @Tags AuditLog
// @Produce json
// @Param id path int true "Audit log ID"
// @Success 200 {object} AuditLogResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/api/auditlogs/{id} [get]
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audit log ID"})
		return
	}

	entry, err := h.service.GetAuditLogByID(c.Request.Context(), id)
	if err != nil || entry.SiteID == nil || *entry.SiteID != middleware.SiteID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit log not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
