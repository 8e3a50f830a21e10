package reports

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/senecapartners/seneca-cms-backend/middleware"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// DataIntegrity godoc
// @Summary Inventory integrity check
// @Description Floors without a plan and blocks without floors. HTML unless JSON is requested.
// @Tags Reports
// @Produce json,html
// @Param format query string false "json"
// @Success 200 {object} IntegrityReport
// @Security BearerAuth
// @Router /admin/reports/data-integrity [get]
func (h *Handler) DataIntegrity(c *gin.Context) {
	report, err := h.service.Integrity(c.Request.Context(), middleware.SiteID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if utils.WantsJSON(c) {
		c.JSON(http.StatusOK, report)
		return
	}
	c.HTML(http.StatusOK, "data_integrity.html", gin.H{"Report": report})
}

// DeadLinks godoc
// @Summary Dead link check
// @Description Checks links in videos and plan descriptions one by one. Slow for many links.
// @Tags Reports
// @Produce json,html
// @Param format query string false "json"
// @Success 200 {object} DeadLinkReport
// @Security BearerAuth
// @Router /admin/reports/dead-links [get]
func (h *Handler) DeadLinks(c *gin.Context) {
	report, err := h.service.DeadLinks(c.Request.Context(), middleware.SiteID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if utils.WantsJSON(c) {
		c.JSON(http.StatusOK, report)
		return
	}
	c.HTML(http.StatusOK, "dead_links.html", gin.H{"Report": report})
}

// ApplicationsSummary godoc
// @Summary Lead funnel summary
// @Tags Reports
// @Produce json,html
// @Param start_date query string false "YYYY-MM-DD, inclusive"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Param format query string false "json"
// @Success 200 {object} FunnelSummary
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/reports/applications-summary [get]
func (h *Handler) ApplicationsSummary(c *gin.Context) {
	dr, err := ParseDateRange(c.Query("start_date"), c.Query("end_date"), time.Local)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), middleware.SiteID(c), dr)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if utils.WantsJSON(c) {
		c.JSON(http.StatusOK, summary)
		return
	}
	c.HTML(http.StatusOK, "applications_summary.html", gin.H{"Summary": summary})
}
