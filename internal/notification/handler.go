package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senecapartners/seneca-cms-backend/middleware"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// ListLogs godoc
// @Summary Lead notification delivery log
// @Tags Notifications
// @Produce json
// @Param application_id query int false "Only this lead"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/api/notifications [get]
func (h *Handler) ListLogs(c *gin.Context) {
	appID, err := utils.OptionalID(c.Query("application_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	limit, offset := utils.Pagination(c.Query("limit"), c.Query("offset"))

	logs, total, err := h.service.ListLogs(c.Request.Context(), middleware.SiteID(c), appID, limit, offset)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs, "total": total, "limit": limit, "offset": offset})
}
