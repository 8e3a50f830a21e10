package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senecapartners/seneca-cms-backend/utils"
)

type Handler struct {
	registry Registry
}

func NewHandler(r Registry) *Handler {
	return &Handler{registry: r}
}

// Index godoc
// @Summary Admin index
// @Tags Admin
// @Produce html
// @Security BearerAuth
// @Router /admin/ [get]
func (h *Handler) Index(c *gin.Context) {
	if utils.WantsJSON(c) {
		c.JSON(http.StatusOK, h.registry)
		return
	}
	c.HTML(http.StatusOK, "admin_index.html", gin.H{"Registry": h.registry})
}

// GetRegistry godoc
// @Summary Managed entities and their operations
// @Tags Admin
// @Produce json
// @Success 200 {object} Registry
// @Security BearerAuth
// @Router /admin/api/registry [get]
func (h *Handler) GetRegistry(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry)
}
