package proposal

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senecapartners/seneca-cms-backend/internal/auditlog"
	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/middleware"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

type Handler struct {
	service  *Service
	auditSvc auditlog.Service
}

func NewHandler(service *Service, auditSvc auditlog.Service) *Handler {
	return &Handler{service: service, auditSvc: auditSvc}
}

type PaginatedProposals struct {
	Data   []Proposal `json:"data"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type PreviewResponse struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

// ========================= TEMPLATES =============================

// ListTemplates godoc
// @Summary List proposal templates
// @Tags Proposals
// @Produce json
// @Success 200 {array} Template
// @Security BearerAuth
// @Router /admin/api/proposal-templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context(), middleware.SiteID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate godoc
// @Summary Get proposal template
// @Tags Proposals
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} Template
// @Security BearerAuth
// @Router /admin/api/proposal-templates/{id} [get]
func (h *Handler) GetTemplate(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	t, err := h.service.GetTemplate(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTemplate godoc
// @Summary Create proposal template
// @Description Templates cannot be edited after creation.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param body body TemplateInput true "Template"
// @Success 201 {object} Template
// @Security BearerAuth
// @Router /admin/api/proposal-templates [post]
func (h *Handler) CreateTemplate(c *gin.Context) {
	var in TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	t, err := h.service.CreateTemplate(c.Request.Context(), middleware.SiteID(c), in)
	auditlog.Record(c, h.auditSvc, "PROPOSAL_TEMPLATE_CREATED", map[string]interface{}{"name": in.Name}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// DeleteTemplate godoc
// @Summary Delete proposal template
// @Tags Proposals
// @Param id path int true "Template ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/api/proposal-templates/{id} [delete]
func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.DeleteTemplate(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "PROPOSAL_TEMPLATE_DELETED", map[string]interface{}{"template_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ========================= PROPOSALS =============================

// List godoc
// @Summary List proposals
// @Tags Proposals
// @Produce json
// @Param application_id query int false "Linked lead"
// @Param block_id query int false "Block"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} PaginatedProposals
// @Security BearerAuth
// @Router /admin/api/proposals [get]
func (h *Handler) List(c *gin.Context) {
	appID, err := utils.OptionalID(c.Query("application_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	blockID, err := utils.OptionalID(c.Query("block_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	limit, offset := utils.Pagination(c.Query("limit"), c.Query("offset"))

	proposals, total, err := h.service.List(c.Request.Context(), middleware.SiteID(c), ListFilter{
		ApplicationID: appID,
		BlockID:       blockID,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PaginatedProposals{Data: proposals, Total: total, Limit: limit, Offset: offset})
}

// Get godoc
// @Summary Get proposal
// @Tags Proposals
// @Produce json
// @Param id path int true "Proposal ID"
// @Success 200 {object} Proposal
// @Security BearerAuth
// @Router /admin/api/proposals/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	p, err := h.service.Get(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create godoc
// @Summary Create proposal
// @Description Price per m² and total are taken from the floor's plan on every save.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param body body ProposalInput true "Proposal"
// @Success 201 {object} Proposal
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/api/proposals [post]
func (h *Handler) Create(c *gin.Context) {
	var in ProposalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	p, err := h.service.Create(c.Request.Context(), middleware.SiteID(c), in)
	details := map[string]interface{}{"floor_id": in.FloorID, "area": in.Area.String()}
	if p != nil {
		details["proposal_id"] = p.ID
		details["total_price"] = p.TotalPrice.String()
	}
	auditlog.Record(c, h.auditSvc, "PROPOSAL_CREATED", details, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update godoc
// @Summary Update proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path int true "Proposal ID"
// @Param body body ProposalInput true "Proposal"
// @Success 200 {object} Proposal
// @Security BearerAuth
// @Router /admin/api/proposals/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var in ProposalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	p, err := h.service.Update(c.Request.Context(), middleware.SiteID(c), id, in)
	auditlog.Record(c, h.auditSvc, "PROPOSAL_UPDATED", map[string]interface{}{"proposal_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// @Summary Delete proposal
// @Tags Proposals
// @Param id path int true "Proposal ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/api/proposals/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.Delete(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "PROPOSAL_DELETED", map[string]interface{}{"proposal_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Preview godoc
// @Summary Preview template text
// @Description Fills the proposal's template placeholders with its current values.
// @Tags Proposals
// @Produce json
// @Param id path int true "Proposal ID"
// @Success 200 {object} PreviewResponse
// @Security BearerAuth
// @Router /admin/api/proposals/{id}/preview [get]
func (h *Handler) Preview(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	content, err := h.service.Preview(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PreviewResponse{ID: id, Content: content})
}

// Generate godoc
// @Summary Generate proposal PDF
// @Description Renders the document and replaces any previous attachment. Redirects back to the referring page unless JSON is requested.
// @Tags Proposals
// @Produce json
// @Param id path int true "Proposal ID"
// @Param format query string false "json"
// @Success 200 {object} Proposal
// @Success 303
// @Security BearerAuth
// @Router /admin/proposals/{id}/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	p, err := h.service.Generate(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "PROPOSAL_GENERATED", map[string]interface{}{"proposal_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if utils.WantsJSON(c) {
		c.JSON(http.StatusOK, p)
		return
	}
	c.Redirect(http.StatusSeeOther, utils.LocalReferer(c, "/admin/"))
}

// Download godoc
// @Summary Download proposal PDF
// @Tags Proposals
// @Produce application/pdf
// @Param id path int true "Proposal ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/proposals/{id}/pdf [get]
func (h *Handler) Download(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	rc, _, err := h.service.Download(c.Request.Context(), middleware.SiteID(c), id)
	if errors.Is(err, ErrNoDocument) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document has not been generated"})
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("proposal_%d.pdf", id)))
	if err := filestore.Serve(c.Writer, c.Request, fmt.Sprintf("proposal_%d.pdf", id), rc); err != nil {
		log.Printf("⚠️ failed to stream proposal %d: %v", id, err)
	}
}
