package media

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/senecapartners/seneca-cms-backend/internal/auditlog"
	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/middleware"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

type Handler struct {
	service  *Service
	files    filestore.Store
	auditSvc auditlog.Service
}

func NewHandler(service *Service, files filestore.Store, auditSvc auditlog.Service) *Handler {
	return &Handler{service: service, files: files, auditSvc: auditSvc}
}

type CaptionInput struct {
	Caption string `json:"caption"`
}

// ========================= PHOTOS =============================

// ListPhotos godoc
// @Summary List photos
// @Tags Media
// @Produce json
// @Success 200 {array} Photo
// @Router /api/photos [get]
func (h *Handler) ListPhotos(c *gin.Context) {
	photos, err := h.service.ListPhotos(c.Request.Context(), middleware.SiteID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// GetPhoto godoc
// @Summary Get photo
// @Tags Media
// @Produce json
// @Param id path int true "Photo ID"
// @Success 200 {object} Photo
// @Router /api/photos/{id} [get]
func (h *Handler) GetPhoto(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	photo, err := h.service.GetPhoto(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

// UploadPhoto godoc
// @Summary Upload photo
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Param caption formData string false "Caption"
// @Success 201 {object} Photo
// @Security BearerAuth
// @Router /admin/api/photos [post]
func (h *Handler) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	photo, err := h.service.UploadPhoto(c.Request.Context(), middleware.SiteID(c), c.PostForm("caption"), filepath.Ext(fh.Filename), f)
	auditlog.Record(c, h.auditSvc, "PHOTO_UPLOADED", map[string]interface{}{"filename": fh.Filename}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// UpdatePhoto godoc
// @Summary Update photo caption
// @Tags Media
// @Accept json
// @Produce json
// @Param id path int true "Photo ID"
// @Param body body CaptionInput true "Caption"
// @Success 200 {object} Photo
// @Security BearerAuth
// @Router /admin/api/photos/{id} [put]
func (h *Handler) UpdatePhoto(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var in CaptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	photo, err := h.service.UpdateCaption(c.Request.Context(), middleware.SiteID(c), id, in.Caption)
	auditlog.Record(c, h.auditSvc, "PHOTO_UPDATED", map[string]interface{}{"photo_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

// DeletePhoto godoc
// @Summary Delete photo and its file
// @Tags Media
// @Param id path int true "Photo ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/api/photos/{id} [delete]
func (h *Handler) DeletePhoto(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.DeletePhoto(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "PHOTO_DELETED", map[string]interface{}{"photo_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ========================= VIDEOS =============================

// ListVideos godoc
// @Summary List videos
// @Tags Media
// @Produce json
// @Param year query string false "Year"
// @Param month query string false "Month"
// @Param search query string false "Link or description fragment"
// @Success 200 {array} Video
// @Router /api/videos [get]
func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.service.ListVideos(c.Request.Context(), middleware.SiteID(c), VideoFilter{
		Year:   c.Query("year"),
		Month:  c.Query("month"),
		Search: c.Query("search"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GetVideo godoc
// @Summary Get video
// @Tags Media
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} Video
// @Router /api/videos/{id} [get]
func (h *Handler) GetVideo(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	video, err := h.service.GetVideo(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// CreateVideo godoc
// @Summary Create video
// @Tags Media
// @Accept json
// @Produce json
// @Param body body VideoInput true "Video"
// @Success 201 {object} Video
// @Security BearerAuth
// @Router /admin/api/videos [post]
func (h *Handler) CreateVideo(c *gin.Context) {
	var in VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	video, err := h.service.CreateVideo(c.Request.Context(), middleware.SiteID(c), in)
	auditlog.Record(c, h.auditSvc, "VIDEO_CREATED", map[string]interface{}{"link": in.YoutubeLink}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// UpdateVideo godoc
// @Summary Update video
// @Tags Media
// @Accept json
// @Produce json
// @Param id path int true "Video ID"
// @Param body body VideoInput true "Video"
// @Success 200 {object} Video
// @Security BearerAuth
// @Router /admin/api/videos/{id} [put]
func (h *Handler) UpdateVideo(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var in VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	video, err := h.service.UpdateVideo(c.Request.Context(), middleware.SiteID(c), id, in)
	auditlog.Record(c, h.auditSvc, "VIDEO_UPDATED", map[string]interface{}{"video_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// DeleteVideo godoc
// @Summary Delete video
// @Tags Media
// @Param id path int true "Video ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/api/videos/{id} [delete]
func (h *Handler) DeleteVideo(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.DeleteVideo(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "VIDEO_DELETED", map[string]interface{}{"video_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ========================= FILES =============================

// ServeFile streams a public attachment: GET /media/*key
func (h *Handler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(path.Clean("/"+c.Param("key")), "/")
	if key == "" || !filestore.Public(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	rc, err := h.files.Open(c.Request.Context(), key)
	if errors.Is(err, filestore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if err != nil {
		log.Printf("❌ failed to open %s: %v", key, err)
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	defer rc.Close()

	contentType := filestore.ContentType(key)
	disposition := "attachment"
	if filestore.Inline(contentType) {
		disposition = "inline"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, path.Base(key)))
	c.Header("Cache-Control", "public, max-age=3600")
	if err := filestore.Serve(c.Writer, c.Request, path.Base(key), rc); err != nil {
		log.Printf("⚠️ failed to stream %s: %v", key, err)
	}
}
