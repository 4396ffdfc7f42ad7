package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/documents"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/storage/filestore"
)

const (
	// multipartOverhead leaves room for form boundaries and headers on top
	// of the file size limit.
	multipartOverhead = 1 << 20
	downloadName      = "resume.pdf"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/users/resume")
	g.POST("", h.upload)
	g.GET("", h.list)
	g.GET("/default", h.getDefault)
	g.GET("/count", h.count)
	g.PATCH("/:id/default", h.setDefault)
	g.GET("/:id/view", h.view)
	g.GET("/:id/download", h.download)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	maxBytes := h.Svc.Validator.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, h.Svc.Validator.Validate(maxBytes+1, documents.ContentTypePDF, "oversized.pdf"))
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}

	upload, err := documents.ReadUpload(fileHeader, maxBytes)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	res, err := h.Svc.Upload(c.Request.Context(), userID, upload.FileName, upload.ContentType, upload.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("resumeId", res.ID)
	c.Set("storageKey", res.FilePath)

	respond.Created(c, toResponse(res, h.Svc.URLFor(res)))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]ResumeResponse, 0, len(list))
	for _, res := range list {
		resp = append(resp, toResponse(res, h.Svc.URLFor(res)))
	}
	respond.OK(c, resp)
}

func (h *Handler) getDefault(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	res, err := h.Svc.GetDefault(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(res, h.Svc.URLFor(res)))
}

func (h *Handler) count(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	n, err := h.Svc.Count(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"count": n})
}

func (h *Handler) setDefault(c *gin.Context) {
	resumeID, ok := resumeIDParam(c)
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(c)

	res, err := h.Svc.SetDefault(c.Request.Context(), resumeID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(res, h.Svc.URLFor(res)))
}

func (h *Handler) view(c *gin.Context) {
	h.serve(c, documents.Inline)
}

func (h *Handler) download(c *gin.Context) {
	h.serve(c, documents.Attachment)
}

func (h *Handler) serve(c *gin.Context, disposition documents.Disposition) {
	resumeID, ok := resumeIDParam(c)
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(c)

	load := h.Svc.Download
	if disposition == documents.Inline {
		load = h.Svc.View
	}
	body, res, err := load(c.Request.Context(), resumeID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("storageKey", res.FilePath)
	documents.Serve(c, body, downloadName, disposition)
}

func (h *Handler) delete(c *gin.Context) {
	resumeID, ok := resumeIDParam(c)
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), resumeID, userID); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "resume deleted"})
}

func resumeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume id", nil)
		return 0, false
	}
	c.Set("resumeId", id)
	return id, true
}

func writeError(c *gin.Context, err error) {
	var verr *documents.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, gin.H{"field": verr.Field})
	case errors.Is(err, ErrInvalidInput), errors.Is(err, filestore.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume request", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, filestore.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume file not found", nil)
	case errors.Is(err, filestore.ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "file storage is unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process resume", nil)
	}
}
