package applications

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/documents"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/storage/filestore"
)

const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/applications")
	g.GET("/download/:applicationId/:fileType", h.download)
	g.GET("/view/:applicationId/:fileType", h.view)
	g.POST("/:applicationId/attachments", h.attach)
}

func (h *Handler) download(c *gin.Context) {
	h.serve(c, documents.Attachment)
}

func (h *Handler) view(c *gin.Context) {
	h.serve(c, documents.Inline)
}

func (h *Handler) serve(c *gin.Context, disposition documents.Disposition) {
	applicationID, ok := applicationIDParam(c)
	if !ok {
		return
	}
	docType, err := ParseDocumentType(c.Param("fileType"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file type, expected cover-letter or resume", nil)
		return
	}

	body, err := h.Svc.LoadAttachment(c.Request.Context(), applicationID, docType, middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	documents.Serve(c, body, docType.DownloadName(), disposition)
}

func (h *Handler) attach(c *gin.Context) {
	applicationID, ok := applicationIDParam(c)
	if !ok {
		return
	}
	maxBytes := h.Svc.Validator.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*maxBytes+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form is required", nil)
		return
	}

	coverLetter, err := readPart(form, "coverLetterPdf", maxBytes)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read coverLetterPdf", nil)
		return
	}
	resume, err := readPart(form, "resumePdf", maxBytes)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read resumePdf", nil)
		return
	}

	app, err := h.Svc.Attach(c.Request.Context(), applicationID, middleware.UserIDFromContext(c), coverLetter, resume)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toAttachmentsResponse(app))
}

func readPart(form *multipart.Form, field string, limit int64) (*documents.Upload, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	up, err := documents.ReadUpload(files[0], limit)
	if err != nil {
		return nil, err
	}
	return &up, nil
}

func applicationIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid application id", nil)
		return 0, false
	}
	c.Set("applicationId", id)
	return id, true
}

func writeError(c *gin.Context, err error) {
	var verr *documents.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, gin.H{"field": verr.Field})
	case errors.Is(err, ErrInvalidInput), errors.Is(err, filestore.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid application document request", nil)
	case errors.Is(err, access.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case errors.Is(err, ErrDocumentNotFound), errors.Is(err, filestore.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrAlreadyAttached):
		respond.Error(c, http.StatusConflict, "conflict", "document already attached", nil)
	case errors.Is(err, filestore.ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "file storage is unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process application document", nil)
	}
}
