package documents

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Disposition selects how a browser should present a served document.
type Disposition string

const (
	Inline     Disposition = "inline"
	Attachment Disposition = "attachment"
)

// Serve writes body as a PDF response. Inline responses are marked
// non-cacheable.
func Serve(c *gin.Context, body []byte, fileName string, disposition Disposition) {
	if fileName == "" {
		fileName = "document.pdf"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(string(disposition), map[string]string{"filename": fileName}))
	c.Header("Content-Length", strconv.Itoa(len(body)))
	if disposition == Inline {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
	}
	c.Data(http.StatusOK, ContentTypePDF, body)
}
