package documents

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestServe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		disposition Disposition
		wantHeader  string
		wantNoCache bool
	}{
		{name: "inline", disposition: Inline, wantHeader: `inline; filename=resume.pdf`, wantNoCache: true},
		{name: "attachment", disposition: Attachment, wantHeader: `attachment; filename=resume.pdf`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			Serve(c, []byte("%PDF"), "resume.pdf", tt.disposition)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Disposition"); got != tt.wantHeader {
				t.Fatalf("Content-Disposition = %q, want %q", got, tt.wantHeader)
			}
			if got := rec.Header().Get("Content-Type"); got != ContentTypePDF {
				t.Fatalf("Content-Type = %q", got)
			}
			noCache := rec.Header().Get("Cache-Control") != ""
			if noCache != tt.wantNoCache {
				t.Fatalf("Cache-Control present = %v, want %v", noCache, tt.wantNoCache)
			}
			if rec.Body.String() != "%PDF" {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestReadUploadReportsOversize(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{'a'}, 64)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	fh := form.File["resume"][0]

	upload, err := ReadUpload(fh, 16)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if upload.Size <= 16 {
		t.Fatalf("expected size above limit, got %d", upload.Size)
	}
	if len(upload.Body) != 17 {
		t.Fatalf("expected body capped at limit+1, got %d", len(upload.Body))
	}
	if upload.ContentType != "application/pdf" || upload.FileName != "cv.pdf" {
		t.Fatalf("unexpected upload %+v", upload)
	}
}
