package documents

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

// Upload is a fully buffered multipart file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        []byte
}

// ReadUpload buffers fh, reading at most limit+1 bytes so an oversized file
// is still reported with a size above limit rather than truncated silently.
func ReadUpload(fh *multipart.FileHeader, limit int64) (Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}

	size := int64(len(body))
	if fh.Size > size {
		size = fh.Size
	}
	return Upload{
		FileName:    strings.TrimSpace(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        size,
		Body:        body,
	}, nil
}
