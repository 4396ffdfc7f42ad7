package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileSize   int64     `json:"fileSize"`
	IsDefault  bool      `json:"isDefault"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(r Resume, fileURL string) ResumeResponse {
	return ResumeResponse{
		ID:         r.ID,
		FileName:   r.FileName,
		FileURL:    fileURL,
		FileSize:   r.FileSize,
		IsDefault:  r.IsDefault,
		UploadedAt: r.UploadedAt,
	}
}
