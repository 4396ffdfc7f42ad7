package applications

// AttachmentsResponse reports which documents an application carries.
type AttachmentsResponse struct {
	ApplicationID  int64 `json:"applicationId"`
	HasCoverLetter bool  `json:"hasCoverLetter"`
	HasResume      bool  `json:"hasResume"`
}

func toAttachmentsResponse(app Application) AttachmentsResponse {
	return AttachmentsResponse{
		ApplicationID:  app.ID,
		HasCoverLetter: app.CoverLetterPath != nil,
		HasResume:      app.ResumePath != nil,
	}
}
