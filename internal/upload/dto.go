package upload

type FileInput struct {
	Name     string
	MimeType string
	Data     []byte
}

type FailedFile struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type UploadResult struct {
	Files  []UploadedFile
	Failed []FailedFile
}

type UploadResponse struct {
	Message string         `json:"message"`
	Files   []UploadedFile `json:"files"`
	Failed  []FailedFile   `json:"failed"`
}

type RecentFilesResponse struct {
	Files []UploadedFile `json:"files"`
}
