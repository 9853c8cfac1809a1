package dto

type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UploadResponse reports every file of a batch. Error and Message are set
// when no file was stored.
type UploadResponse struct {
	Error    bool           `json:"error,omitempty"`
	Message  string         `json:"message,omitempty"`
	Files    []UploadResult `json:"files"`
	Uploaded int            `json:"uploaded"`
	Failed   int            `json:"failed"`
}
