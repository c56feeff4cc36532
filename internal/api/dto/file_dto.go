package dto

// UploadURLRequest payload for POST /files/upload-url.
type UploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// UploadURLResponse returns the presigned PUT target and the object key to store.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
}

// DeleteAccountRequest payload for the public POST /delete-account form.
type DeleteAccountRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}
