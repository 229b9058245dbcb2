package models

// StoredFile is a backend-held file record. IDs are assigned by the backend;
// filenames are display names and are not guaranteed to be unique.
type StoredFile struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}
