package models

import "time"

// Attachment upload states.
const (
	UploadPending = "pending"
	UploadDone    = "uploaded"
)

// Attachment is the metadata row for a blob kept in object storage. The blob
// itself travels through presigned URLs and never passes through the server.
type Attachment struct {
	ID           string
	EntryID      string
	FileName     string
	MimeType     string
	SizeBytes    int64
	StorageKey   string
	UploadStatus string
	CreatedAt    time.Time
}
