package services

import "time"

// RequestInfo carries transport-level context recorded on audit rows.
type RequestInfo struct {
	Source    string
	Role      string
	IPAddress string
	UserAgent string
}

// EmotionalStateInput is the caller-supplied emotion payload.
type EmotionalStateInput struct {
	Primary    string   `json:"primary"`
	Intensity  float64  `json:"intensity"`
	Confidence float64  `json:"confidence"`
	Secondary  []string `json:"secondary,omitempty"`
	Context    string   `json:"context,omitempty"`
	MoodBefore string   `json:"moodBefore,omitempty"`
	MoodAfter  string   `json:"moodAfter,omitempty"`
	DetectedBy string   `json:"detectedBy,omitempty"`
}

// AttachmentInput references a blob already placed in object storage via a
// presigned upload URL.
type AttachmentInput struct {
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int64  `json:"sizeBytes"`
	StorageKey string `json:"storageKey"`
}

type CreateEntryParams struct {
	StudentID              string               `json:"studentId"`
	Title                  string               `json:"title"`
	Content                string               `json:"content"`
	PlainTextContent       string               `json:"plainTextContent"`
	EmotionalState         *EmotionalStateInput `json:"emotionalState,omitempty"`
	Tags                   []string             `json:"tags,omitempty"`
	IsPrivate              bool                 `json:"isPrivate"`
	IsShareableWithTeacher bool                 `json:"isShareableWithTeacher"`
	IsShareableWithParent  bool                 `json:"isShareableWithParent"`
	Attachments            []AttachmentInput    `json:"attachments,omitempty"`
}

// UpdateEntryParams uses pointers to distinguish "not supplied" from zero
// values: privacy flags merge with the stored ones, nil Tags leaves the tag
// set untouched while an empty slice clears it.
type UpdateEntryParams struct {
	Title                  *string              `json:"title,omitempty"`
	Content                *string              `json:"content,omitempty"`
	PlainTextContent       *string              `json:"plainTextContent,omitempty"`
	EmotionalState         *EmotionalStateInput `json:"emotionalState,omitempty"`
	Tags                   []string             `json:"tags,omitempty"`
	IsPrivate              *bool                `json:"isPrivate,omitempty"`
	IsShareableWithTeacher *bool                `json:"isShareableWithTeacher,omitempty"`
	IsShareableWithParent  *bool                `json:"isShareableWithParent,omitempty"`
}

// ListOptions narrows and pages the student timeline.
type ListOptions struct {
	Limit          int
	Offset         int
	StartDate      *time.Time
	EndDate        *time.Time
	Tags           []string
	Emotions       []string
	SearchQuery    string
	IncludePrivate bool
	SortBy         string
	SortOrder      string
}

// EncryptionMetadata describes the crypto state of a returned entry.
type EncryptionMetadata struct {
	IsEncrypted          bool      `json:"isEncrypted"`
	EncryptionMethod     string    `json:"encryptionMethod"`
	EncryptedAt          time.Time `json:"encryptedAt"`
	KeyID                string    `json:"keyId"`
	DecryptionSuccessful bool      `json:"decryptionSuccessful"`
}

// EmotionalStateView mirrors the stored emotion row.
type EmotionalStateView struct {
	Primary    string   `json:"primary"`
	Intensity  float64  `json:"intensity"`
	Confidence float64  `json:"confidence"`
	Secondary  []string `json:"secondary,omitempty"`
	Context    string   `json:"context,omitempty"`
	MoodBefore string   `json:"moodBefore,omitempty"`
	MoodAfter  string   `json:"moodAfter,omitempty"`
	DetectedBy string   `json:"detectedBy"`
}

type AttachmentView struct {
	ID           string `json:"id"`
	FileName     string `json:"fileName"`
	MimeType     string `json:"mimeType"`
	SizeBytes    int64  `json:"sizeBytes"`
	StorageKey   string `json:"storageKey"`
	UploadStatus string `json:"uploadStatus"`
}

// EntryView is the single-entry response shape with decrypted content.
type EntryView struct {
	ID                     string              `json:"id"`
	StudentID              string              `json:"studentId"`
	Title                  string              `json:"title"`
	Content                string              `json:"content"`
	PlainTextContent       string              `json:"plainTextContent"`
	WordCount              int                 `json:"wordCount"`
	ReadingTimeMinutes     int                 `json:"readingTimeMinutes"`
	PrivacyLevel           string              `json:"privacyLevel"`
	IsPrivate              bool                `json:"isPrivate"`
	IsShareableWithTeacher bool                `json:"isShareableWithTeacher"`
	IsShareableWithParent  bool                `json:"isShareableWithParent"`
	EmotionalState         *EmotionalStateView `json:"emotionalState,omitempty"`
	Tags                   []string            `json:"tags"`
	Attachments            []AttachmentView    `json:"attachments"`
	CreatedAt              time.Time           `json:"createdAt"`
	UpdatedAt              time.Time           `json:"updatedAt"`
	LastEditedAt           time.Time           `json:"lastEditedAt"`
	PublishedAt            *time.Time          `json:"publishedAt,omitempty"`
	EncryptionMetadata     EncryptionMetadata  `json:"encryptionMetadata"`
}

// EntryListItemView is the metadata-only list shape. Content is deliberately
// absent: list rendering never decrypts.
type EntryListItemView struct {
	ID                     string     `json:"id"`
	StudentID              string     `json:"studentId"`
	Title                  string     `json:"title"`
	WordCount              int        `json:"wordCount"`
	ReadingTimeMinutes     int        `json:"readingTimeMinutes"`
	PrivacyLevel           string     `json:"privacyLevel"`
	IsPrivate              bool       `json:"isPrivate"`
	IsShareableWithTeacher bool       `json:"isShareableWithTeacher"`
	IsShareableWithParent  bool       `json:"isShareableWithParent"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
	LastEditedAt           time.Time  `json:"lastEditedAt"`
	PublishedAt            *time.Time `json:"publishedAt,omitempty"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type EntryPage struct {
	Entries    []*EntryListItemView `json:"entries"`
	Total      int                  `json:"total"`
	HasMore    bool                 `json:"hasMore"`
	Pagination Pagination           `json:"pagination"`
}
