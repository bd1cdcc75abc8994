package models

// Tag is a global label deduplicated by lowercased name. UsageCount grows by
// one every time the tag is associated with an entry.
type Tag struct {
	ID         string
	Name       string
	UsageCount int
}
