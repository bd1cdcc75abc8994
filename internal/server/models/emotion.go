package models

import "time"

// Emotion detection sources.
const (
	DetectedByManual = "manual"
	DetectedByModel  = "model"
)

// EmotionalState is the at-most-one emotion record attached to an entry.
// Updates replace the row wholesale (delete then insert); it is never
// partially patched.
type EmotionalState struct {
	ID         string
	EntryID    string
	Primary    string
	Intensity  float64
	Confidence float64
	Secondary  []string
	Context    string
	MoodBefore string
	MoodAfter  string
	DetectedBy string
	CreatedAt  time.Time
}
