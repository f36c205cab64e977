package models

// Cue is a caption unit. A time t is inside the cue when Start <= t <= End.
type Cue struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}
