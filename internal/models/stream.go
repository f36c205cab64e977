package models

// QualityStream is one quality→URL pair decoded from a stream payload.
type QualityStream struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// StreamInfo is the full list of decoded streams together with the selected one.
// Selected is nil when Streams is empty.
type StreamInfo struct {
	Streams  []QualityStream `json:"streams"`
	Selected *QualityStream  `json:"selected,omitempty"`
}

// SubtitleTrack is an external caption track offered for a stream.
type SubtitleTrack struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Language string `json:"language,omitempty"` // ISO 639-1 when known
}

// ResolutionResult is the terminal output of one resolve call.
type ResolutionResult struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	// Attempts is the number of attempts actually performed.
	Attempts int `json:"attempts"`
	// FoundAt is the attempt that produced URL.
	FoundAt   int             `json:"foundAt"`
	Strategy  string          `json:"strategy"`
	Streams   []QualityStream `json:"streams,omitempty"`
	Subtitles []SubtitleTrack `json:"subtitles,omitempty"`
}
