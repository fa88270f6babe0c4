package models

// AudioBuffer holds a downloaded audio file before decoding. It belongs to
// the request that fetched it and is dropped once decoding succeeds or the
// request fails.
type AudioBuffer struct {
	Data        []byte
	ContentType string // as declared by the origin server, not trusted
	SourceURL   string
}

// SpeakerSegment is one speaker-attributed time interval of the public
// response schema. Start and End are seconds, rounded to 2 decimals.
type SpeakerSegment struct {
	Speaker string  `json:"speaker"` // stable label, ex: SPEAKER_00
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// AnalysisResult is the terminal artifact of one /analyze call.
type AnalysisResult struct {
	RequestID string           `json:"request_id"` // uuid v4, fresh per request
	Segments  []SpeakerSegment `json:"segments"`
}
