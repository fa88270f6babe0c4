package services

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/yoockh/yoodiarize/internal/models"
	"github.com/yoockh/yoodiarize/internal/providers/diarization"
)

// BuildResult normalizes raw engine output into the public response: a
// fresh request id, timestamps rounded to 2 decimals, segments in
// chronological order. Pure apart from the uuid draw.
func BuildResult(raw []diarization.Segment) *models.AnalysisResult {
	segments := make([]models.SpeakerSegment, len(raw))
	for i, s := range raw {
		segments[i] = models.SpeakerSegment{
			Speaker: s.Speaker,
			Start:   round2(s.Start),
			End:     round2(s.End),
		}
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	return &models.AnalysisResult{
		RequestID: uuid.NewString(),
		Segments:  segments,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
