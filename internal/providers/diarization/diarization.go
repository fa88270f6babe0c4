package diarization

import (
	"context"

	"github.com/yoockh/yoodiarize/internal/audio"
)

// Segment is a raw speaker-attributed interval as emitted by a backend,
// before the response layer rounds and orders it.
type Segment struct {
	Speaker string
	Start   float64 // seconds
	End     float64 // seconds
}

// Provider is the external diarization capability behind a single
// interface. The concrete backend (accelerated or not) is selected at
// initialization time, never per request.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
	Diarize(ctx context.Context, d *audio.DecodedAudio) ([]Segment, error)
	Close() error
}
