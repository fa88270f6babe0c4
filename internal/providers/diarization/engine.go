package diarization

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoodiarize/internal/audio"
	"github.com/yoockh/yoodiarize/internal/utils"
)

// Engine is the process-wide handle around the single shared model
// resource. It serializes inference calls with a mutex so concurrent
// requests queue instead of hitting the backend at the same time, and it
// normalizes every backend failure to INFERENCE_FAILED at this boundary.
//
// One Engine is constructed at startup and passed by handle into the
// orchestrator; it is closed at shutdown.
type Engine struct {
	p   Provider
	log *logrus.Logger

	mu sync.Mutex
}

func NewEngine(p Provider, log *logrus.Logger) *Engine {
	return &Engine{p: p, log: log}
}

// Name reports the selected backend.
func (e *Engine) Name() string { return e.p.Name() }

// IsAvailable probes the backend, used by the readiness endpoint.
func (e *Engine) IsAvailable(ctx context.Context) bool { return e.p.IsAvailable(ctx) }

// Diarize runs one inference over decoded audio. Calls are serialized; a
// request arriving mid-inference waits rather than interrupting, and a
// started inference always runs to its own completion or error.
func (e *Engine) Diarize(ctx context.Context, d *audio.DecodedAudio) (segs []Segment, err error) {
	const op = "Engine.Diarize"

	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", r).Error("diarization backend panicked")
			segs = nil
			err = utils.E(utils.CodeInferenceFailed, op, "audio analysis error", fmt.Errorf("backend panic: %v", r))
		}
	}()

	raw, derr := e.p.Diarize(ctx, d)
	if derr != nil {
		return nil, utils.E(utils.CodeInferenceFailed, op, "audio analysis error", derr)
	}
	for _, s := range raw {
		if s.Start < 0 || s.Start >= s.End {
			return nil, utils.E(utils.CodeInferenceFailed, op, "audio analysis error",
				fmt.Errorf("backend returned malformed interval [%v, %v]", s.Start, s.End))
		}
	}
	return raw, nil
}

// Close releases the backend.
func (e *Engine) Close() error { return e.p.Close() }
