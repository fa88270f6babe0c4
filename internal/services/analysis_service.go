package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoodiarize/internal/audio"
	"github.com/yoockh/yoodiarize/internal/models"
	"github.com/yoockh/yoodiarize/internal/providers/diarization"
	"github.com/yoockh/yoodiarize/internal/utils"
)

// AudioFetcher downloads source audio under the fetch budget.
type AudioFetcher interface {
	Fetch(ctx context.Context, url string) (*models.AudioBuffer, error)
}

// AudioValidator decodes a buffer and enforces the duration floor.
type AudioValidator interface {
	Validate(buf *models.AudioBuffer) (*audio.DecodedAudio, error)
}

// DiarizationEngine is the shared inference handle.
type DiarizationEngine interface {
	Diarize(ctx context.Context, d *audio.DecodedAudio) ([]diarization.Segment, error)
}

// AnalysisService runs one analysis request end to end:
// fetch -> validate -> diarize -> build. Each stage either produces the
// next stage's input or a typed failure that ends the request; nothing is
// retried here and no partial result ever leaves.
type AnalysisService interface {
	Analyze(ctx context.Context, url string) (*models.AnalysisResult, error)
}

type analysisService struct {
	fetcher    AudioFetcher
	validator  AudioValidator
	engine     DiarizationEngine
	maxSeconds float64 // 0 disables the cap
	log        *logrus.Logger
}

func NewAnalysisService(f AudioFetcher, v AudioValidator, e DiarizationEngine, maxSeconds float64, log *logrus.Logger) AnalysisService {
	return &analysisService{
		fetcher:    f,
		validator:  v,
		engine:     e,
		maxSeconds: maxSeconds,
		log:        log,
	}
}

func (s *analysisService) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	const op = "AnalysisService.Analyze"

	buf, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, s.fail(op, "fetch", err)
	}

	decoded, err := s.validator.Validate(buf)
	if err != nil {
		return nil, s.fail(op, "validate", err)
	}

	if s.maxSeconds > 0 && decoded.Duration() > s.maxSeconds {
		return nil, utils.E(utils.CodeAudioTooLong, op, "audio file exceeds the maximum duration", nil)
	}

	raw, err := s.engine.Diarize(ctx, decoded)
	if err != nil {
		return nil, s.fail(op, "diarize", err)
	}

	result := BuildResult(raw)

	s.log.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"segments":   len(result.Segments),
		"duration_s": decoded.Duration(),
	}).Info("analysis completed")

	return result, nil
}

// fail passes typed stage failures through untouched and normalizes
// anything else to INFERENCE_FAILED so internals never leak to the client.
// The original error is logged in full either way.
func (s *analysisService) fail(op, stage string, err error) error {
	s.log.WithFields(logrus.Fields{
		"stage": stage,
		"error": err.Error(),
	}).Error("analysis stage failed")

	var ae *utils.AppError
	if errors.As(err, &ae) {
		return err
	}
	return utils.E(utils.CodeInferenceFailed, op, "audio analysis error", err)
}
