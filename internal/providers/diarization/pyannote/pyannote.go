package pyannote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/yoockh/yoodiarize/internal/audio"
	"github.com/yoockh/yoodiarize/internal/providers/diarization"
)

const ProviderName = "pyannote"

const (
	defaultBaseURL = "http://localhost:8388"
	defaultTimeout = 300 * time.Second
)

// Config holds connection settings for the pyannote diarization runtime.
type Config struct {
	BaseURL string
	Token   string // Hugging Face token the runtime loads its weights with
	Timeout time.Duration
}

// Provider talks to the pyannote runtime over HTTP. The runtime owns the
// model weights and the device (CUDA when present, CPU otherwise); this
// side only ships samples and reads intervals back.
type Provider struct {
	cfg    Config
	client *http.Client
	device string // reported by the runtime at load time
}

func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *Provider) Name() string { return ProviderName }

// Device reports the execution device the runtime loaded on ("cuda",
// "cpu"). Empty until Load succeeds.
func (p *Provider) Device() string { return p.device }

// Load verifies the credential and that the runtime has its pipeline
// ready. The service calls this once at startup and refuses to start on
// failure.
func (p *Provider) Load(ctx context.Context) error {
	if p.cfg.Token == "" {
		return errors.New("diarization credential is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("diarization runtime unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("diarization runtime not ready (status %d): %s", resp.StatusCode, string(body))
	}

	var health struct {
		Status string `json:"status"`
		Device string `json:"device"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	p.device = health.Device
	return nil
}

// IsAvailable probes the runtime health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Diarize ships the decoded clip as WAV multipart and maps the runtime
// segments back.
func (p *Provider) Diarize(ctx context.Context, d *audio.DecodedAudio) ([]diarization.Segment, error) {
	wav, err := audio.EncodeWAV(d)
	if err != nil {
		return nil, fmt.Errorf("encode audio: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/diarize", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diarization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("diarization error (status %d): %s", resp.StatusCode, string(body))
	}

	var result runtimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode diarization response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("diarization error: %s", result.Error)
	}

	segments := make([]diarization.Segment, len(result.Segments))
	for i, seg := range result.Segments {
		segments[i] = diarization.Segment{
			Speaker: seg.SpeakerID,
			Start:   seg.StartTime,
			End:     seg.EndTime,
		}
	}
	return segments, nil
}

// Close drops idle connections to the runtime.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// --- runtime API types ---

type runtimeResponse struct {
	Segments []runtimeSegment `json:"segments"`
	Error    string           `json:"error,omitempty"`
}

type runtimeSegment struct {
	SpeakerID string  `json:"speaker_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}
