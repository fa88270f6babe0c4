package diarization

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoodiarize/internal/audio"
	"github.com/yoockh/yoodiarize/internal/utils"
)

type stubProvider struct {
	segs  []Segment
	err   error
	panic bool

	inFlight int32
	overlap  int32
}

func (s *stubProvider) Name() string                     { return "stub" }
func (s *stubProvider) IsAvailable(context.Context) bool { return true }
func (s *stubProvider) Close() error                     { return nil }
func (s *stubProvider) Diarize(ctx context.Context, d *audio.DecodedAudio) ([]Segment, error) {
	if atomic.AddInt32(&s.inFlight, 1) > 1 {
		atomic.AddInt32(&s.overlap, 1)
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(&s.inFlight, -1)

	if s.panic {
		panic("model state corrupted")
	}
	return s.segs, s.err
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func clip() *audio.DecodedAudio {
	return &audio.DecodedAudio{Samples: make([]int16, 16000), SampleRate: 16000}
}

func TestEngineDiarizeOK(t *testing.T) {
	want := []Segment{
		{Speaker: "SPEAKER_00", Start: 0, End: 4.2},
		{Speaker: "SPEAKER_01", Start: 4.2, End: 10},
	}
	e := NewEngine(&stubProvider{segs: want}, testLogger())

	got, err := e.Diarize(context.Background(), clip())
	if err != nil {
		t.Fatalf("Diarize failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got), len(want))
	}
}

func TestEngineWrapsBackendError(t *testing.T) {
	e := NewEngine(&stubProvider{err: errors.New("cuda out of memory")}, testLogger())

	_, err := e.Diarize(context.Background(), clip())
	if !utils.IsCode(err, utils.CodeInferenceFailed) {
		t.Errorf("error = %v, want INFERENCE_FAILED", err)
	}
}

func TestEngineRejectsMalformedIntervals(t *testing.T) {
	for _, segs := range [][]Segment{
		{{Speaker: "SPEAKER_00", Start: 5, End: 5}},  // empty interval
		{{Speaker: "SPEAKER_00", Start: 7, End: 3}},  // inverted
		{{Speaker: "SPEAKER_00", Start: -1, End: 2}}, // negative start
	} {
		e := NewEngine(&stubProvider{segs: segs}, testLogger())
		_, err := e.Diarize(context.Background(), clip())
		if !utils.IsCode(err, utils.CodeInferenceFailed) {
			t.Errorf("segments %+v: error = %v, want INFERENCE_FAILED", segs, err)
		}
	}
}

func TestEngineRecoversPanic(t *testing.T) {
	e := NewEngine(&stubProvider{panic: true}, testLogger())

	segs, err := e.Diarize(context.Background(), clip())
	if !utils.IsCode(err, utils.CodeInferenceFailed) {
		t.Errorf("error = %v, want INFERENCE_FAILED", err)
	}
	if segs != nil {
		t.Error("no partial segments should survive a backend panic")
	}
}

func TestEngineSerializesCalls(t *testing.T) {
	p := &stubProvider{segs: []Segment{{Speaker: "SPEAKER_00", Start: 0, End: 1}}}
	e := NewEngine(p, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Diarize(context.Background(), clip()); err != nil {
				t.Errorf("Diarize failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&p.overlap); n != 0 {
		t.Errorf("backend saw %d overlapping calls, want 0", n)
	}
}
