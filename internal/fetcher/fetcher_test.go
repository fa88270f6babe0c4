package fetcher

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoodiarize/internal/utils"
)

func newTestFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(timeout, maxBytes, log)
}

func TestFetchOK(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(2*time.Second, 1<<20)
	buf, err := f.Fetch(context.Background(), srv.URL+"/clip.mp3")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !bytes.Equal(buf.Data, payload) {
		t.Error("downloaded bytes differ from served bytes")
	}
	if buf.ContentType != "audio/mpeg" {
		t.Errorf("ContentType = %q, want audio/mpeg", buf.ContentType)
	}
}

func TestFetchRejectsBadURLs(t *testing.T) {
	f := newTestFetcher(time.Second, 1<<20)

	for _, raw := range []string{
		"ftp://example.com/a.mp3",
		"file:///etc/passwd",
		"not a url at all\x7f",
		"/relative/path.mp3",
		"",
	} {
		_, err := f.Fetch(context.Background(), raw)
		if !utils.IsCode(err, utils.CodeInvalidInput) {
			t.Errorf("Fetch(%q) error = %v, want INVALID_INPUT", raw, err)
		}
	}
}

func TestFetchNonExistentHost(t *testing.T) {
	f := newTestFetcher(5*time.Second, 1<<20)

	_, err := f.Fetch(context.Background(), "http://nonexistent.invalid/audio.mp3")
	if !utils.IsCode(err, utils.CodeFetchFailed) {
		t.Errorf("error = %v, want FETCH_FAILED", err)
	}
}

func TestFetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := newTestFetcher(time.Second, 1<<20)
	_, err := f.Fetch(context.Background(), srv.URL)
	if !utils.IsCode(err, utils.CodeFetchFailed) {
		t.Errorf("error = %v, want FETCH_FAILED", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	f := newTestFetcher(100*time.Millisecond, 1<<20)
	start := time.Now()
	_, err := f.Fetch(context.Background(), srv.URL)
	if !utils.IsCode(err, utils.CodeFetchTimeout) {
		t.Fatalf("error = %v, want FETCH_TIMEOUT", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v, budget was 100ms", elapsed)
	}
}

func TestFetchOversizeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{0x01}, 4096))
	}))
	defer srv.Close()

	f := newTestFetcher(time.Second, 1024)
	_, err := f.Fetch(context.Background(), srv.URL)
	if !utils.IsCode(err, utils.CodeFetchFailed) {
		t.Errorf("error = %v, want FETCH_FAILED for oversize body", err)
	}
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newTestFetcher(time.Second, 1<<20)
	_, err := f.Fetch(context.Background(), srv.URL)
	if !utils.IsCode(err, utils.CodeFetchFailed) {
		t.Errorf("error = %v, want FETCH_FAILED for empty body", err)
	}
}
