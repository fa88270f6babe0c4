package fetcher

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoodiarize/internal/models"
	"github.com/yoockh/yoodiarize/internal/utils"
)

// Fetcher downloads source audio into memory under a wall-clock budget.
// It is a generic bounded downloader: content inspection is the validator's
// job, so nothing here looks at the bytes beyond counting them.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	log      *logrus.Logger
}

func New(timeout time.Duration, maxBytes int64, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{},
		timeout:  timeout,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Fetch downloads rawURL and returns the full buffer, or a typed error:
// INVALID_INPUT for a malformed / non-HTTP(S) URL, FETCH_TIMEOUT when the
// budget is exceeded, FETCH_FAILED for any other transport or status
// failure. No partial buffer is ever returned.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.AudioBuffer, error) {
	const op = "Fetcher.Fetch"

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidInput, op, "url is not well-formed", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, utils.E(utils.CodeInvalidInput, op, "url must be an absolute http(s) url", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidInput, op, "failed to build request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, utils.E(utils.CodeFetchTimeout, op, "download request timed out", err)
		}
		return nil, utils.E(utils.CodeFetchFailed, op, "failed to download audio", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.E(utils.CodeFetchFailed, op, "origin returned "+resp.Status, nil)
	}

	// Read one byte past the cap so an oversize body is distinguishable
	// from one that is exactly at it.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if isTimeout(err) {
			return nil, utils.E(utils.CodeFetchTimeout, op, "download timed out mid-transfer", err)
		}
		return nil, utils.E(utils.CodeFetchFailed, op, "failed to read audio body", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, utils.E(utils.CodeFetchFailed, op, "audio exceeds the download size limit", nil)
	}
	if len(body) == 0 {
		return nil, utils.E(utils.CodeFetchFailed, op, "empty audio body", nil)
	}

	f.log.WithFields(logrus.Fields{
		"url":   u.Redacted(),
		"bytes": len(body),
	}).Debug("audio downloaded")

	return &models.AudioBuffer{
		Data:        body,
		ContentType: resp.Header.Get("Content-Type"),
		SourceURL:   u.String(),
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
