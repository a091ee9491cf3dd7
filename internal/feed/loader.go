package feed

import (
	"bytes"
	"fmt"

	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// SignatureSuffix is appended to a feed URL to locate its detached signature
const SignatureSuffix = ".asc"

// Fetcher retrieves the content of a URL
type Fetcher interface {
	Fetch(j *job.Job, url string) ([]byte, error)
}

// Verifier checks a detached signature of data
type Verifier interface {
	Verify(data, signature []byte) error
}

// Loader downloads and parses feeds
type Loader struct {
	fetcher  Fetcher
	verifier Verifier
}

// NewLoader creates a loader. When verifier is not nil every feed must come
// with a valid detached signature.
func NewLoader(f Fetcher, v Verifier) *Loader {
	return &Loader{
		fetcher:  f,
		verifier: v,
	}
}

// Load downloads, verifies, decompresses and parses one feed. The job is
// completed before returning and carries the error message on failure.
func (l *Loader) Load(j *job.Job, feedURL string) (*models.Feed, error) {
	f, err := l.load(j, feedURL)
	if err != nil && !models.IsType(err, models.ErrCancelled) {
		j.Fail(err)
	}
	j.Complete()
	return f, err
}

func (l *Loader) load(j *job.Job, feedURL string) (*models.Feed, error) {
	j.SetHint("Downloading")
	data, err := l.fetch(j, 0.8, feedURL)
	if models.IsType(err, models.ErrCancelled) {
		return nil, err
	}
	if err != nil {
		return nil, &models.EngineError{
			Type:    models.ErrSourceUnavailable,
			Package: feedURL,
			Err:     fmt.Errorf("download failed: %w", err),
		}
	}
	if j.IsCancelled() {
		return nil, models.Errorf(models.ErrCancelled, feedURL, "cancelled")
	}

	if l.verifier != nil {
		j.SetHint("Verifying the signature")
		sig, err := l.fetch(j, 0.1, feedURL+SignatureSuffix)
		if models.IsType(err, models.ErrCancelled) {
			return nil, err
		}
		if err != nil {
			return nil, &models.EngineError{
				Type:    models.ErrSignature,
				Package: feedURL,
				Err:     fmt.Errorf("signature download failed: %w", err),
			}
		}
		if err := l.verifier.Verify(data, sig); err != nil {
			return nil, &models.EngineError{Type: models.ErrSignature, Package: feedURL, Err: err}
		}
		logrus.Debugf("Signature of %s verified", feedURL)
	}
	if j.IsCancelled() {
		return nil, models.Errorf(models.ErrCancelled, feedURL, "cancelled")
	}

	data, err = utils.Decompress(data)
	if err != nil {
		return nil, &models.EngineError{
			Type:    models.ErrFormat,
			Package: feedURL,
			Err:     fmt.Errorf("decompression failed: %w", err),
		}
	}

	j.SetHint("Parsing the content")
	f, err := Parse(bytes.NewReader(data), feedURL)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (l *Loader) fetch(j *job.Job, weight float64, url string) ([]byte, error) {
	var data []byte
	var err error
	j.Run(weight, func(sub *job.Job) {
		data, err = l.fetcher.Fetch(sub, url)
		if !models.IsType(err, models.ErrCancelled) {
			sub.Fail(err)
		}
	})
	return data, err
}
