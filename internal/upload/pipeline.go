// Package upload pushes locally selected image files to object storage and returns the
// resulting image URL list.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"atelier/internal/apperrors"
	"atelier/pkg/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// File is one locally selected file waiting to be uploaded.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader adapts a multipart upload.
func FromFileHeader(fh *multipart.FileHeader) File {
	return File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ErrNoPublicURL is reported when the store accepted an object but cannot address it.
var ErrNoPublicURL = errors.New("storage returned no public URL")

// Pipeline uploads files into one bucket under one path prefix.
type Pipeline struct {
	store  storage.ObjectStore
	bucket string
	prefix string
	now    func() time.Time
	token  func() string
	log    zerolog.Logger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source used in object paths.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// WithTokens overrides the random token source used in object paths.
func WithTokens(token func() string) Option { return func(p *Pipeline) { p.token = token } }

// New creates a Pipeline for bucket, storing objects under prefix.
func New(store storage.ObjectStore, bucket, prefix string, log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
		token:  randomToken,
		log:    log.With().Str("component", "upload").Str("bucket", bucket).Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// extension returns the text after the last dot, or the whole name when it has none.
func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ObjectPath derives <prefix>/<unix-millis>-<token>.<ext> for a file name.
func (p *Pipeline) ObjectPath(name string) string {
	return fmt.Sprintf("%s/%d-%s.%s", p.prefix, p.now().UnixMilli(), p.token(), extension(name))
}

// Upload sends files one after the other and returns existing followed by the public URL
// of every file uploaded. On the first failure it stops and returns what it has so far
// together with an *apperrors.UploadError. Objects already stored are left in place.
func (p *Pipeline) Upload(ctx context.Context, existing []string, files []File) ([]string, error) {
	urls := make([]string, 0, len(existing)+len(files))
	urls = append(urls, existing...)

	for _, f := range files {
		objectPath := p.ObjectPath(f.Name)
		if err := p.put(ctx, objectPath, f); err != nil {
			p.log.Error().Err(err).Str("path", objectPath).Msg("image upload failed")
			return urls, &apperrors.UploadError{Path: objectPath, Err: err}
		}
		url := p.store.PublicURL(p.bucket, objectPath)
		if url == "" {
			p.log.Error().Str("path", objectPath).Msg("no public URL for uploaded image")
			return urls, &apperrors.UploadError{Path: objectPath, Err: ErrNoPublicURL}
		}
		urls = append(urls, url)
		p.log.Debug().Str("path", objectPath).Msg("image uploaded")
	}
	return urls, nil
}

func (p *Pipeline) put(ctx context.Context, objectPath string, f File) error {
	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer r.Close()
	return p.store.Upload(ctx, p.bucket, objectPath, r, f.Size, f.ContentType)
}
