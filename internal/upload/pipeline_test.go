package upload_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/upload"
	"atelier/pkg/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name, body string) upload.File {
	return upload.File{
		Name:        name,
		Size:        int64(len(body)),
		ContentType: "image/jpeg",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

// failingStore rejects the n-th upload (1-based) and every one after it.
type failingStore struct {
	*storage.MemoryStore
	failFrom int
	calls    int
}

func (s *failingStore) Upload(ctx context.Context, bucket, path string, r io.Reader, size int64, ct string) error {
	s.calls++
	if s.calls >= s.failFrom {
		return errors.New("The resource already exists")
	}
	return s.MemoryStore.Upload(ctx, bucket, path, r, size, ct)
}

func fixedPipeline(store storage.ObjectStore) *upload.Pipeline {
	n := 0
	return upload.New(store, "product-images", "products", zerolog.Nop(),
		upload.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
		upload.WithTokens(func() string { n++; return fmt.Sprintf("tok%d", n) }),
	)
}

func TestObjectPath(t *testing.T) {
	p := fixedPipeline(storage.NewMemoryStore(""))
	assert.Equal(t, "products/1700000000000-tok1.jpg", p.ObjectPath("shirt.front.jpg"))
	assert.Equal(t, "products/1700000000000-tok2.README", p.ObjectPath("README"))
}

func TestRandomTokensDiffer(t *testing.T) {
	p := upload.New(storage.NewMemoryStore(""), "b", "blog", zerolog.Nop())
	a, b := p.ObjectPath("a.png"), p.ObjectPath("a.png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "blog/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
}

func TestUploadAppendsAfterExistingInOrder(t *testing.T) {
	store := storage.NewMemoryStore("http://cdn")
	p := fixedPipeline(store)

	urls, err := p.Upload(context.Background(), []string{"http://old/1.jpg", "http://old/2.jpg"},
		[]upload.File{file("a.jpg", "A"), file("b.png", "B")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://old/1.jpg",
		"http://old/2.jpg",
		"http://cdn/product-images/products/1700000000000-tok1.jpg",
		"http://cdn/product-images/products/1700000000000-tok2.png",
	}, urls)

	data, ok := store.Object("product-images", "products/1700000000000-tok2.png")
	assert.True(t, ok)
	assert.Equal(t, "B", string(data))
}

func TestUploadPartialFailureKeepsSucceededSubset(t *testing.T) {
	existing := []string{"e1", "e2", "e3"}
	for failFrom := 1; failFrom <= 4; failFrom++ {
		store := &failingStore{MemoryStore: storage.NewMemoryStore(""), failFrom: failFrom}
		files := []upload.File{file("1.jpg", "1"), file("2.jpg", "2"), file("3.jpg", "3")}

		urls, err := fixedPipeline(store).Upload(context.Background(), existing, files)

		succeeded := failFrom - 1
		if succeeded > len(files) {
			succeeded = len(files)
		}
		assert.Len(t, urls, len(existing)+succeeded)
		assert.Equal(t, existing, urls[:len(existing)])
		// No rollback of what already went through.
		assert.Equal(t, succeeded, store.Len())

		if failFrom <= len(files) {
			var ue *apperrors.UploadError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, "The resource already exists", errors.Unwrap(ue).Error())
			// Sequential, stops at first failure, no retry.
			assert.Equal(t, failFrom, store.calls)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestUploadOpenFailure(t *testing.T) {
	p := fixedPipeline(storage.NewMemoryStore(""))
	broken := upload.File{Name: "x.jpg", Open: func() (io.ReadCloser, error) { return nil, errors.New("gone") }}

	urls, err := p.Upload(context.Background(), nil, []upload.File{broken})
	assert.Empty(t, urls)
	var ue *apperrors.UploadError
	assert.ErrorAs(t, err, &ue)
}

func TestUploadWithoutFilesReturnsCopyOfExisting(t *testing.T) {
	existing := []string{"a"}
	urls, err := fixedPipeline(storage.NewMemoryStore("")).Upload(context.Background(), existing, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, urls)
	urls[0] = "changed"
	assert.Equal(t, "a", existing[0])
}

// unaddressableStore stores objects but cannot build a URL for them.
type unaddressableStore struct {
	*storage.MemoryStore
}

func (unaddressableStore) PublicURL(string, string) string { return "" }

func TestUploadWithoutPublicURLIsAnUploadError(t *testing.T) {
	store := unaddressableStore{storage.NewMemoryStore("")}
	p := fixedPipeline(store)

	urls, err := p.Upload(context.Background(), []string{"u1"}, []upload.File{file("a.jpg", "a"), file("b.jpg", "b")})

	var uploadErr *apperrors.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.ErrorIs(t, err, upload.ErrNoPublicURL)
	assert.Equal(t, "products/1700000000000-tok1.jpg", uploadErr.Path)
	assert.Equal(t, []string{"u1"}, urls, "no empty URL is recorded")
}
