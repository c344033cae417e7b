package rest

import (
	"context"
	"testing"

	deps "github.com/cityline/cityline_api/internal/debs"
	"github.com/cityline/cityline_api/util/storage"
	"github.com/stretchr/testify/assert"
)

type fakePhotoStore struct {
	urls map[string]string
}

func (f *fakePhotoStore) UploadImage(_ context.Context, filePath, folder string) (string, error) {
	return "", nil
}

func (f *fakePhotoStore) VerifyImage(_ context.Context, publicID string) (string, error) {
	url, ok := f.urls[publicID]
	if !ok {
		return "", storage.ErrPhotoNotFound
	}
	return url, nil
}

func TestVerifyPhotoKeysDropsUnknown(t *testing.T) {
	api := &API{
		Deps: &deps.Dependencies{
			Photos: &fakePhotoStore{urls: map[string]string{
				"reports/abc123": "https://res.example.com/reports/abc123.jpg",
			}},
		},
	}

	urls := api.verifyPhotoKeys(context.Background(), []string{
		"reports/abc123",
		"reports/missing",
		"  ",
	})

	assert.Equal(t, []string{"https://res.example.com/reports/abc123.jpg"}, urls)
}

func TestVerifyPhotoKeysEmpty(t *testing.T) {
	api := &API{Deps: &deps.Dependencies{Photos: &fakePhotoStore{}}}

	assert.Nil(t, api.verifyPhotoKeys(context.Background(), nil))
}
