package storage

import (
	"context"
	"errors"
	"log"

	"github.com/cityline/cityline_api/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrPhotoNotFound = errors.New("photo not found in store")

// PhotoStore abstracts the hosted photo library so report workflows can
// verify references before persisting them.
type PhotoStore interface {
	UploadImage(ctx context.Context, filePath string, folder string) (string, error)
	VerifyImage(ctx context.Context, publicID string) (string, error)
}

type Cloudinary struct {
	CLD *cloudinary.Cloudinary
}

func NewCloudinary(cfg *config.Config) *Cloudinary {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}

	return &Cloudinary{CLD: cld}
}

func (c *Cloudinary) UploadImage(ctx context.Context, filePath string, folder string) (string, error) {
	resp, err := c.CLD.Upload.Upload(ctx, filePath, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// VerifyImage confirms an uploaded asset exists and returns its public
// URL. Callers drop references that fail verification.
func (c *Cloudinary) VerifyImage(ctx context.Context, publicID string) (string, error) {
	asset, err := c.CLD.Admin.Asset(ctx, admin.AssetParams{PublicID: publicID})
	if err != nil {
		return "", err
	}
	if asset == nil || asset.SecureURL == "" {
		return "", ErrPhotoNotFound
	}
	return asset.SecureURL, nil
}
