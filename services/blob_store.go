package services

import (
	"context"
	"fmt"
	"strings"

	appConfig "github.com/kendall-kelly/ganges-support-api/config"
	"github.com/kendall-kelly/ganges-support-api/utils"
)

// attachmentPrefix is the object key prefix used by the bucket backends
const attachmentPrefix = "attachments/"

// BlobStore stores uploaded attachment bytes and hands back a URL for them
type BlobStore interface {
	// Upload stores content under key and returns the URL it can be fetched from
	Upload(ctx context.Context, key string, content []byte, contentType string) (string, error)
}

var blobStoreInstance BlobStore

// InitBlobStore initializes the blob store selected by BLOB_BACKEND
func InitBlobStore(ctx context.Context, cfg *appConfig.Config) (BlobStore, error) {
	var (
		blobs BlobStore
		err   error
	)

	switch cfg.BlobBackend {
	case appConfig.BlobBackendS3:
		blobs, err = NewS3Service(ctx, cfg)
	case appConfig.BlobBackendMinio:
		blobs, err = NewMinioBlobStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	case appConfig.BlobBackendLocal, "":
		blobs = NewLocalBlobStore(cfg.UploadDir, cfg.PublicBaseURL)
	default:
		err = fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
	if err != nil {
		return nil, err
	}

	blobStoreInstance = blobs
	return blobs, nil
}

// GetBlobStore returns the initialized blob store instance
func GetBlobStore() BlobStore {
	return blobStoreInstance
}

// SetBlobStore sets the blob store instance (primarily for testing)
func SetBlobStore(blobs BlobStore) {
	blobStoreInstance = blobs
}

// LocalBlobStore keeps attachments on the local filesystem and serves them through
// GET /api/v1/uploads/:filename
type LocalBlobStore struct {
	dir     string
	baseURL string
}

// NewLocalBlobStore creates a local blob store rooted at dir. baseURL is prepended to
// the returned upload path and may be empty for relative URLs.
func NewLocalBlobStore(dir, baseURL string) *LocalBlobStore {
	if dir == "" {
		dir = utils.UploadDir
	}
	return &LocalBlobStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload writes the file to disk
func (s *LocalBlobStore) Upload(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := utils.SaveFile(content, s.dir, key); err != nil {
		return "", err
	}
	return s.baseURL + utils.GetUploadURL(key), nil
}
