package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Uploader writes listing images to the Firebase storage bucket and returns
// public download URLs.
type Uploader struct {
	client *gcs.Client
	bucket string
}

func NewUploader(ctx context.Context, bucket string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}

// UploadListingImage stores the image under listing-images/<uuid>.<ext> with a
// Firebase download token and returns the public URL.
func (u *Uploader) UploadListingImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	ext := ""
	if dot := strings.LastIndex(filename, "."); dot >= 0 {
		ext = strings.ToLower(filename[dot:])
	}
	objectPath := fmt.Sprintf("listing-images/%s%s", uuid.NewString(), ext)
	token := uuid.NewString()

	w := u.client.Bucket(u.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, url.PathEscape(objectPath), token)
	return publicURL, nil
}
