package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

const MaxImageSize = 5 << 20

var (
	ErrUnsupportedImage = errors.New("only jpeg, png, webp and gif images are allowed")
	ErrImageTooLarge    = errors.New("image exceeds 5MB")
	ErrStorageDisabled  = errors.New("image storage is not configured")
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore uploads course thumbnails and avatars and returns a public URL.
type ImageStore interface {
	UploadImage(fileHeader *multipart.FileHeader, folder string) (string, error)
}

type SupabaseStorage struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

// NewSupabaseStorage returns nil when url or key is empty.
func NewSupabaseStorage(supabaseURL, key, bucket string) *SupabaseStorage {
	supabaseURL = strings.TrimRight(supabaseURL, "/")
	if supabaseURL == "" || key == "" {
		return nil
	}
	return &SupabaseStorage{
		client:  storage.NewClient(supabaseURL+"/storage/v1", key, nil),
		baseURL: supabaseURL,
		bucket:  bucket,
	}
}

// ValidateImage checks size and declared content type and returns the file extension.
func ValidateImage(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	ext, ok := imageTypes[fileHeader.Header.Get("Content-Type")]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}

// UploadImage stores the file under <bucket>/<folder>/<uuid><ext>.
func (s *SupabaseStorage) UploadImage(fileHeader *multipart.FileHeader, folder string) (string, error) {
	if s == nil {
		return "", ErrStorageDisabled
	}
	ext, err := ValidateImage(fileHeader)
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	objectPath := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+ext))
	contentType := fileHeader.Header.Get("Content-Type")
	if _, err := s.client.UploadFile(s.bucket, objectPath, &buf, storage.FileOptions{ContentType: &contentType}); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath), nil
}
