package services

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// Image upload limits.
const (
	MaxImagesPerProduct = 10
	MaxImageBytes       = 5 << 20 // 5 MiB per file
)

// extByMIME maps the accepted image content types to the stored extension.
// Anything outside this list is rejected before any byte hits the disk.
var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageUpload is one file from the multipart submission.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// ImageService stores product images on the configured disk.
type ImageService struct {
	disk storage.Disk
}

func NewImageService(disk storage.Disk) *ImageService {
	return &ImageService{disk: disk}
}

// Validate checks count, size, and content type of every file without
// touching storage. Content type is sniffed from the payload, not trusted
// from the submitted filename.
func (s *ImageService) Validate(files []ImageUpload) []FieldError {
	var details []FieldError

	if len(files) > MaxImagesPerProduct {
		details = append(details, FieldError{
			Field:   "images",
			Message: fmt.Sprintf("A product may have at most %d images.", MaxImagesPerProduct),
		})
		return details
	}

	for i, f := range files {
		field := fmt.Sprintf("images.%d", i)
		if len(f.Content) == 0 {
			details = append(details, FieldError{Field: field, Message: "The image file is empty."})
			continue
		}
		if len(f.Content) > MaxImageBytes {
			details = append(details, FieldError{
				Field:   field,
				Message: fmt.Sprintf("The image must not be larger than %d MB.", MaxImageBytes>>20),
			})
			continue
		}
		if _, ok := extByMIME[sniffMIME(f.Content)]; !ok {
			details = append(details, FieldError{
				Field:   field,
				Message: "The image must be a jpeg, png, webp, or gif file.",
			})
		}
	}
	return details
}

// Upload writes the files sequentially under products/<productID>/ and
// returns their public URLs in submission order. On failure it returns the
// paths already written so the caller can compensate.
func (s *ImageService) Upload(ctx context.Context, productID string, files []ImageUpload) (urls, paths []string, err error) {
	for i, f := range files {
		ext := extByMIME[sniffMIME(f.Content)]
		if ext == "" {
			ext = strings.ToLower(path.Ext(f.Filename))
		}
		objectPath := fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), ext)

		if putErr := s.disk.Put(ctx, objectPath, f.Content); putErr != nil {
			return nil, paths, &UploadError{Index: i, Err: putErr}
		}

		paths = append(paths, objectPath)
		urls = append(urls, s.disk.URL(objectPath))
		metrics.ImagesUploaded.Inc()
	}
	return urls, paths, nil
}

// Remove deletes the given object paths, logging failures instead of
// returning them. Used only by the compensator.
func (s *ImageService) Remove(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.disk.Delete(ctx, p); err != nil {
			metrics.CompensationFailures.WithLabelValues("storage").Inc()
			logger.Error("images: compensation delete failed", "path", p, "error", err)
		}
	}
}

func sniffMIME(content []byte) string {
	mime := http.DetectContentType(content)
	// DetectContentType may append parameters ("text/plain; charset=utf-8").
	if idx := strings.Index(mime, ";"); idx != -1 {
		mime = mime[:idx]
	}
	return strings.TrimSpace(mime)
}
