package catalog

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// File is one uploaded image.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Upload stores product images and returns their public URLs.
func (s *Service) Upload(ctx context.Context, files []File) ([]string, error) {
	_, span := serviceTracer.Start(ctx, "CatalogService.Upload")
	defer span.End()

	if len(files) == 0 {
		return nil, errorbank.BadRequest("no images uploaded")
	}
	if len(files) > s.uploads.MaxFiles {
		return nil, errorbank.BadRequest("too many images", errorbank.WithDetail("max", s.uploads.MaxFiles))
	}

	type accepted struct {
		data []byte
		ext  string
	}
	images := make([]accepted, 0, len(files))
	for _, f := range files {
		if f.Size > s.uploads.MaxBytes {
			return nil, errorbank.TooLarge("image too large", errorbank.WithDetails(map[string]any{
				"file":      f.Name,
				"max_bytes": s.uploads.MaxBytes,
			}))
		}
		data, err := io.ReadAll(io.LimitReader(f.Reader, s.uploads.MaxBytes+1))
		if err != nil {
			return nil, errorbank.BadRequest("could not read image", errorbank.WithCause(err))
		}
		if int64(len(data)) > s.uploads.MaxBytes {
			return nil, errorbank.TooLarge("image too large", errorbank.WithDetail("file", f.Name))
		}
		mime := mimetype.Detect(data)
		if !mimetype.EqualsAny(mime.String(), allowedImageTypes...) {
			return nil, errorbank.BadRequest("only jpeg, png and webp images are accepted", errorbank.WithDetails(map[string]any{
				"file": f.Name,
				"type": mime.String(),
			}))
		}
		images = append(images, accepted{data: data, ext: mime.Extension()})
	}

	if err := os.MkdirAll(s.uploads.Dir, 0o755); err != nil {
		return nil, errorbank.Internal("failed to prepare upload directory", errorbank.WithCause(err))
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		name := fmt.Sprintf("product-%d-%d%s", time.Now().UnixMilli(), rand.Int64N(1_000_000_000), img.ext)
		if err := os.WriteFile(filepath.Join(s.uploads.Dir, name), img.data, 0o644); err != nil {
			s.logger.Error("write upload", zap.String("file", name), zap.Error(err))
			return nil, errorbank.Internal("failed to store image", errorbank.WithCause(err))
		}
		urls = append(urls, s.uploads.URLPrefix+name)
	}
	s.logger.Info("product images uploaded", zap.Int("count", len(urls)))
	return urls, nil
}
