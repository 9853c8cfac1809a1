package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/blob"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/metrics"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MaxImageSize      = 10 << 20
	MaxImagesPerBatch = 20
	uploadConcurrency = 4
)

// UploadFile is one part of a multipart upload.
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

type UploadService struct {
	blobs blob.Store
	now   func() time.Time
}

func NewUploadService(blobs blob.Store) *UploadService {
	return &UploadService{blobs: blobs, now: time.Now}
}

// UploadImages stores every file concurrently and reports a URL or an error
// per file, in input order. The call itself fails only when no file could be
// stored.
func (s *UploadService) UploadImages(ctx context.Context, ownerID string, files []UploadFile) (*dto.UploadResponse, error) {
	if len(files) == 0 {
		return nil, newValidationError("image", "at least one file is required")
	}
	if len(files) > MaxImagesPerBatch {
		return nil, newValidationError("image", fmt.Sprintf("must have at most %d entries", MaxImagesPerBatch))
	}

	results := make([]dto.UploadResult, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			results[i].Filename = f.Name
			url, err := s.uploadOne(ctx, ownerID, f)
			metrics.ObserveUpload(err == nil)
			if err != nil {
				errs[i] = err
				results[i].Error = uploadErrorMessage(err)
				return nil
			}
			results[i].URL = url
			return nil
		})
	}
	_ = g.Wait()

	resp := &dto.UploadResponse{Files: results}
	var firstErr error
	for i, r := range results {
		if r.URL != "" {
			resp.Uploaded++
			continue
		}
		resp.Failed++
		if firstErr == nil {
			firstErr = errs[i]
		}
		if !errors.Is(errs[i], ErrUploadRejected) {
			slog.Error("image upload failed", "owner_id", ownerID, "operation", "blob_put", "file", r.Filename, "error", errs[i])
		}
	}

	if resp.Uploaded == 0 {
		return resp, firstErr
	}
	slog.Info("images uploaded", "owner_id", ownerID, "uploaded", resp.Uploaded, "failed", resp.Failed)
	return resp, nil
}

// uploadOne stores a file under the owner's prefix.
func (s *UploadService) uploadOne(ctx context.Context, ownerID string, f UploadFile) (string, error) {
	if f.Size > MaxImageSize {
		return "", fmt.Errorf("%w: file exceeds 10MB", ErrUploadRejected)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: unreadable file", ErrUploadRejected)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: unreadable file", ErrUploadRejected)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: file exceeds 10MB", ErrUploadRejected)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrUploadRejected)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: only images are allowed", ErrUploadRejected)
	}

	// extension follows the sniffed type, not the client's filename
	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(f.Name))
	}
	name, err := blob.OwnedName(ownerID, fmt.Sprintf("boat-%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext))
	if err != nil {
		return "", fmt.Errorf("%w: invalid file name", ErrUploadRejected)
	}

	url, err := s.blobs.Put(ctx, name, data, mt.String())
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return url, nil
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUploadRejected):
		return strings.TrimPrefix(err.Error(), ErrUploadRejected.Error()+": ")
	case errors.Is(err, ErrTimeout):
		return ErrTimeout.Error()
	default:
		return ErrUpstreamUnavailable.Error()
	}
}
