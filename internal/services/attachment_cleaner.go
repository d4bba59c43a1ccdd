package services

import (
	"context"
	"sync"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/storage"

	"golang.org/x/sync/errgroup"
)

const defaultCleanupConcurrency = 4

// CleanupReport summarises a best-effort storage cleanup.
type CleanupReport struct {
	Attempted int
	Deleted   int
	Failures  []dto.CleanupFailure
}

// AttachmentCleaner deletes stored objects after their records are gone.
// One failing object never stops the others.
type AttachmentCleaner struct {
	storage     storage.Storage
	concurrency int
}

func NewAttachmentCleaner(store storage.Storage, concurrency int) *AttachmentCleaner {
	if concurrency <= 0 {
		concurrency = defaultCleanupConcurrency
	}
	return &AttachmentCleaner{storage: store, concurrency: concurrency}
}

func (c *AttachmentCleaner) Clean(ctx context.Context, descs []models.AttachmentDescriptor) CleanupReport {
	var (
		mu     sync.Mutex
		report CleanupReport
	)

	// errgroup.WithContext would cancel the siblings on the first failure,
	// so a plain group is used and every goroutine returns nil.
	var g errgroup.Group
	g.SetLimit(c.concurrency)

	seen := make(map[string]struct{}, len(descs))
	for _, desc := range descs {
		key := desc.StorageID
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		report.Attempted++

		g.Go(func() error {
			start := time.Now()
			err := c.storage.Delete(ctx, key)
			logger.StorageLog("cleanup", key, time.Since(start), err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, dto.CleanupFailure{StorageID: key, Error: err.Error()})
				return nil
			}
			report.Deleted++
			return nil
		})
	}
	_ = g.Wait()

	if len(report.Failures) > 0 {
		logger.CtxWarn(ctx, "Attachment cleanup finished with failures",
			"attempted", report.Attempted,
			"deleted", report.Deleted,
			"failed", len(report.Failures),
		)
	}
	return report
}

func flattenDocuments(docs []models.ApplicationDocuments) []models.AttachmentDescriptor {
	var out []models.AttachmentDescriptor
	for _, d := range docs {
		out = append(out, d.All()...)
	}
	return out
}
