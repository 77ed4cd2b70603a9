package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"flowershop/internal/cache"
	"flowershop/internal/importer"
	"flowershop/internal/models"

	"go.uber.org/zap"
)

// CatalogImportedEvent is the routing key published after a committed import.
const CatalogImportedEvent = "catalog.imported"

// ImportService spools uploads, runs the import pipeline and invalidates the
// catalog cache.
type ImportService struct {
	pipeline  *importer.Pipeline
	cache     cache.Cache
	events    EventPublisher
	log       *zap.Logger
	uploadDir string
	defaults  importer.Options
}

// NewImportService creates a new ImportService. events may be nil.
func NewImportService(pipeline *importer.Pipeline, c cache.Cache, events EventPublisher, log *zap.Logger, uploadDir string, defaults importer.Options) *ImportService {
	if log == nil {
		log = zap.NewNop()
	}
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &ImportService{
		pipeline:  pipeline,
		cache:     c,
		events:    events,
		log:       log,
		uploadDir: uploadDir,
		defaults:  defaults,
	}
}

// DefaultOptions returns the options used when a request does not override them.
func (s *ImportService) DefaultOptions() importer.Options {
	return s.defaults
}

// Import stores r in a temporary file, imports it and removes the file on
// every path. The cache is invalidated before Import returns successfully.
func (s *ImportService) Import(ctx context.Context, filename string, r io.Reader, opts importer.Options) (*models.ImportResult, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	if err := importer.CheckFormat(filename); err != nil {
		return nil, err
	}

	spool, err := os.CreateTemp(s.uploadDir, "import-*"+filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() {
		spool.Close()
		if err := os.Remove(spool.Name()); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove upload file", zap.String("path", spool.Name()), zap.Error(err))
		}
	}()

	if _, err := io.Copy(spool, r); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	src, err := importer.SourceFor(filename, spool)
	if err != nil {
		return nil, err
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	result, err := s.pipeline.Run(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := cache.InvalidateCatalog(ctx, s.cache, result.CreatedIDs()); err != nil {
			s.log.Error("cache invalidation after import failed", zap.Error(err))
		}
	}
	s.publish(result)
	return result, nil
}

func (s *ImportService) publish(result *models.ImportResult) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"createdCount": result.CreatedCount,
		"productIds":   result.CreatedIDs(),
		"warnings":     len(result.Warnings),
	})
	if err != nil {
		s.log.Warn("failed to encode import event", zap.Error(err))
		return
	}
	if err := s.events.Publish(CatalogImportedEvent, body); err != nil {
		s.log.Warn("failed to publish import event", zap.Error(err))
	}
}
