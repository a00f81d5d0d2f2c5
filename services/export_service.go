package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/sri-maddineni/college-shortlister/model"
	"github.com/sri-maddineni/college-shortlister/services/export"
	"github.com/sri-maddineni/college-shortlister/services/query"
	"github.com/sri-maddineni/college-shortlister/utils/cache"
)

// ErrStorageDisabled is returned by Share when no object storage is configured
var ErrStorageDisabled = errors.New("object storage is not configured")

// ExportCache keeps rendered documents between identical requests
type ExportCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Uploader publishes rendered documents and returns their public URL
type Uploader interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ExportServiceConfig wires the optional collaborators of the export service
type ExportServiceConfig struct {
	Cache    ExportCache
	CacheTTL time.Duration
	Uploader Uploader
	Options  export.Options
}

// ExportService renders filtered record views into documents
type ExportService struct {
	records  *RecordService
	cache    ExportCache
	cacheTTL time.Duration
	uploader Uploader
	opts     export.Options
}

// NewExportService creates a new export service
func NewExportService(records *RecordService, cfg ExportServiceConfig) *ExportService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.Options.Now == nil {
		cfg.Options.Now = time.Now
	}
	return &ExportService{
		records:  records,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		uploader: cfg.Uploader,
		opts:     cfg.Options,
	}
}

// SharingEnabled reports whether Share can publish documents
func (s *ExportService) SharingEnabled() bool {
	return s.uploader != nil
}

// cachedDocument is the cache representation of a rendered document
type cachedDocument struct {
	export.Document
	Bytes []byte `json:"bytes"`
}

// Export renders the records matching the criteria, in their view order
func (s *ExportService) Export(ctx context.Context, format export.Format, criteria query.Criteria) (*export.Document, error) {
	records, err := s.records.List(ctx, criteria)
	if err != nil {
		return nil, err
	}
	snapshot := model.Snapshot(records)

	key, err := s.cacheKey(format, snapshot)
	if err != nil {
		return nil, err
	}
	if doc, ok := s.fromCache(ctx, key); ok {
		return doc, nil
	}

	doc, err := export.Render(ctx, format, snapshot, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}
	for _, w := range doc.Warnings {
		log.Printf("Export %s: %s", format, w)
	}

	s.toCache(ctx, key, doc)
	return doc, nil
}

// SharedExport is a document published to object storage
type SharedExport struct {
	URL      string    `json:"url"`
	Key      string    `json:"key"`
	Filename string    `json:"filename"`
	Records  int       `json:"records"`
	SharedAt time.Time `json:"sharedAt"`
}

// Object storage prefixes of published documents
const (
	SharePrefix    = "shares/"
	SnapshotPrefix = "snapshots/"
)

// Share renders the view and uploads it to object storage
func (s *ExportService) Share(ctx context.Context, format export.Format, criteria query.Criteria) (*SharedExport, error) {
	return s.publish(ctx, SharePrefix, format, criteria)
}

// Snapshot publishes the whole shortlist as a PDF in deadline order
func (s *ExportService) Snapshot(ctx context.Context) (*SharedExport, error) {
	return s.publish(ctx, SnapshotPrefix, export.FormatPDF, query.Criteria{}.WithDefaultSort())
}

func (s *ExportService) publish(ctx context.Context, prefix string, format export.Format, criteria query.Criteria) (*SharedExport, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}

	doc, err := s.Export(ctx, format, criteria)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now().UTC()
	key := fmt.Sprintf("%s%s/%s", prefix, now.Format("20060102-150405"), doc.Filename)
	url, err := s.uploader.UploadBytes(ctx, key, doc.Bytes, doc.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", doc.Filename, err)
	}

	log.Printf("Published %s (%d records) at %s", doc.Filename, doc.Records, url)
	return &SharedExport{URL: url, Key: key, Filename: doc.Filename, Records: doc.Records, SharedAt: now}, nil
}

// cacheKey identifies a rendering by its format, title and exact input
func (s *ExportService) cacheKey(format export.Format, snapshot []model.Record) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to hash export input: %w", err)
	}
	h := xxh3.New()
	h.WriteString(string(format))
	h.WriteString("\x00")
	h.WriteString(s.opts.Title)
	h.WriteString("\x00")
	h.Write(data)
	return fmt.Sprintf("export:%s:%016x", format, h.Sum64()), nil
}

func (s *ExportService) fromCache(ctx context.Context, key string) (*export.Document, bool) {
	if s.cache == nil {
		return nil, false
	}
	var cached cachedDocument
	if err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Printf("Warning: export cache read failed: %v", err)
		}
		return nil, false
	}
	doc := cached.Document
	doc.Bytes = cached.Bytes
	return &doc, true
}

func (s *ExportService) toCache(ctx context.Context, key string, doc *export.Document) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, cachedDocument{Document: *doc, Bytes: doc.Bytes}, s.cacheTTL); err != nil {
		log.Printf("Warning: export cache write failed: %v", err)
	}
}
