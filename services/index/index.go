package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/meghashyamc/sitesearch/db/kvdb"
	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/metrics"
)

const (
	ProgressStatusQueued     = 0
	ProgressStatusDiscovered = 10
	ProgressStatusIndexed    = 90
	ProgressStatusComplete   = 100
	ProgressStatusFailed     = -1

	defaultMaxBuildTime = 2 * time.Hour
)

var ErrBuildInProgress = errors.New("indexing already in progress")

// Options describes one full rebuild.
type Options struct {
	RootPath       string
	BasePath       string // stripped from file paths when building URLs; defaults to RootPath
	BaseURL        string
	Extension      string
	ExcludeFolders []string
}

type Service struct {
	logger        logger.Logger
	tokenizer     *Tokenizer
	analyser      *Analyser
	exporter      Exporter
	metadataStore MetadataStore
	metrics       *metrics.Metrics
	maxBuildTime  time.Duration
	building      atomic.Bool
	buildIndexC   chan indexRequest
}

type indexRequest struct {
	options   Options
	requestID string
}

// New returns a Service. metadataStore and m may be nil, in which case
// progress and build records are not kept and no metrics are recorded.
func New(logger logger.Logger, tokenizer *Tokenizer, exporter Exporter, metadataStore MetadataStore, m *metrics.Metrics) *Service {
	return &Service{
		logger:        logger,
		tokenizer:     tokenizer,
		analyser:      NewAnalyser(DefaultZones()),
		exporter:      exporter,
		metadataStore: metadataStore,
		metrics:       m,
		maxBuildTime:  defaultMaxBuildTime,
		buildIndexC:   make(chan indexRequest, 1),
	}
}

// Start runs the background builder that serves Build requests until ctx is done.
func (s *Service) Start(ctx context.Context, maxBuildTime time.Duration) {
	if maxBuildTime > 0 {
		s.maxBuildTime = maxBuildTime
	}
	go s.build(ctx)
}

// Build queues a full rebuild. Only one rebuild is queued or running at a
// time; a request made meanwhile is rejected with ErrBuildInProgress.
func (s *Service) Build(options Options, requestID string) error {

	if !s.building.CompareAndSwap(false, true) {
		s.logger.Warn("request to index while indexing is already in progress", "request_id", requestID)
		return ErrBuildInProgress
	}

	s.setRequestStatus(requestID, ProgressStatusQueued)

	// This leads to s.rebuild being called
	s.buildIndexC <- indexRequest{options: options, requestID: requestID}

	return nil
}

// GetStatus retrieves the progress status of a build request
func (s *Service) GetStatus(requestID string) (int, error) {
	if s.metadataStore == nil {
		return 0, fmt.Errorf("request not found: %w", kvdb.ErrNotFound)
	}
	value, err := s.metadataStore.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		return 0, fmt.Errorf("request not found: %w", err)
	}

	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid status value: %w", err)
	}

	return status, nil
}

// GetLatestBuild returns the record of the last successful build.
func (s *Service) GetLatestBuild() (*kvdb.BuildRecord, error) {
	if s.metadataStore == nil {
		return nil, fmt.Errorf("no build recorded: %w", kvdb.ErrNotFound)
	}
	value, err := s.metadataStore.Get(kvdb.BuildsBucket, kvdb.LatestBuildKey)
	if err != nil {
		return nil, fmt.Errorf("no build recorded: %w", err)
	}

	var record kvdb.BuildRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		s.logger.Error("failed to unmarshal build record", "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal build record: %w", err)
	}

	return &record, nil
}

// Run performs a full rebuild synchronously and exports the result.
func (s *Service) Run(ctx context.Context, options Options) (*kvdb.BuildRecord, error) {
	return s.rebuild(ctx, options, "")
}

func (s *Service) build(ctx context.Context) {

	for {
		select {
		case req := <-s.buildIndexC:
			buildCtx, cancel := context.WithTimeout(ctx, s.maxBuildTime)
			_, err := s.rebuild(buildCtx, req.options, req.requestID)
			cancel()

			// a client that sees the final status may queue the next build straight away
			s.building.Store(false)
			if err != nil {
				s.logger.Error("failed to build index", "request_id", req.requestID, "err", err.Error())
				s.setRequestStatus(req.requestID, ProgressStatusFailed)
				continue
			}
			s.setRequestStatus(req.requestID, ProgressStatusComplete)
		case <-ctx.Done():
			s.logger.Info("index service stopped", "reason", ctx.Err())
			return
		}
	}
}

func (s *Service) rebuild(ctx context.Context, options Options, requestID string) (*kvdb.BuildRecord, error) {
	startTime := time.Now()
	options = withDefaults(options)

	record, err := s.doRebuild(ctx, options, requestID)
	if err != nil {
		s.metrics.ObserveBuild(metrics.BuildStatusFailed, time.Since(startTime), 0, 0)
		return nil, err
	}

	s.metrics.ObserveBuild(metrics.BuildStatusSuccess, time.Since(startTime), record.Documents, record.Terms)
	s.recordBuild(record)

	return record, nil
}

func (s *Service) doRebuild(ctx context.Context, options Options, requestID string) (*kvdb.BuildRecord, error) {
	s.logger.Info("discovering files to index", "request_id", requestID, "root_path", options.RootPath)
	files, err := discoverFiles(options.RootPath, options.Extension, options.ExcludeFolders)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files under %s: %w", options.RootPath, err)
	}
	s.logger.Info("discovered files", "request_id", requestID, slog.Int("num_of_files", len(files)))

	s.setRequestStatus(requestID, ProgressStatusDiscovered)

	builder := NewBuilder(s.tokenizer, s.analyser)
	lastStatus := ProgressStatusDiscovered
	progress := func(done int, total int) {
		status := getProgressPercentage(done, total, ProgressStatusDiscovered, ProgressStatusIndexed)
		if status != lastStatus {
			s.setRequestStatus(requestID, status)
			lastStatus = status
		}
	}
	if err := builder.IndexFiles(ctx, files, options.BasePath, options.BaseURL, progress); err != nil {
		return nil, err
	}

	s.setRequestStatus(requestID, ProgressStatusIndexed)

	idx := builder.Index()
	outputPath, err := s.exporter.Export(idx, s.tokenizer)
	if err != nil {
		return nil, fmt.Errorf("failed to export index: %w", err)
	}
	s.logger.Info("exported index", "request_id", requestID, "documents", idx.DocumentCount(), "terms", idx.TermCount(), "output_path", outputPath)

	return &kvdb.BuildRecord{
		RequestID:  requestID,
		RootPath:   options.RootPath,
		Documents:  idx.DocumentCount(),
		Terms:      idx.TermCount(),
		OutputPath: outputPath,
		FinishedAt: time.Now().UTC(),
	}, nil
}

func withDefaults(options Options) Options {
	options.RootPath = filepath.Clean(options.RootPath)
	if options.BasePath == "" {
		options.BasePath = options.RootPath
	}
	if options.BaseURL == "" {
		options.BaseURL = "./"
	}
	if options.Extension == "" {
		options.Extension = "html"
	}

	return options
}

func (s *Service) recordBuild(record *kvdb.BuildRecord) {
	if s.metadataStore == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("failed to marshal build record", "err", err.Error())
		return
	}

	if record.RequestID != "" {
		if err := s.metadataStore.Set(kvdb.BuildsBucket, record.RequestID, string(data)); err != nil {
			s.logger.Error("failed to store build record", "request_id", record.RequestID, "err", err.Error())
		}
	}
	if err := s.metadataStore.Set(kvdb.BuildsBucket, kvdb.LatestBuildKey, string(data)); err != nil {
		s.logger.Error("failed to store latest build record", "err", err.Error())
	}
}

func (s *Service) setRequestStatus(requestID string, status int) {
	if requestID == "" || s.metadataStore == nil {
		return
	}
	if err := s.metadataStore.Set(kvdb.RequestsBucket, requestID, strconv.Itoa(status)); err != nil {
		s.logger.Error("failed to update request status", "request_id", requestID, "progress", status, "err", err.Error())
	}
}

func getProgressPercentage(done int, total int, initial int, final int) int {
	if done == 0 || total == 0 {
		return initial
	}

	if done >= total {
		return final
	}

	// Calculate the percentage between initial and final
	progress := float64(done) / float64(total)
	result := float64(initial) + progress*float64(final-initial)

	return int(result)

}
