// Package service runs keyword analyses for the HTTP, MCP and CLI
// front ends. It enforces the configured input limits, caches results by
// content and records Prometheus metrics.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/analyzer"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/config"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/ingest"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/keywords"
)

// ErrInputTooLarge is returned for documents over the configured size.
var ErrInputTooLarge = errors.New("service: input too large")

// Article is the analysis of a titled document.
type Article struct {
	Keywords  []keywords.Keyword `json:"words"            yaml:"words"`
	Title     string             `json:"article_title"    yaml:"article_title"`
	Source    string             `json:"source,omitempty" yaml:"source,omitempty"`
	WordCount int                `json:"word_count"       yaml:"word_count"`
	Strategy  keywords.Strategy  `json:"strategy"         yaml:"strategy"`
}

// Service is safe for concurrent use.
type Service struct {
	cfg     config.AnalysisConfig
	cache   *lru.Cache[string, *analyzer.Result]
	metrics *Metrics
}

// New builds a service from cfg. A zero cache size disables caching.
func New(cfg *config.Config, metrics *Metrics) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Service{cfg: cfg.Analysis, metrics: metrics}
	if cfg.Cache.Size > 0 {
		cache, err := lru.New[string, *analyzer.Result](cfg.Cache.Size)
		if err != nil {
			return nil, fmt.Errorf("create result cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Metrics returns the metrics the service records to.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// DefaultMaxTerms is the keyword count used when a caller passes maxTerms <= 0.
func (s *Service) DefaultMaxTerms() int {
	return s.cfg.MaxTerms
}

// Analyze extracts at most maxTerms keywords from text. maxTerms <= 0
// selects the configured default. The result is owned by the caller.
func (s *Service) Analyze(ctx context.Context, text string, maxTerms int) (*analyzer.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	if maxTerms <= 0 {
		maxTerms = s.cfg.MaxTerms
	}
	if len(text) > s.cfg.MaxInputBytes {
		s.metrics.observe("", outcomeTooLarge)
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit",
			ErrInputTooLarge, len(text), s.cfg.MaxInputBytes)
	}

	key := cacheKey(text, maxTerms)
	if res, ok := s.lookup(key); ok {
		s.metrics.cacheHits.Inc()
		s.metrics.observe(string(res.Strategy), outcomeOK)
		log.Debug("Analysis served from cache", "max_terms", maxTerms, "keywords", len(res.Keywords))
		return res, nil
	}

	s.metrics.inputBytes.Observe(float64(len(text)))
	start := time.Now()
	res, err := analyzer.Analyze(text, maxTerms)
	elapsed := time.Since(start)
	s.metrics.duration.Observe(elapsed.Seconds())
	if err != nil {
		outcome := outcomeFor(err)
		s.metrics.observe("", outcome)
		if outcome == outcomeError {
			log.Error("Analysis failed", "error", err, "bytes", len(text))
		} else {
			log.Debug("Analysis rejected", "reason", outcome, "bytes", len(text))
		}
		return nil, err
	}

	s.metrics.observe(string(res.Strategy), outcomeOK)
	if res.FallbackReason != nil {
		log.Info("TF-IDF unavailable, ranked by frequency", "reason", res.FallbackReason)
	}
	log.Debug("Analysis complete",
		"strategy", res.Strategy,
		"keywords", len(res.Keywords),
		"word_count", res.WordCount,
		"duration", elapsed,
	)
	if s.cache != nil {
		s.cache.Add(key, cloneResult(res))
	}
	return res, nil
}

// AnalyzeDocument analyzes doc.Text and labels the result with its title
// and source.
func (s *Service) AnalyzeDocument(ctx context.Context, doc ingest.Document, maxTerms int) (*Article, error) {
	res, err := s.Analyze(ctx, doc.Text, maxTerms)
	if err != nil {
		return nil, err
	}
	return &Article{
		Keywords:  res.Keywords,
		Title:     doc.Title,
		Source:    doc.Source,
		WordCount: res.WordCount,
		Strategy:  res.Strategy,
	}, nil
}

func (s *Service) lookup(key string) (*analyzer.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	res, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	return cloneResult(res), true
}

func cloneResult(res *analyzer.Result) *analyzer.Result {
	out := *res
	out.Keywords = slices.Clone(res.Keywords)
	return &out
}

func cacheKey(text string, maxTerms int) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]) + ":" + strconv.Itoa(maxTerms)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, analyzer.ErrEmptyContent):
		return outcomeEmpty
	case errors.Is(err, analyzer.ErrNoKeywordsExtracted):
		return outcomeNoKeywords
	case errors.Is(err, ErrInputTooLarge):
		return outcomeTooLarge
	default:
		return outcomeError
	}
}
