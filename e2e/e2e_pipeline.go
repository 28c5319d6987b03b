//go:build ignore

// e2e_pipeline runs the whole wordcloud stack, from ingestion through the
// HTTP API, in a single process and writes structured results to
// data/e2e_pipeline.log.
// Run from the project root:
//
//	go run e2e/e2e_pipeline.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/analyzer"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/config"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/ingest"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/server"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/keywords"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/normalize"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/tokenizer"
)

// ---------- constants ----------

const (
	logPath      = "data/e2e_pipeline.log"
	maxDetailLen = 200
	concWorkers  = 8
	concIter     = 50
	separator    = "=========================================================="
	goldenDir    = "data/golden"
)

// ---------- test corpus ----------

const textCat = `The cat sat on the mat. The cat was happy. A happy cat purrs.`

const textNews = `Solar panels cover the warehouse roof. Engineers installed the solar panels in March. The warehouse now exports power to the grid. Grid operators welcomed the extra power. Solar output peaks at noon.`

const textSingle = `Quick brown fox.`

const textStopwords = `the a an is of`

const textMarkdown = `# Harbour expansion

The harbour authority approved the expansion plan. Cranes arrive next spring.

Dock workers welcomed the harbour plan and the new cranes.`

// ---------- types ----------

type testResult struct {
	name     string
	module   string
	passed   bool
	duration time.Duration
	detail   string
}

type moduleReport struct {
	name     string
	tests    int
	passed   int
	failed   int
	duration time.Duration
}

// ---------- helpers ----------

func pass(module, name string, start time.Time) testResult {
	return testResult{name: name, module: module, passed: true, duration: time.Since(start)}
}

func fail(module, name, detail string, start time.Time) testResult {
	return testResult{name: name, module: module, passed: false, duration: time.Since(start), detail: truncate(detail, maxDetailLen)}
}

func truncate(s string, maxRunes int) string {
	n := 0
	for i := range s {
		n++
		if n > maxRunes {
			return s[:i] + "..."
		}
	}
	return s
}

func safeRun(module, name string, fn func() testResult) (r testResult) {
	defer func() {
		if p := recover(); p != nil {
			r = fail(module, name, fmt.Sprintf("PANIC: %v", p), time.Now())
		}
	}()
	return fn()
}

// checkLaws verifies the output contract every keyword list must meet.
func checkLaws(kws []keywords.Keyword, maxTerms int) error {
	if len(kws) == 0 {
		return errors.New("no keywords")
	}
	if len(kws) > maxTerms {
		return fmt.Errorf("%d keywords, limit %d", len(kws), maxTerms)
	}
	if kws[0].Weight != 1 {
		return fmt.Errorf("top weight %v, want 1", kws[0].Weight)
	}
	seen := make(map[string]bool, len(kws))
	for i, kw := range kws {
		if kw.Weight <= 0 || kw.Weight > 1 || math.IsNaN(kw.Weight) {
			return fmt.Errorf("%q weight %v out of (0,1]", kw.Term, kw.Weight)
		}
		if i > 0 && kw.Weight > kws[i-1].Weight {
			return fmt.Errorf("%q weight %v above predecessor", kw.Term, kw.Weight)
		}
		if kw.Frequency < 1 {
			return fmt.Errorf("%q frequency %d", kw.Term, kw.Frequency)
		}
		if seen[kw.Term] {
			return fmt.Errorf("duplicate term %q", kw.Term)
		}
		seen[kw.Term] = true
	}
	return nil
}

func newService() (*service.Service, error) {
	return service.New(config.Default(), nil)
}

func quietContext() context.Context {
	return logger.ContextWithLogger(context.Background(), logger.NewLogger(logger.TestConfig()))
}

// ---------- test suites ----------

func testNormalize() []testResult {
	const mod = "normalize"
	var results []testResult

	results = append(results, safeRun(mod, "idempotent", func() testResult {
		start := time.Now()
		once := normalize.Normalize(textNews)
		if twice := normalize.Normalize(once); twice != once {
			return fail(mod, "idempotent", fmt.Sprintf("%q != %q", twice, once), start)
		}
		return pass(mod, "idempotent", start)
	}))

	results = append(results, safeRun(mod, "lowercase_letters_only", func() testResult {
		start := time.Now()
		out := normalize.Normalize("Visit https://example.com NOW!!! Costs $5.")
		if out != strings.ToLower(out) || strings.ContainsAny(out, "!$.:/") {
			return fail(mod, "lowercase_letters_only", fmt.Sprintf("got %q", out), start)
		}
		return pass(mod, "lowercase_letters_only", start)
	}))

	return results
}

func testTokenizer() []testResult {
	const mod = "tokenizer"
	var results []testResult

	results = append(results, safeRun(mod, "word_reconstruction", func() testResult {
		start := time.Now()
		var sb strings.Builder
		for _, t := range tokenizer.WordTokens(textNews) {
			sb.WriteString(t.Text)
		}
		if sb.String() != textNews {
			return fail(mod, "word_reconstruction", "tokens do not rebuild the input", start)
		}
		return pass(mod, "word_reconstruction", start)
	}))

	results = append(results, safeRun(mod, "segments", func() testResult {
		start := time.Now()
		if n := len(tokenizer.Segments(textCat)); n != 3 {
			return fail(mod, "segments", fmt.Sprintf("got %d segments, want 3", n), start)
		}
		if n := len(tokenizer.Segments(textSingle)); n != 1 {
			return fail(mod, "segments", fmt.Sprintf("single sentence gave %d segments", n), start)
		}
		return pass(mod, "segments", start)
	}))

	return results
}

func testKeywords() []testResult {
	const mod = "keywords"
	var results []testResult

	results = append(results, safeRun(mod, "tfidf_primary", func() testResult {
		start := time.Now()
		ext, err := keywords.Extract(textNews, 5)
		if err != nil {
			return fail(mod, "tfidf_primary", err.Error(), start)
		}
		if ext.Strategy != keywords.StrategyTFIDF {
			return fail(mod, "tfidf_primary", fmt.Sprintf("strategy %s", ext.Strategy), start)
		}
		if err := checkLaws(ext.Keywords, 5); err != nil {
			return fail(mod, "tfidf_primary", err.Error(), start)
		}
		if ext.Keywords[0].Term != "solar" {
			return fail(mod, "tfidf_primary", fmt.Sprintf("top term %q, want solar", ext.Keywords[0].Term), start)
		}
		return pass(mod, "tfidf_primary", start)
	}))

	results = append(results, safeRun(mod, "frequency_fallback", func() testResult {
		start := time.Now()
		ext, err := keywords.Extract(textSingle, 5)
		if err != nil {
			return fail(mod, "frequency_fallback", err.Error(), start)
		}
		if ext.Strategy != keywords.StrategyFrequency || ext.Fallback == nil {
			return fail(mod, "frequency_fallback", fmt.Sprintf("strategy %s fallback %v", ext.Strategy, ext.Fallback), start)
		}
		if err := checkLaws(ext.Keywords, 5); err != nil {
			return fail(mod, "frequency_fallback", err.Error(), start)
		}
		return pass(mod, "frequency_fallback", start)
	}))

	results = append(results, safeRun(mod, "frequency_truncation", func() testResult {
		start := time.Now()
		const text = "Rain rain rain snow snow hail fog."
		full := keywords.ExtractFrequency(text, 50)
		short := keywords.ExtractFrequency(text, 2)
		if len(full) < 2 || len(short) != 2 {
			return fail(mod, "frequency_truncation", fmt.Sprintf("got %d and %d keywords", len(full), len(short)), start)
		}
		for i := range short {
			if short[i] != full[i] {
				return fail(mod, "frequency_truncation", fmt.Sprintf("position %d: %v != %v", i, short[i], full[i]), start)
			}
		}
		return pass(mod, "frequency_truncation", start)
	}))

	return results
}

func testAnalyzer() []testResult {
	const mod = "analyzer"
	var results []testResult

	results = append(results, safeRun(mod, "cat_example", func() testResult {
		start := time.Now()
		res, err := analyzer.Analyze(textCat, 10)
		if err != nil {
			return fail(mod, "cat_example", err.Error(), start)
		}
		if res.WordCount != 14 {
			return fail(mod, "cat_example", fmt.Sprintf("word count %d, want 14", res.WordCount), start)
		}
		if err := checkLaws(res.Keywords, 10); err != nil {
			return fail(mod, "cat_example", err.Error(), start)
		}
		return pass(mod, "cat_example", start)
	}))

	results = append(results, safeRun(mod, "error_kinds", func() testResult {
		start := time.Now()
		if _, err := analyzer.Analyze("", 10); !errors.Is(err, analyzer.ErrEmptyContent) {
			return fail(mod, "error_kinds", fmt.Sprintf("empty input: %v", err), start)
		}
		if _, err := analyzer.Analyze(textStopwords, 10); !errors.Is(err, analyzer.ErrNoKeywordsExtracted) {
			return fail(mod, "error_kinds", fmt.Sprintf("stop words: %v", err), start)
		}
		return pass(mod, "error_kinds", start)
	}))

	return results
}

func testIngest() []testResult {
	const mod = "ingest"
	var results []testResult

	results = append(results, safeRun(mod, "markdown_file", func() testResult {
		start := time.Now()
		dir, err := os.MkdirTemp("", "wordcloud-e2e")
		if err != nil {
			return fail(mod, "markdown_file", err.Error(), start)
		}
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "harbour.md")
		if err := os.WriteFile(path, []byte(textMarkdown), 0o600); err != nil {
			return fail(mod, "markdown_file", err.Error(), start)
		}
		doc, err := ingest.FileSource{Path: path}.Fetch(context.Background())
		if err != nil {
			return fail(mod, "markdown_file", err.Error(), start)
		}
		if doc.Title != "Harbour expansion" {
			return fail(mod, "markdown_file", fmt.Sprintf("title %q", doc.Title), start)
		}
		return pass(mod, "markdown_file", start)
	}))

	results = append(results, safeRun(mod, "unsupported_type", func() testResult {
		start := time.Now()
		_, err := ingest.FileSource{Path: "slides.pptx"}.Fetch(context.Background())
		if !errors.Is(err, ingest.ErrUnsupportedType) {
			return fail(mod, "unsupported_type", fmt.Sprintf("got %v", err), start)
		}
		return pass(mod, "unsupported_type", start)
	}))

	return results
}

func testService() []testResult {
	const mod = "service"
	var results []testResult

	results = append(results, safeRun(mod, "cached_equals_fresh", func() testResult {
		start := time.Now()
		svc, err := newService()
		if err != nil {
			return fail(mod, "cached_equals_fresh", err.Error(), start)
		}
		ctx := quietContext()
		first, err := svc.Analyze(ctx, textNews, 5)
		if err != nil {
			return fail(mod, "cached_equals_fresh", err.Error(), start)
		}
		second, err := svc.Analyze(ctx, textNews, 5)
		if err != nil {
			return fail(mod, "cached_equals_fresh", err.Error(), start)
		}
		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if string(a) != string(b) {
			return fail(mod, "cached_equals_fresh", "cached result differs", start)
		}
		return pass(mod, "cached_equals_fresh", start)
	}))

	return results
}

func testHTTP() []testResult {
	const mod = "http"
	var results []testResult

	results = append(results, safeRun(mod, "analyze_roundtrip", func() testResult {
		start := time.Now()
		svc, err := newService()
		if err != nil {
			return fail(mod, "analyze_roundtrip", err.Error(), start)
		}
		srv := server.New(config.Default(), svc, logger.NewLogger(logger.TestConfig()))
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		body, _ := json.Marshal(map[string]any{"text": textNews, "title": "Solar", "max_words": 5})
		resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(string(body)))
		if err != nil {
			return fail(mod, "analyze_roundtrip", err.Error(), start)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fail(mod, "analyze_roundtrip", fmt.Sprintf("status %d", resp.StatusCode), start)
		}
		var art service.Article
		if err := json.NewDecoder(resp.Body).Decode(&art); err != nil {
			return fail(mod, "analyze_roundtrip", err.Error(), start)
		}
		if art.Title != "Solar" {
			return fail(mod, "analyze_roundtrip", fmt.Sprintf("title %q", art.Title), start)
		}
		if err := checkLaws(art.Keywords, 5); err != nil {
			return fail(mod, "analyze_roundtrip", err.Error(), start)
		}
		return pass(mod, "analyze_roundtrip", start)
	}))

	results = append(results, safeRun(mod, "status_mapping", func() testResult {
		start := time.Now()
		svc, err := newService()
		if err != nil {
			return fail(mod, "status_mapping", err.Error(), start)
		}
		srv := server.New(config.Default(), svc, logger.NewLogger(logger.TestConfig()))
		cases := map[string]int{
			`{"text":""}`:               http.StatusBadRequest,
			`{"text":"the a an is of"}`: http.StatusUnprocessableEntity,
			`{"text":`:                  http.StatusBadRequest,
		}
		for body, want := range cases {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			srv.Handler().ServeHTTP(rec, req)
			if rec.Code != want {
				return fail(mod, "status_mapping", fmt.Sprintf("%s: status %d, want %d", body, rec.Code, want), start)
			}
		}
		return pass(mod, "status_mapping", start)
	}))

	return results
}

func testConcurrent() []testResult {
	const mod = "concurrent"
	var results []testResult

	results = append(results, safeRun(mod, "shared_service_8_goroutines", func() testResult {
		start := time.Now()
		svc, err := newService()
		if err != nil {
			return fail(mod, "shared_service_8_goroutines", err.Error(), start)
		}
		ctx := quietContext()
		texts := []string{textCat, textNews, textSingle, textMarkdown}
		var panics, failures atomic.Int64
		var wg sync.WaitGroup

		for w := range concWorkers {
			wg.Go(func() {
				for i := range concIter {
					func() {
						defer func() {
							if p := recover(); p != nil {
								panics.Add(1)
							}
						}()
						res, err := svc.Analyze(ctx, texts[(w+i)%len(texts)], 5)
						if err != nil || checkLaws(res.Keywords, 5) != nil {
							failures.Add(1)
						}
					}()
				}
			})
		}
		wg.Wait()

		if n := panics.Load(); n > 0 {
			return fail(mod, "shared_service_8_goroutines", fmt.Sprintf("%d panics detected across goroutines", n), start)
		}
		if n := failures.Load(); n > 0 {
			return fail(mod, "shared_service_8_goroutines", fmt.Sprintf("%d analyses broke the output laws", n), start)
		}
		return pass(mod, "shared_service_8_goroutines", start)
	}))

	return results
}

// ---------- corpus helpers ----------

// goldenEntry represents one entry from a golden JSON test file.
type goldenEntry struct {
	Input string `json:"input"`
}

// loadGoldenInputs reads all golden JSON files and returns their inputs.
func loadGoldenInputs() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(goldenDir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no golden files found in %s", goldenDir)
	}

	var texts []string
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		var entries []goldenEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			continue // skip non-array golden files
		}
		for _, e := range entries {
			if e.Input != "" {
				texts = append(texts, e.Input)
			}
		}
	}
	return texts, nil
}

func testCorpus() []testResult {
	const mod = "corpus"
	var results []testResult

	results = append(results, safeRun(mod, "golden_inputs_deterministic", func() testResult {
		start := time.Now()
		texts, err := loadGoldenInputs()
		if err != nil {
			return fail(mod, "golden_inputs_deterministic", err.Error(), start)
		}
		for _, text := range texts {
			a, errA := analyzer.Analyze(text, 20)
			b, errB := analyzer.Analyze(text, 20)
			if (errA == nil) != (errB == nil) {
				return fail(mod, "golden_inputs_deterministic", fmt.Sprintf("error mismatch for %q", truncate(text, 40)), start)
			}
			if errA != nil {
				continue
			}
			ja, _ := json.Marshal(a)
			jb, _ := json.Marshal(b)
			if string(ja) != string(jb) {
				return fail(mod, "golden_inputs_deterministic", fmt.Sprintf("output differs for %q", truncate(text, 40)), start)
			}
			if err := checkLaws(a.Keywords, 20); err != nil {
				return fail(mod, "golden_inputs_deterministic", err.Error(), start)
			}
		}
		return pass(mod, fmt.Sprintf("golden_inputs_deterministic (%d inputs)", len(texts)), start)
	}))

	return results
}

// ---------- orchestration ----------

func runAllSuites() []testResult {
	suites := []func() []testResult{
		testNormalize,
		testTokenizer,
		testKeywords,
		testAnalyzer,
		testIngest,
		testService,
		testHTTP,
		testConcurrent,
		testCorpus,
	}

	var all []testResult
	for _, suite := range suites {
		all = append(all, suite()...)
	}
	return all
}

func buildReports(results []testResult) []moduleReport {
	order := make(map[string]int)
	var reports []moduleReport

	for _, r := range results {
		idx, exists := order[r.module]
		if !exists {
			idx = len(reports)
			order[r.module] = idx
			reports = append(reports, moduleReport{name: r.module})
		}
		reports[idx].tests++
		reports[idx].duration += r.duration
		if r.passed {
			reports[idx].passed++
		} else {
			reports[idx].failed++
		}
	}
	return reports
}

func writeLog(path string, results []testResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	reports := buildReports(results)

	fmt.Fprintln(bw, separator)
	fmt.Fprintln(bw, "  wordcloud E2E Pipeline Test")
	fmt.Fprintf(bw, "  Timestamp: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(bw, "  Go: %s  OS: %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(bw, "  Suites: %d\n", len(reports))
	fmt.Fprintln(bw, separator)
	fmt.Fprintln(bw)

	var totalDuration time.Duration
	totalFailed := 0
	for _, rep := range reports {
		totalDuration += rep.duration
		totalFailed += rep.failed
		fmt.Fprintf(bw, "[%s] %d tests | %d passed | %d failed | %s\n",
			rep.name, rep.tests, rep.passed, rep.failed, rep.duration.Round(time.Microsecond))
		for _, r := range results {
			if r.module != rep.name {
				continue
			}
			status := "PASS"
			if !r.passed {
				status = "FAIL"
			}
			fmt.Fprintf(bw, "  %-6s %-45s %s\n", status, r.name, r.duration.Round(time.Microsecond))
			if r.detail != "" {
				fmt.Fprintf(bw, "        %s\n", r.detail)
			}
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, separator)
	fmt.Fprintf(bw, "  SUMMARY: %d tests | %d passed | %d failed | %s\n",
		len(results), len(results)-totalFailed, totalFailed, totalDuration.Round(time.Microsecond))
	fmt.Fprintln(bw, separator)

	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(results []testResult) {
	totalFailed := 0
	for _, rep := range buildReports(results) {
		totalFailed += rep.failed
		status := "OK"
		if rep.failed > 0 {
			status = "FAIL"
		}
		log.Printf("  %-12s %d/%d %s", rep.name, rep.passed, rep.tests, status)
	}

	log.Printf("")
	log.Printf("  %d tests | %d passed | %d failed", len(results), len(results)-totalFailed, totalFailed)

	for _, r := range results {
		if !r.passed {
			log.Printf("  FAIL [%s] %s: %s", r.module, r.name, r.detail)
		}
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("[e2e] ")

	log.Printf("starting E2E pipeline test")
	totalStart := time.Now()

	results := runAllSuites()

	log.Printf("completed in %s", time.Since(totalStart).Round(time.Microsecond))
	log.Printf("")

	printSummary(results)

	if err := writeLog(logPath, results); err != nil {
		log.Fatalf("cannot write log: %v", err)
	}
	log.Printf("log written to %s", logPath)

	for _, r := range results {
		if !r.passed {
			os.Exit(1)
		}
	}
}
