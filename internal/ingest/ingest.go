// Package ingest turns files and streams into plain-text documents ready for
// keyword analysis. It performs no network access.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxTitleRunes bounds titles taken from the first line of a text file.
const maxTitleRunes = 120

var (
	ErrUnsupportedType = errors.New("ingest: unsupported file type")
	ErrNoText          = errors.New("ingest: no extractable text")
)

// Document is one article to analyze.
type Document struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Source supplies a document.
type Source interface {
	Fetch(ctx context.Context) (Document, error)
}

// FileSource reads a local file. Plain text and Markdown are read as is,
// PDF and DOCX have their text extracted.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	ext := strings.ToLower(filepath.Ext(s.Path))
	switch ext {
	case ".pdf":
		text, err := parsePDF(s.Path)
		if err != nil {
			return Document{}, err
		}
		return Document{Title: baseTitle(s.Path), Text: text, Source: s.Path}, nil
	case ".docx":
		raw, err := os.ReadFile(s.Path)
		if err != nil {
			return Document{}, fmt.Errorf("read file: %w", err)
		}
		text, err := parseDOCX(raw)
		if err != nil {
			return Document{}, err
		}
		return Document{Title: baseTitle(s.Path), Text: text, Source: s.Path}, nil
	case "", ".txt", ".text", ".md", ".markdown":
		raw, err := os.ReadFile(s.Path)
		if err != nil {
			return Document{}, fmt.Errorf("read file: %w", err)
		}
		return textDocument(string(raw), s.Path, baseTitle(s.Path))
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
}

// ReaderSource reads plain text from a stream such as stdin.
type ReaderSource struct {
	Name   string
	Reader io.Reader
}

func (s ReaderSource) Fetch(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	raw, err := io.ReadAll(s.Reader)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", s.Name, err)
	}
	return textDocument(string(raw), s.Name, s.Name)
}

// textDocument titles a text document with its first non-empty line,
// falling back to fallbackTitle.
func textDocument(text, source, fallbackTitle string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("%w: %s", ErrNoText, source)
	}
	title := firstLine(text)
	if title == "" {
		title = fallbackTitle
	}
	return Document{Title: title, Text: text, Source: source}, nil
}

func firstLine(text string) string {
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxTitleRunes {
			line = string([]rune(line)[:maxTitleRunes])
		}
		return line
	}
	return ""
}

func baseTitle(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
