// Package feed supplies raw trade rows to the analysis core. It is the
// ingestion collaborator: file-based logs for batch runs and a websocket
// stream for live monitoring.
package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"token-forensics/internal/domain"
	"token-forensics/internal/logger"
)

// Source delivers raw trade rows in arrival order.
type Source interface {
	// Trades returns the receive channel. The channel is closed when the
	// source is exhausted or the context is cancelled.
	Trades() <-chan domain.RawTrade

	// Close releases the source's resources.
	Close() error
}

// FileSource reads a JSON-lines trade log.
type FileSource struct {
	path string
	ch   chan domain.RawTrade
}

// NewFileSource opens a trade log and starts decoding rows in arrival order.
// Undecodable lines are logged and skipped; the normalizer handles field
// validation.
func NewFileSource(ctx context.Context, path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trade log: %w", err)
	}

	s := &FileSource{path: path, ch: make(chan domain.RawTrade, 256)}
	go s.read(ctx, f)
	return s, nil
}

// Trades returns the row channel.
func (s *FileSource) Trades() <-chan domain.RawTrade {
	return s.ch
}

// Close is a no-op after the reader goroutine finishes; the file is closed
// by the reader itself.
func (s *FileSource) Close() error {
	return nil
}

func (s *FileSource) read(ctx context.Context, f *os.File) {
	defer close(s.ch)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var row domain.RawTrade
		if err := json.Unmarshal(line, &row); err != nil {
			logger.Warn("%s:%d: undecodable trade row: %v", s.path, lineNo, err)
			continue
		}

		select {
		case s.ch <- row:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		logger.Error("%s: read error after %d lines: %v", s.path, lineNo, err)
	}
}

// ReadAll drains a source into a slice. Convenience for batch runs.
func ReadAll(src Source) []domain.RawTrade {
	var rows []domain.RawTrade
	for row := range src.Trades() {
		rows = append(rows, row)
	}
	return rows
}
