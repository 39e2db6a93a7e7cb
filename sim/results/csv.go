package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/serverless-sim/serverless-sim/sim"
)

// flushEvery bounds how many rows may sit in the csv writer's buffer
// before a flush is forced, so an interrupted run loses at most this many
// rows.
const flushEvery = 100

// CSVWriter streams result rows to a CSV file as they are computed. The
// file is opened once; a mutex serializes Write so the writer is safe even
// if a caller bypasses the engine's single-writer goroutine.
type CSVWriter struct {
	mu      sync.Mutex
	file    *os.File
	w       *csv.Writer
	rows    int
	nowFunc func() time.Time
}

// NewCSVWriter creates the output file (and any missing parent
// directories) and writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating result directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating result file: %w", err)
	}
	cw := &CSVWriter{file: file, w: csv.NewWriter(file), nowFunc: time.Now}
	if err := cw.w.Write(Header); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing result header: %w", err)
	}
	return cw, nil
}

// NewCSVWriterTo writes to an arbitrary io.Writer (no file handling).
// Used when streaming results to stdout.
func NewCSVWriterTo(out io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{w: csv.NewWriter(out), nowFunc: time.Now}
	if err := cw.w.Write(Header); err != nil {
		return nil, fmt.Errorf("writing result header: %w", err)
	}
	return cw, nil
}

// Write appends one result row, flushing every flushEvery rows.
func (c *CSVWriter) Write(st *sim.ScheduledTask) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.w.Write(Row(st, c.nowFunc())); err != nil {
		return err
	}
	c.rows++
	if c.rows%flushEvery == 0 {
		c.w.Flush()
		if err := c.w.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Flush forces buffered rows to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w.Flush()
	return c.w.Error()
}

// Rows returns the number of data rows written so far.
func (c *CSVWriter) Rows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		if c.file != nil {
			c.file.Close()
		}
		return err
	}
	if c.file != nil {
		return c.file.Close()
	}
	return nil
}
