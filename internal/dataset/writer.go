package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/UnknownOlympus/datasim/internal/models"
)

// DefaultPath is the output file used when no other path is configured.
const DefaultPath = "data.txt"

const lineFormat = "%d %s %.6f %.6f\n"

// Common errors for dataset files.
var (
	ErrOutputUnavailable = errors.New("output file unavailable")
	ErrWriteFailed       = errors.New("failed to write output file")
	ErrMalformedLine     = errors.New("malformed record line")
)

// Writer writes records to a dataset file, one line per record.
type Writer struct {
	path  string
	file  *os.File
	buf   *bufio.Writer
	count int
	bytes int64
}

// FormatLine renders a record as a newline-terminated dataset line.
func FormatLine(rec models.Record) string {
	return fmt.Sprintf(lineFormat, rec.ID, rec.Label, rec.Coords.Latitude, rec.Coords.Longitude)
}

// Create creates or truncates the dataset file at path.
// The returned error wraps ErrOutputUnavailable when the file cannot be opened.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputUnavailable, err)
	}

	return &Writer{
		path: path,
		file: file,
		buf:  bufio.NewWriter(file),
	}, nil
}

// Write appends a single record line.
func (w *Writer) Write(rec models.Record) error {
	n, err := w.buf.WriteString(FormatLine(rec))
	w.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("%w: record %d: %w", ErrWriteFailed, rec.ID, err)
	}
	w.count++

	return nil
}

// Close flushes buffered lines and closes the file.
func (w *Writer) Close() error {
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return nil
}

// Path returns the path of the file being written.
func (w *Writer) Path() string { return w.path }

// Count returns the number of records written so far.
func (w *Writer) Count() int { return w.count }

// Bytes returns the number of bytes written so far.
func (w *Writer) Bytes() int64 { return w.bytes }
