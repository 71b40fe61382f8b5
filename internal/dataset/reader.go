package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/datasim/internal/models"
)

const fieldCount = 4

// ParseLine parses a single dataset line back into a record.
func ParseLine(line string) (models.Record, error) {
	fields := strings.Fields(line)
	if len(fields) != fieldCount {
		return models.Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, fieldCount, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: id: %w", ErrMalformedLine, err)
	}

	lat, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: latitude: %w", ErrMalformedLine, err)
	}

	lon, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: longitude: %w", ErrMalformedLine, err)
	}

	return models.Record{
		ID:     id,
		Label:  fields[1],
		Coords: models.Coordinates{Latitude: lat, Longitude: lon},
	}, nil
}

// Scanner reads records from a dataset stream one line at a time.
type Scanner struct {
	sc   *bufio.Scanner
	line int
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

// Next returns the next record, or io.EOF once the stream is exhausted.
func (s *Scanner) Next() (models.Record, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return models.Record{}, fmt.Errorf("failed to read line %d: %w", s.line+1, err)
		}
		return models.Record{}, io.EOF
	}
	s.line++

	rec, err := ParseLine(s.sc.Text())
	if err != nil {
		return models.Record{}, fmt.Errorf("line %d: %w", s.line, err)
	}

	return rec, nil
}

// ReadFile calls fn for every record in the dataset file at path, passing the
// zero-based line index. It stops at the first error.
func ReadFile(path string, fn func(i int, rec models.Record) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	sc := NewScanner(file)
	for i := 0; ; i++ {
		rec, errNext := sc.Next()
		if errors.Is(errNext, io.EOF) {
			return nil
		}
		if errNext != nil {
			return errNext
		}
		if err = fn(i, rec); err != nil {
			return err
		}
	}
}
