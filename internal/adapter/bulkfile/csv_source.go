// Package bulkfile implements the depletable bulk word list on top of a CSV file.
package bulkfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var header = []string{"term", "translation"}

// CSVSource drains random rows from a "term,translation" CSV file. Each drain
// reads the whole file, samples, and atomically rewrites the remainder, all
// under one lock, so concurrent sessions never receive the same row.
// Malformed rows are skipped and dropped on the next rewrite.
type CSVSource struct {
	path   string
	logger logrus.FieldLogger
	mu     sync.Mutex
}

var _ repository.BulkWordSource = (*CSVSource)(nil)

// NewCSVSource returns a source reading cfg.Bulk.Path.
func NewCSVSource(cfg *config.Config, logger logrus.FieldLogger) *CSVSource {
	return NewCSVSourceAt(cfg.Bulk.Path, logger)
}

// NewCSVSourceAt returns a source for an explicit path.
func NewCSVSourceAt(path string, logger logrus.FieldLogger) *CSVSource {
	return &CSVSource{path: path, logger: logger.WithField("file", path)}
}

// Path returns the backing file path.
func (s *CSVSource) Path() string { return s.path }

// DrainSample removes up to quantity random rows from the file and returns them.
func (s *CSVSource) DrainSample(ctx context.Context, quantity int) ([]entity.WordPair, error) {
	if quantity <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pairs, err := s.read()
	if err != nil {
		return nil, err
	}

	picked := lo.Samples(lo.Range(len(pairs)), min(quantity, len(pairs)))
	taken := make(map[int]struct{}, len(picked))
	sample := make([]entity.WordPair, 0, len(picked))
	for _, i := range picked {
		taken[i] = struct{}{}
		sample = append(sample, pairs[i])
	}
	rest := lo.Reject(pairs, func(_ entity.WordPair, i int) bool {
		_, ok := taken[i]
		return ok
	})

	if err := s.write(rest); err != nil {
		return nil, err
	}
	return sample, nil
}

// Remaining returns the number of valid rows left in the file. A missing file has none.
func (s *CSVSource) Remaining(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	pairs, err := s.read()
	if errors.Is(err, entity.ErrBulkSourceEmpty) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(pairs), nil
}

// read returns the valid rows. It fails with ErrMalformedRow only when rows
// exist and none of them is valid, and with ErrBulkSourceEmpty when there are none.
func (s *CSVSource) read() ([]entity.WordPair, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entity.ErrBulkSourceEmpty
		}
		return nil, fmt.Errorf("open bulk file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var pairs []entity.WordPair
	line, skipped := 0, 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bulk file: %w", err)
		}
		line++
		if line == 1 && isHeader(record) {
			continue
		}
		pair, err := parseRecord(record)
		if err != nil {
			skipped++
			s.logger.WithField("line", line).WithError(err).Warn("skip bulk word row")
			continue
		}
		pairs = append(pairs, pair)
	}
	switch {
	case len(pairs) > 0:
		return pairs, nil
	case skipped > 0:
		return nil, fmt.Errorf("%s: %d rows: %w", s.path, skipped, entity.ErrMalformedRow)
	default:
		return nil, entity.ErrBulkSourceEmpty
	}
}

func (s *CSVSource) write(pairs []entity.WordPair) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp bulk file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write bulk header: %w", err)
	}
	for _, p := range pairs {
		if err = w.Write([]string{p.Term, p.Translation}); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write bulk row: %w", err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush bulk file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp bulk file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace bulk file: %w", err)
	}
	return nil
}

func isHeader(record []string) bool {
	return len(record) >= 2 &&
		entity.NormalizeWordToken(record[0]) == header[0] &&
		entity.NormalizeWordToken(record[1]) == header[1]
}

func parseRecord(record []string) (entity.WordPair, error) {
	if len(record) < 2 {
		return entity.WordPair{}, entity.ErrMalformedRow
	}
	pair := entity.WordPair{
		Term:        entity.NormalizeWordToken(record[0]),
		Translation: entity.NormalizeWordToken(record[1]),
	}
	if !pair.Valid() {
		return entity.WordPair{}, entity.ErrMalformedRow
	}
	return pair, nil
}
