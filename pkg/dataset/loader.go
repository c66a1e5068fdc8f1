// Package dataset reads labeled and unlabeled post corpora from CSV, loads
// stopword lists and writes prediction results.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sentinb/sentiment-filter/pkg/corpus"
)

// ErrShortRow is returned when a CSV row has fewer columns than required
var ErrShortRow = errors.New("row has too few columns")

// Loader parses corpus CSV files
type Loader struct {
	Tokenizer       Tokenizer
	HasHeader       bool
	UppercaseLabels bool
}

// NewLoader creates a loader matching the classic training_set.csv layout:
// header row, upper-cased labels, lower-cased whitespace-split text
func NewLoader() *Loader {
	return &Loader{
		Tokenizer:       Tokenizer{Lowercase: true},
		HasHeader:       true,
		UppercaseLabels: true,
	}
}

// LoadTrainingFile reads id,label,text rows from a file
func (l *Loader) LoadTrainingFile(path string) ([]corpus.TrainingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training set: %w", err)
	}
	defer f.Close()

	return l.ReadTraining(f)
}

// LoadTestingFile reads id,text rows from a file
func (l *Loader) LoadTestingFile(path string) ([]corpus.TestRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open testing set: %w", err)
	}
	defer f.Close()

	return l.ReadTesting(f)
}

// ReadTraining reads id,label,text rows
func (l *Loader) ReadTraining(r io.Reader) ([]corpus.TrainingRecord, error) {
	var records []corpus.TrainingRecord
	err := l.each(r, 3, func(row []string) {
		label := strings.TrimSpace(row[1])
		if l.UppercaseLabels {
			label = strings.ToUpper(label)
		}
		records = append(records, corpus.TrainingRecord{
			ID:     row[0],
			Label:  label,
			Tokens: l.Tokenizer.Tokenize(row[2]),
		})
	})
	return records, err
}

// ReadTesting reads id,text rows
func (l *Loader) ReadTesting(r io.Reader) ([]corpus.TestRecord, error) {
	var records []corpus.TestRecord
	err := l.each(r, 2, func(row []string) {
		records = append(records, corpus.TestRecord{
			ID:     row[0],
			Tokens: l.Tokenizer.Tokenize(row[1]),
		})
	})
	return records, err
}

func (l *Loader) each(r io.Reader, columns int, fn func(row []string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	line := 0
	if l.HasHeader {
		line++
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read header: %w", err)
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) < columns {
			return fmt.Errorf("line %d: %w (want %d, got %d)", line, ErrShortRow, columns, len(row))
		}
		fn(row)
	}
}
