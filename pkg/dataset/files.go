package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sentinb/sentiment-filter/pkg/learning"
	"github.com/sentinb/sentiment-filter/pkg/vocabulary"
)

// LoadStopwords reads one stopword per line. Blank lines are skipped.
func LoadStopwords(path string) (vocabulary.Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopwords: %w", err)
	}
	defer f.Close()

	return ReadStopwords(f)
}

// ReadStopwords reads one stopword per line from r
func ReadStopwords(r io.Reader) (vocabulary.Stopwords, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}
	return vocabulary.NewStopwords(words...), nil
}

// WriteResultsFile writes predictions as ID,Sentiment CSV
func WriteResultsFile(path string, predictions []learning.Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	if err := WriteResults(f, predictions); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteResults writes predictions as ID,Sentiment CSV in the given order
func WriteResults(w io.Writer, predictions []learning.Prediction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "Sentiment"}); err != nil {
		return err
	}
	for _, p := range predictions {
		if err := writer.Write([]string{p.ID, p.Label}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WordCount is the number of occurrences of a whitespace-separated word
type WordCount struct {
	Word  string
	Count int
}

// CountWords counts whitespace-separated words in a file, most frequent first.
// Equal counts are ordered by word.
func CountWords(path string) ([]WordCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	counts := make(map[string]int)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		counts[scanner.Text()]++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out, nil
}
