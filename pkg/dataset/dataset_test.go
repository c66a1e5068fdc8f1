package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinb/sentiment-filter/pkg/learning"
)

func TestReadTraining(t *testing.T) {
	input := "ID,Sentiment,Text\n" +
		"1,pos,Good Movie\n" +
		"2,Neg,\"bad, boring  film\"\n"

	records, err := NewLoader().ReadTraining(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "POS", records[0].Label)
	assert.Equal(t, []string{"good", "movie"}, records[0].Tokens)

	assert.Equal(t, "NEG", records[1].Label)
	assert.Equal(t, []string{"bad,", "boring", "film"}, records[1].Tokens)
}

func TestReadTrainingNoHeader(t *testing.T) {
	l := NewLoader()
	l.HasHeader = false
	l.UppercaseLabels = false

	records, err := l.ReadTraining(strings.NewReader("7,pos,x\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "pos", records[0].Label)
}

func TestReadTrainingShortRow(t *testing.T) {
	_, err := NewLoader().ReadTraining(strings.NewReader("h\n1,pos\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortRow))
}

func TestReadTestingEmpty(t *testing.T) {
	records, err := NewLoader().ReadTesting(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadTesting(t *testing.T) {
	records, err := NewLoader().ReadTesting(strings.NewReader("ID,Text\n10,Great fun\n11,\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"great", "fun"}, records[0].Tokens)
	assert.Empty(t, records[1].Tokens)
}

func TestTokenizerStem(t *testing.T) {
	tok := Tokenizer{Lowercase: true, Stem: true}
	assert.Equal(t, []string{"run", "movi"}, tok.Tokenize("Running Movies"))
}

func TestTokenizerNormalizeUnicode(t *testing.T) {
	tok := Tokenizer{NormalizeUnicode: true}
	// "e" followed by a combining acute accent composes to a single rune
	assert.Equal(t, []string{"caf\u00e9"}, tok.Tokenize("cafe\u0301"))
}

func TestReadStopwords(t *testing.T) {
	stop, err := ReadStopwords(strings.NewReader("the\n\n  a \nof\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, stop.Len())
	assert.True(t, stop.Contains("a"))
	assert.False(t, stop.Contains(""))
}

func TestLoadStopwordsMissing(t *testing.T) {
	_, err := LoadStopwords(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResults(&buf, []learning.Prediction{
		{ID: "2", Label: "NEG"},
		{ID: "1", Label: "POS"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ID,Sentiment\n2,NEG\n1,POS\n", buf.String())
}

func TestWriteResultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Results.csv")
	require.NoError(t, WriteResultsFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID,Sentiment\n", string(data))
}

func TestCountWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("b a b\nc a b\n"), 0644))

	counts, err := CountWords(path)
	require.NoError(t, err)
	assert.Equal(t, []WordCount{{"b", 3}, {"a", 2}, {"c", 1}}, counts)
}
