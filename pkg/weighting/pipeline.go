package weighting

import (
	"github.com/sentinb/sentiment-filter/pkg/corpus"
)

// Options selects which transforms run. The order is fixed: log-TF, IDF, then
// length normalization.
type Options struct {
	LogTF          bool
	IDF            bool
	LengthNorm     bool
	ZeroNormPolicy ZeroNormPolicy
}

// Enabled reports whether any transform is switched on
func (o Options) Enabled() bool {
	return o.LogTF || o.IDF || o.LengthNorm
}

// Apply runs the enabled transforms over the whole training set
func Apply(set *corpus.DocumentSet, opts Options) (*corpus.DocumentSet, error) {
	out := set
	if opts.LogTF {
		out = LogTermFrequency(out)
	}
	// IDF must see the entire set before any normalization
	if opts.IDF {
		out = InverseDocumentFrequency(out)
	}
	if opts.LengthNorm {
		var err error
		out, err = LengthNormalize(out, opts.ZeroNormPolicy)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
