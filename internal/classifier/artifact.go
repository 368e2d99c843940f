package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrInvalidArtifact is returned when a pipeline file is structurally unusable.
var ErrInvalidArtifact = errors.New("invalid classifier artifact")

// sklearnTokenPattern is CountVectorizer's default. RE2 has no (?u) flag and
// its \w is ASCII-only, so it is rewritten to a Unicode-aware class.
const (
	sklearnTokenPattern = `(?u)\b\w\w+\b`
	unicodeTokenPattern = `[\p{L}\p{N}_]{2,}`
)

// pipelineFile is the on-disk layout of an exported bag-of-words + multinomial
// naive Bayes pipeline.
type pipelineFile struct {
	Classes        []string       `json:"classes"`
	ClassLogPrior  []float64      `json:"class_log_prior"`
	FeatureLogProb [][]float64    `json:"feature_log_prob"`
	Vocabulary     map[string]int `json:"vocabulary"`
	Lowercase      *bool          `json:"lowercase,omitempty"`
	TokenPattern   string         `json:"token_pattern,omitempty"`
	NgramRange     []int          `json:"ngram_range,omitempty"`
	Binary         bool           `json:"binary,omitempty"`
}

// Artifact is a loaded classification pipeline. It is immutable after Load
// and safe for concurrent use.
type Artifact struct {
	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64
	vocabulary     map[string]int
	lowercase      bool
	token          *regexp.Regexp
	minN, maxN     int
	binary         bool
}

// Load reads and validates a pipeline file
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var pf pipelineFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	return newArtifact(pf)
}

func newArtifact(pf pipelineFile) (*Artifact, error) {
	n := len(pf.Classes)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 classes, got %d", ErrInvalidArtifact, n)
	}
	if len(pf.ClassLogPrior) != n {
		return nil, fmt.Errorf("%w: %d priors for %d classes", ErrInvalidArtifact, len(pf.ClassLogPrior), n)
	}
	if len(pf.FeatureLogProb) != n {
		return nil, fmt.Errorf("%w: %d probability rows for %d classes", ErrInvalidArtifact, len(pf.FeatureLogProb), n)
	}

	features := len(pf.FeatureLogProb[0])
	for i, row := range pf.FeatureLogProb {
		if len(row) != features {
			return nil, fmt.Errorf("%w: row %d has %d features, expected %d", ErrInvalidArtifact, i, len(row), features)
		}
	}
	for term, idx := range pf.Vocabulary {
		if idx < 0 || idx >= features {
			return nil, fmt.Errorf("%w: term %q maps to index %d outside [0,%d)", ErrInvalidArtifact, term, idx, features)
		}
	}

	pattern := pf.TokenPattern
	if pattern == "" || pattern == sklearnTokenPattern {
		pattern = unicodeTokenPattern
	}
	token, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: token pattern: %v", ErrInvalidArtifact, err)
	}

	minN, maxN := 1, 1
	if len(pf.NgramRange) == 2 {
		minN, maxN = pf.NgramRange[0], pf.NgramRange[1]
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("%w: ngram range %v", ErrInvalidArtifact, pf.NgramRange)
	}

	lowercase := true
	if pf.Lowercase != nil {
		lowercase = *pf.Lowercase
	}

	return &Artifact{
		classes:        pf.Classes,
		classLogPrior:  pf.ClassLogPrior,
		featureLogProb: pf.FeatureLogProb,
		vocabulary:     pf.Vocabulary,
		lowercase:      lowercase,
		token:          token,
		minN:           minN,
		maxN:           maxN,
		binary:         pf.Binary,
	}, nil
}

// Classify returns the class with the highest joint log likelihood. Ties go
// to the class listed first in the artifact.
func (a *Artifact) Classify(_ context.Context, text string) (string, error) {
	counts := a.vectorize(text)

	best, bestScore := 0, 0.0
	for c := range a.classes {
		score := a.classLogPrior[c]
		for idx, n := range counts {
			score += float64(n) * a.featureLogProb[c][idx]
		}
		if c == 0 || score > bestScore {
			best, bestScore = c, score
		}
	}

	return a.classes[best], nil
}

// Classes lists the labels the artifact can emit
func (a *Artifact) Classes() []string {
	out := make([]string, len(a.classes))
	copy(out, a.classes)
	return out
}

func (a *Artifact) vectorize(text string) map[int]int {
	if a.lowercase {
		text = strings.ToLower(text)
	}
	tokens := a.token.FindAllString(text, -1)

	counts := make(map[int]int)
	for n := a.minN; n <= a.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := strings.Join(tokens[i:i+n], " ")
			idx, ok := a.vocabulary[term]
			if !ok {
				continue
			}
			if a.binary {
				counts[idx] = 1
			} else {
				counts[idx]++
			}
		}
	}
	return counts
}
