// Package sentiment provides fast lexicon-based valence scoring for
// transcript segments using VADER.
package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

const (
	// LabelPositive, LabelNegative and LabelNeutral are the only labels a
	// compound score maps to. The 0.05 thresholds are shared with the
	// aggregate speaker/meeting rollups and must not drift.
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"

	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Result holds the valence scores for one piece of text.
type Result struct {
	Compound float64
	Positive float64
	Negative float64
	Neutral  float64
	Label    string
}

// Scorer analyzes segment text. It performs no I/O and never fails:
// degenerate input yields a neutral result.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a Scorer with the VADER lexicon loaded.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score analyzes a single text segment.
func (s *Scorer) Score(text string) Result {
	if strings.TrimSpace(text) == "" {
		return neutralResult()
	}

	scores := s.analyzer.PolarityScores(text)
	return Result{
		Compound: scores.Compound,
		Positive: scores.Positive,
		Negative: scores.Negative,
		Neutral:  scores.Neutral,
		Label:    Label(scores.Compound),
	}
}

// ScoreBatch analyzes a batch of text segments.
func (s *Scorer) ScoreBatch(texts []string) []Result {
	results := make([]Result, 0, len(texts))
	for _, text := range texts {
		results = append(results, s.Score(text))
	}
	return results
}

// Label maps a compound score in [-1,1] to a sentiment label. The 0.05
// boundaries are inclusive.
func Label(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return LabelPositive
	case compound <= negativeThreshold:
		return LabelNegative
	}
	return LabelNeutral
}

func neutralResult() Result {
	return Result{Neutral: 1.0, Label: LabelNeutral}
}
