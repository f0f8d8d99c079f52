package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel_Boundaries(t *testing.T) {
	assert.Equal(t, LabelPositive, Label(0.05))
	assert.Equal(t, LabelNegative, Label(-0.05))
	assert.Equal(t, LabelNeutral, Label(0.049))
	assert.Equal(t, LabelNeutral, Label(-0.049))
	assert.Equal(t, LabelNeutral, Label(0))
	assert.Equal(t, LabelPositive, Label(1))
	assert.Equal(t, LabelNegative, Label(-1))
}

func TestScorer_PositiveText(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Score("This was a great meeting, excellent work everyone!")

	assert.Greater(t, result.Compound, 0.05)
	assert.Equal(t, LabelPositive, result.Label)
}

func TestScorer_NegativeText(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Score("This is terrible, the project is a complete disaster.")

	assert.Less(t, result.Compound, -0.05)
	assert.Equal(t, LabelNegative, result.Label)
}

func TestScorer_EmptyText(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Score("   ")

	assert.Equal(t, 0.0, result.Compound)
	assert.Equal(t, 1.0, result.Neutral)
	assert.Equal(t, LabelNeutral, result.Label)
}

func TestScorer_ScoreBatch(t *testing.T) {
	scorer := NewScorer()

	results := scorer.ScoreBatch([]string{"great job", "awful outcome", "the sky is blue"})

	assert.Len(t, results, 3)
	assert.Equal(t, LabelPositive, results[0].Label)
	assert.Equal(t, LabelNegative, results[1].Label)
	assert.Equal(t, LabelNeutral, results[2].Label)
}
