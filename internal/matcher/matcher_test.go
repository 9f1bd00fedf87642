package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTier(t *testing.T) {
	tests := []struct {
		score float64
		want  Confidence
	}{
		{1.0, ConfidenceHigh},
		{0.95, ConfidenceHigh},
		{0.8, ConfidenceHigh},
		{0.79999, ConfidenceMedium},
		{0.6, ConfidenceMedium},
		{0.59999, ConfidenceLow},
		{0.0, ConfidenceLow},
		{-0.1, ConfidenceLow},
		{math.NaN(), ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreTier(tt.score), "score %v", tt.score)
	}
}

func TestMatchScoreColor(t *testing.T) {
	high := BadgeFor(ConfidenceHigh).ColorClass
	medium := BadgeFor(ConfidenceMedium).ColorClass

	assert.Equal(t, high, MatchScoreColor(0.8))
	assert.Equal(t, high, MatchScoreColor(0.95))
	assert.Equal(t, medium, MatchScoreColor(0.79999))
	assert.Equal(t, BadgeFor(ConfidenceLow).ColorClass, MatchScoreColor(0.2))
}

func TestBadgeFor(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow} {
		b := BadgeFor(c)
		assert.NotEmpty(t, b.ColorClass)
		assert.NotEmpty(t, b.Icon)
		assert.NotEmpty(t, b.TermColor)
		assert.False(t, seen[b.Icon], "icons must differ per tier")
		seen[b.Icon] = true
	}

	assert.Equal(t, neutral, BadgeFor(""))
	assert.Equal(t, neutral, BadgeFor("excellent"))
}

func TestParseConfidence(t *testing.T) {
	c, ok := ParseConfidence(" High ")
	assert.True(t, ok)
	assert.Equal(t, ConfidenceHigh, c)

	_, ok = ParseConfidence("very high")
	assert.False(t, ok)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "85%", FormatScore(0.85))
	assert.Equal(t, "80%", FormatScore(0.799))
	assert.Equal(t, "100%", FormatScore(1.2))
	assert.Equal(t, "0%", FormatScore(-3))
	assert.Equal(t, "—", FormatScore(math.NaN()))
}

func TestSkillCoverage(t *testing.T) {
	assert.Equal(t, 0.5, SkillCoverage(nil, nil))
	assert.Equal(t, 1.0, SkillCoverage([]string{"go", "sql"}, nil))
	assert.Equal(t, 0.25, SkillCoverage([]string{"go"}, []string{"k8s", "terraform", "rust"}))
	assert.Equal(t, 0.0, SkillCoverage(nil, []string{"java"}))
}
