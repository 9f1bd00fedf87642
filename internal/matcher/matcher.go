package matcher

import (
	"fmt"
	"math"
	"strings"
)

// Confidence is the reliability bucket the backend attaches to a job match
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Score thresholds. Each bound belongs to the tier it starts.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.6
)

// Badge is everything needed to display a confidence tier: the CSS classes
// the web dashboard uses, an ANSI 256 colour for the terminal, and the icon.
type Badge struct {
	Label      string
	ColorClass string
	TermColor  string
	Icon       string
	Glyph      string
}

var badges = map[Confidence]Badge{
	ConfidenceHigh: {
		Label:      "High match",
		ColorClass: "text-green-700 bg-green-50 border-green-200",
		TermColor:  "10",
		Icon:       "check-circle",
		Glyph:      "✔",
	},
	ConfidenceMedium: {
		Label:      "Medium match",
		ColorClass: "text-yellow-700 bg-yellow-50 border-yellow-200",
		TermColor:  "11",
		Icon:       "alert-circle",
		Glyph:      "●",
	},
	ConfidenceLow: {
		Label:      "Low match",
		ColorClass: "text-red-700 bg-red-50 border-red-200",
		TermColor:  "9",
		Icon:       "x-circle",
		Glyph:      "✖",
	},
}

// neutral is used for confidence values the table does not know
var neutral = Badge{
	Label:      "Unrated",
	ColorClass: "text-gray-700 bg-gray-50 border-gray-200",
	TermColor:  "8",
	Icon:       "help-circle",
	Glyph:      "?",
}

// ParseConfidence maps backend text to a Confidence. The second return
// value is false for anything other than high, medium or low.
func ParseConfidence(s string) (Confidence, bool) {
	c := Confidence(strings.ToLower(strings.TrimSpace(s)))
	_, ok := badges[c]
	return c, ok
}

// BadgeFor returns the display badge for c, or a neutral gray badge.
func BadgeFor(c Confidence) Badge {
	if b, ok := badges[c]; ok {
		return b
	}
	return neutral
}

// ScoreTier buckets a match score in [0,1]: >= 0.8 high, >= 0.6 medium,
// everything else (including NaN) low.
func ScoreTier(score float64) Confidence {
	switch {
	case score >= HighThreshold:
		return ConfidenceHigh
	case score >= MediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// MatchScoreColor returns the colour classes for a match score.
func MatchScoreColor(score float64) string {
	return BadgeFor(ScoreTier(score)).ColorClass
}

// FormatScore renders a [0,1] score as a whole percentage, e.g. "85%".
func FormatScore(score float64) string {
	if math.IsNaN(score) {
		return "—"
	}
	score = math.Max(0, math.Min(1, score))
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}

// SkillCoverage is the share of a posting's skills the candidate already
// has. Postings that list no skills are neutral (0.5).
func SkillCoverage(matched, missing []string) float64 {
	total := len(matched) + len(missing)
	if total == 0 {
		return 0.5
	}
	return float64(len(matched)) / float64(total)
}
