// Package nlp routes free-text complaints to a department and urgency level.
// The default classifier is a deterministic keyword matcher whose rules are
// fixed at construction time.
package nlp

import (
	"math"
	"strings"
	"unicode"
)

const (
	UrgencyLow      = "Low"
	UrgencyMedium   = "Medium"
	UrgencyHigh     = "High"
	UrgencyCritical = "Critical"

	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
	SentimentPositive = "Positive"

	DefaultDepartment = "Other"
	// FallbackConfidence is reported when no rule matched.
	FallbackConfidence = 0.40
)

// Analysis is the classifier output. It is stored verbatim alongside the
// complaint, so every field must stay JSON serializable.
type Analysis struct {
	PredictedDepartment string   `json:"predictedDepartment"`
	ConfidenceScore     float64  `json:"confidenceScore"`
	Urgency             string   `json:"urgency"`
	Keywords            []string `json:"keywords"`
	Sentiment           string   `json:"sentiment"`
}

// Classifier assigns a department, urgency and confidence to complaint text.
type Classifier interface {
	Classify(text string) (*Analysis, error)
}

// Rule routes text containing any of Keywords to Department.
type Rule struct {
	Department     string
	Code           string
	Keywords       []string
	DefaultUrgency string
}

// KeywordClassifier is safe for concurrent use; it never mutates its rules.
type KeywordClassifier struct {
	rules    []Rule
	fallback string
	critical []string
	high     []string
	negative []string
	positive []string
}

// NewKeywordClassifier copies rules; an empty fallback means DefaultDepartment.
func NewKeywordClassifier(rules []Rule, fallback string) *KeywordClassifier {
	if fallback == "" {
		fallback = DefaultDepartment
	}
	copied := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = normalize(k); k != "" {
				kw = append(kw, k)
			}
		}
		if r.DefaultUrgency == "" {
			r.DefaultUrgency = UrgencyMedium
		}
		r.Keywords = kw
		copied = append(copied, r)
	}
	return &KeywordClassifier{
		rules:    copied,
		fallback: fallback,
		critical: criticalTerms,
		high:     highUrgencyTerms,
		negative: negativeTerms,
		positive: positiveTerms,
	}
}

// NewDefaultClassifier uses the built-in department rules.
func NewDefaultClassifier() *KeywordClassifier {
	return NewKeywordClassifier(DefaultRules(), DefaultDepartment)
}

// Classify never returns an error; unmatched text falls back to the default
// department with FallbackConfidence.
func (k *KeywordClassifier) Classify(text string) (*Analysis, error) {
	doc := normalize(text)

	best, bestHits, totalHits := -1, 0, 0
	var matched []string
	for i, r := range k.rules {
		hits := matchAll(doc, r.Keywords)
		totalHits += len(hits)
		if len(hits) > bestHits {
			best, bestHits = i, len(hits)
			matched = hits
		}
	}

	a := &Analysis{
		PredictedDepartment: k.fallback,
		ConfidenceScore:     FallbackConfidence,
		Urgency:             UrgencyLow,
		Keywords:            []string{},
		Sentiment:           k.sentiment(doc),
	}
	if best >= 0 {
		rule := k.rules[best]
		a.PredictedDepartment = rule.Department
		a.ConfidenceScore = confidence(bestHits, totalHits)
		a.Urgency = rule.DefaultUrgency
		a.Keywords = append(a.Keywords, matched...)
	}

	if hits := matchAll(doc, k.critical); len(hits) > 0 {
		a.Urgency = UrgencyCritical
		a.Keywords = appendUnique(a.Keywords, hits...)
	} else if hits := matchAll(doc, k.high); len(hits) > 0 {
		a.Urgency = UrgencyHigh
		a.Keywords = appendUnique(a.Keywords, hits...)
	}

	return a, nil
}

// Rules returns a copy of the configured rules.
func (k *KeywordClassifier) Rules() []Rule {
	out := make([]Rule, len(k.rules))
	copy(out, k.rules)
	return out
}

func (k *KeywordClassifier) sentiment(doc string) string {
	neg := len(matchAll(doc, k.negative))
	pos := len(matchAll(doc, k.positive))
	switch {
	case neg > pos:
		return SentimentNegative
	case pos > neg:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// confidence grows with the number of distinct hits for the winning rule and
// shrinks with the share of hits that went to other rules.
func confidence(best, total int) float64 {
	if best == 0 || total == 0 {
		return FallbackConfidence
	}
	strength := 1 - 1/float64(1+best)
	share := float64(best) / float64(total)
	c := 0.5 + 0.45*strength*share
	return math.Round(c*100) / 100
}

// normalize lower-cases text and collapses every run of non-alphanumerics to
// a single space, padding both ends so phrase matching can use " kw ".
func normalize(text string) string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}

func matchAll(doc string, terms []string) []string {
	if doc == "" {
		return nil
	}
	var hits []string
	for _, t := range terms {
		if strings.Contains(doc, " "+strings.TrimSpace(t)+" ") {
			hits = appendUnique(hits, strings.TrimSpace(t))
		}
	}
	return hits
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		seen := false
		for _, d := range dst {
			if d == it {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, it)
		}
	}
	return dst
}
