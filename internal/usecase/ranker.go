package usecase

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/prathamesh1010/Paras-Wires/config"
	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

// datasheetKeywords mark a file name as a production datasheet
var datasheetKeywords = []string{
	"production", "datasheet", "specification", "technical", "data sheet",
	"wire", "cable", "conductor", "insulation", "jacket",
}

// acceptedMimeTypes are the only file types considered for ranking
var acceptedMimeTypes = map[string]bool{
	domain.MimeTypeSpreadsheet:       true,
	domain.MimeTypeDocument:          true,
	domain.MimeTypeXLSX:              true,
	domain.MimeTypeLegacySpreadsheet: true,
}

// Default scoring weights
const (
	defaultKeywordWeight       = 10 // per wire-name token found in the file name
	defaultDomainKeywordWeight = 5  // per datasheet keyword found in the file name
	defaultExactMatchBonus     = 20 // whole normalized wire name found in the file name
	defaultRecencyWeek         = 15
	defaultRecencyMonth        = 10
	defaultRecencyQuarter      = 5
)

// RankerConfig holds the scoring weights. Zero values are valid weights;
// use DefaultRankerConfig for the standard ones.
type RankerConfig struct {
	KeywordWeight       int
	DomainKeywordWeight int
	ExactMatchBonus     int
	RecencyWeek         int // modified within 7 days
	RecencyMonth        int // within 30 days
	RecencyQuarter      int // within 90 days
	Now                 func() time.Time
}

// DefaultRankerConfig returns the standard scoring weights
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{
		KeywordWeight:       defaultKeywordWeight,
		DomainKeywordWeight: defaultDomainKeywordWeight,
		ExactMatchBonus:     defaultExactMatchBonus,
		RecencyWeek:         defaultRecencyWeek,
		RecencyMonth:        defaultRecencyMonth,
		RecencyQuarter:      defaultRecencyQuarter,
	}
}

// RankerConfigFrom builds scoring weights from the matching configuration
func RankerConfigFrom(m config.MatchingConfig) RankerConfig {
	return RankerConfig{
		KeywordWeight:       m.KeywordWeight,
		DomainKeywordWeight: m.DomainKeywordWeight,
		ExactMatchBonus:     m.ExactMatchBonus,
		RecencyWeek:         m.RecencyWeek,
		RecencyMonth:        m.RecencyMonth,
		RecencyQuarter:      m.RecencyQuarter,
	}
}

// Ranker scores Drive files against a wire name
type Ranker struct {
	cfg RankerConfig
	now func() time.Time
}

// NewRanker creates a ranker with the given weights
func NewRanker(cfg RankerConfig) *Ranker {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Ranker{cfg: cfg, now: now}
}

// Rank scores every accepted candidate against the wire name and returns the
// ones scoring above zero, best first. Ties keep their input order.
func (r *Ranker) Rank(wireName string, candidates []domain.FileDescriptor) []domain.MatchResult {
	query := NormalizeQuery(wireName)
	now := r.now()

	results := make([]domain.MatchResult, 0, len(candidates))
	for _, file := range candidates {
		if !acceptedMimeTypes[file.MimeType] {
			continue
		}

		score, matched := r.score(query, file, now)
		if score <= 0 {
			continue
		}
		results = append(results, domain.MatchResult{
			File:            file,
			Score:           score,
			MatchedKeywords: matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// score sums every rule independently and returns the matched keywords
// in first-seen order.
func (r *Ranker) score(query NormalizedQuery, file domain.FileDescriptor, now time.Time) (int, []string) {
	name := strings.ToLower(file.Name)
	score := 0

	matched := make([]string, 0, len(query.Keywords))
	seen := make(map[string]bool)
	record := func(k string) {
		if !seen[k] {
			seen[k] = true
			matched = append(matched, k)
		}
	}

	for _, keyword := range query.Keywords {
		if strings.Contains(name, keyword) {
			score += r.cfg.KeywordWeight
			record(keyword)
		}
	}

	for _, keyword := range datasheetKeywords {
		if strings.Contains(name, keyword) {
			score += r.cfg.DomainKeywordWeight
			record(keyword)
		}
	}

	if query.Text != "" && strings.Contains(name, query.Text) {
		score += r.cfg.ExactMatchBonus
	}

	score += r.recencyBonus(file.ModifiedTime, now)

	return score, matched
}

// recencyBonus rewards recently modified files. Unparseable timestamps get 0.
func (r *Ranker) recencyBonus(modifiedTime string, now time.Time) int {
	modified, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(modifiedTime))
	if err != nil {
		return 0
	}

	daysOld := int(math.Floor(now.Sub(modified).Hours() / 24))
	switch {
	case daysOld <= 7:
		return r.cfg.RecencyWeek
	case daysOld <= 30:
		return r.cfg.RecencyMonth
	case daysOld <= 90:
		return r.cfg.RecencyQuarter
	default:
		return 0
	}
}
