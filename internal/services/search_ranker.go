// internal/services/search_ranker.go
package services

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/kartify/storefront-backend/internal/config"
	"github.com/kartify/storefront-backend/internal/models"
)

// Field weights for the multi-field product index. Name dominates,
// category and description contribute, highlights barely nudge.
const (
	weightName        = 0.7
	weightCategory    = 0.5
	weightDescription = 0.2
	weightHighlights  = 0.1
)

// SearchRanker re-orders an in-memory product list by weighted fuzzy
// relevance to a query. It holds no state beyond its tuning and is
// deterministic for identical inputs: scores decide the order, input
// position breaks ties.
type SearchRanker struct {
	minQueryLength int
	minScore       int
}

func NewSearchRanker(cfg config.SearchConfig) *SearchRanker {
	minLen := cfg.MinQueryLength
	if minLen < 1 {
		minLen = 3
	}
	return &SearchRanker{
		minQueryLength: minLen,
		minScore:       cfg.MinScore,
	}
}

// Rank returns the subset of products matching query, ordered by descending
// relevance. Queries shorter than the minimum match length match nothing.
func (r *SearchRanker) Rank(products []models.Product, query string) []models.Product {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < r.minQueryLength {
		return []models.Product{}
	}

	type scoredProduct struct {
		index int
		score float64
	}

	scored := make([]scoredProduct, 0, len(products))
	for i := range products {
		if score, ok := r.score(&products[i], query); ok {
			scored = append(scored, scoredProduct{index: i, score: score})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	ranked := make([]models.Product, 0, len(scored))
	for _, s := range scored {
		ranked = append(ranked, products[s.index])
	}
	return ranked
}

// score combines per-field fuzzy scores into one weighted relevance value.
// The fuzzy scorer already penalizes matches that start deep inside the
// field, which gives the start-of-field bias the product search wants.
func (r *SearchRanker) score(p *models.Product, query string) (float64, bool) {
	total := 0.0
	matched := false

	if s, ok := r.fieldScore(query, p.Name); ok {
		total += weightName * s
		matched = true
	}
	if name, ok := p.CategoryName(); ok {
		if s, ok := r.fieldScore(query, name); ok {
			total += weightCategory * s
			matched = true
		}
	}
	if s, ok := r.fieldScore(query, p.Description); ok {
		total += weightDescription * s
		matched = true
	}
	for _, h := range p.Highlights {
		if s, ok := r.fieldScore(query, h); ok {
			total += weightHighlights * s
			matched = true
			break
		}
	}

	return total, matched
}

// fieldScore runs the fuzzy matcher over a single field and applies the
// similarity threshold.
func (r *SearchRanker) fieldScore(query, field string) (float64, bool) {
	if field == "" {
		return 0, false
	}
	matches := fuzzy.Find(query, []string{field})
	if len(matches) == 0 {
		return 0, false
	}
	best := matches[0].Score
	if best < r.minScore {
		return 0, false
	}
	return float64(best), true
}
