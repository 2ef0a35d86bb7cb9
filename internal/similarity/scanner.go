// Package similarity compares a record's fingerprint against cached records of the same category.
package similarity

import (
	"sort"

	"github.com/hyperjump/kembar/internal/corpus"
	"github.com/hyperjump/kembar/internal/fingerprint"
	"github.com/hyperjump/kembar/internal/models"
	"github.com/hyperjump/kembar/pkg/utils"
)

// Result is the outcome of one scan.
type Result struct {
	// Matches holds every match at or above the threshold, highest score first.
	Matches []models.SimilarityMatch
	// MaxScore is the highest score seen against any compared record, flagged or not.
	MaxScore int
	// Compared is the number of records the fingerprint was compared against.
	Compared int
}

// Scan computes the Jaccard similarity (as 0-100) between fp and every cached record of
// category except id, keeping those scoring at least threshold. A zero score never
// matches. Ties are ordered by id.
func Scan(id string, fp fingerprint.Set, category models.Category, cache *corpus.Cache, threshold int) Result {
	var res Result
	for _, e := range cache.Others(category, id) {
		res.Compared++
		score := utils.Percent(fingerprint.Jaccard(fp, e.Fingerprint))
		if score > res.MaxScore {
			res.MaxScore = score
		}
		if score >= threshold && score > 0 {
			res.Matches = append(res.Matches, models.SimilarityMatch{ID: e.ID, Score: score})
		}
	}
	sort.Slice(res.Matches, func(i, j int) bool {
		if res.Matches[i].Score != res.Matches[j].Score {
			return res.Matches[i].Score > res.Matches[j].Score
		}
		return res.Matches[i].ID < res.Matches[j].ID
	})
	return res
}

// Top returns at most n matches from the front of matches.
func Top(matches []models.SimilarityMatch, n int) []models.SimilarityMatch {
	if n < 0 || len(matches) <= n {
		return matches
	}
	return matches[:n]
}
