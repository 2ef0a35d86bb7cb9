// Package boilerplate finds phrases repeated across many cached records.
package boilerplate

import (
	"sort"

	"github.com/hyperjump/kembar/internal/corpus"
	"github.com/hyperjump/kembar/internal/fingerprint"
	"github.com/hyperjump/kembar/internal/models"
)

// Phrases maps each boilerplate phrase to the sorted ids of the records containing it.
type Phrases map[string][]string

// Detect shingles every cached record into phraseLength-word phrases and returns those
// found in at least minOccurrences distinct records, excluding filler. The whole cache
// is rescanned on every call.
func Detect(cache *corpus.Cache, phraseLength, minOccurrences int) Phrases {
	seen := make(map[string]map[string]struct{})
	for _, e := range cache.All() {
		for phrase := range fingerprint.Shingles(e.Text, phraseLength) {
			ids, ok := seen[phrase]
			if !ok {
				ids = make(map[string]struct{}, 1)
				seen[phrase] = ids
			}
			ids[e.ID] = struct{}{}
		}
	}

	out := make(Phrases)
	for phrase, ids := range seen {
		if len(ids) < minOccurrences || IsFiller(phrase) {
			continue
		}
		list := make([]string, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		sort.Strings(list)
		out[phrase] = list
	}
	return out
}

// For returns up to limit phrases that occur in record id, most widespread first.
// A limit of zero or less returns all of them.
func (p Phrases) For(id string, limit int) []models.BoilerplatePhrase {
	var out []models.BoilerplatePhrase
	for phrase, ids := range p {
		i := sort.SearchStrings(ids, id)
		if i == len(ids) || ids[i] != id {
			continue
		}
		out = append(out, models.BoilerplatePhrase{Phrase: phrase, Occurrences: len(ids)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Phrase < out[j].Phrase
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
