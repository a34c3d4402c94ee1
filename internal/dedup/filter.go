package dedup

import "TrendRadar/internal/domain"

// DefaultTitleSimilarity is the title-similarity ratio at or above which a
// candidate is considered already covered.
const DefaultTitleSimilarity = 0.75

// FilterNew drops candidates already covered by the retained newsletter
// history: first any candidate whose URL appeared in a published issue, then
// any whose normalized title is at least threshold-similar to a published
// title. Candidate order is preserved and history is never mutated; a
// non-positive threshold falls back to the default.
func FilterNew(candidates []domain.Article, history []domain.HistoryEntry, threshold float64) []domain.Article {
	if threshold <= 0 {
		threshold = DefaultTitleSimilarity
	}
	if len(candidates) == 0 || len(history) == 0 {
		return candidates
	}

	seenURLs := make(map[string]struct{})
	var seenTitles []string
	for _, entry := range history {
		for _, published := range entry.Articles {
			if published.URL != "" {
				seenURLs[published.URL] = struct{}{}
			}
			if published.Title != "" {
				seenTitles = append(seenTitles, NormalizeTitle(published.Title))
			}
		}
	}

	kept := make([]domain.Article, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := seenURLs[candidate.URL]; ok {
			continue
		}
		if coveredTitle(NormalizeTitle(candidate.Title), seenTitles, threshold) {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

func coveredTitle(title string, published []string, threshold float64) bool {
	for _, past := range published {
		if Ratio(title, past) >= threshold {
			return true
		}
	}
	return false
}
