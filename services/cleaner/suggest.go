package cleaner

import (
	"github.com/antzucaro/matchr"
)

// minAliasSimilarity is the Jaro-Winkler score below which two names are
// not worth showing to the operator.
const minAliasSimilarity = 0.85

type Alias struct {
	Composer    string
	Suggested   string
	Correlation float64
}

// SuggestAliases pairs each unmapped composer with the most similar known
// name. Each known name is suggested at most once, in the order of
// unmapped.
func SuggestAliases(unmapped, known []string) []Alias {
	var result []Alias
	matchedRight := make(map[string]struct{})

	for _, left := range unmapped {
		var mostSimilarity float64
		var mostSimilarRight string
		for _, right := range known {
			if _, ok := matchedRight[right]; ok {
				continue
			}
			similarity := matchr.JaroWinkler(left, right, false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilarRight = right
			}
		}

		if mostSimilarity >= minAliasSimilarity {
			result = append(result, Alias{
				Composer:    left,
				Suggested:   mostSimilarRight,
				Correlation: mostSimilarity,
			})
			matchedRight[mostSimilarRight] = struct{}{}
		}
	}

	return result
}
