package movies

import "sort"

// tmdbGenreCodes maps catalog genre names to TMDB genre ids.
// Genres outside this map (IMAX, Film-Noir, "(no genres listed)") have no
// TMDB equivalent and are skipped when building discover queries.
var tmdbGenreCodes = map[string]int{
	"Action":      28,
	"Adventure":   12,
	"Animation":   16,
	"Comedy":      35,
	"Crime":       80,
	"Documentary": 99,
	"Drama":       18,
	"Fantasy":     14,
	"History":     36,
	"Horror":      27,
	"Musical":     10402,
	"Mystery":     9648,
	"Romance":     10749,
	"Sci-Fi":      878,
	"Thriller":    53,
	"War":         10752,
	"Western":     37,
}

// GenreCodes resolves catalog genre names to TMDB ids, dropping unknowns
func GenreCodes(genres []string) []int {
	codes := make([]int, 0, len(genres))
	for _, g := range genres {
		if code, ok := tmdbGenreCodes[g]; ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// ComplementGenres returns every mappable genre name NOT in the given set,
// in stable order. The diversity path queries these to pull candidates
// outside the user's stated taste.
func ComplementGenres(genres []string) []string {
	chosen := make(map[string]bool, len(genres))
	for _, g := range genres {
		chosen[g] = true
	}
	out := make([]string, 0, len(tmdbGenreCodes))
	for name := range tmdbGenreCodes {
		if !chosen[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
