package movies

import (
	"context"
	"log"

	"github.com/movieduel/movieduel-backend/internal/preferences"
)

// CatalogSource is the external discovery surface the selector pages through
type CatalogSource interface {
	DiscoverMovies(ctx context.Context, query DiscoverQuery) ([]TMDBMovie, error)
}

// SelectorConfig bounds how much work one candidate build may do
type SelectorConfig struct {
	PreferenceTarget    int
	DiversityTarget     int
	MaxPreferencePages  int
	MaxDiversityPages   int
	MaxReplacementPages int
}

// Selector assembles candidate sets by paging the external catalog and
// matching results against the local store, with local fallbacks when the
// external source runs dry or errors
type Selector struct {
	repo    Repository
	catalog CatalogSource
	config  SelectorConfig
}

func NewSelector(repo Repository, catalog CatalogSource, config SelectorConfig) *Selector {
	return &Selector{repo: repo, catalog: catalog, config: config}
}

// BuildPreferenceSet collects up to PreferenceTarget movies matching the
// user's genres and year span
func (s *Selector) BuildPreferenceSet(ctx context.Context, userID int64, prefs *preferences.UserPreferences) ([]*CandidateMovie, error) {
	yearSet := make(map[int]bool, len(prefs.Years))
	for _, y := range prefs.Years {
		yearSet[y] = true
	}

	query := DiscoverQuery{
		GenreCodes: GenreCodes(prefs.Genres),
		YearFrom:   prefs.Years[0],
		YearTo:     prefs.Years[len(prefs.Years)-1],
	}

	candidates := s.collectFromCatalog(ctx, query, s.config.MaxPreferencePages,
		s.config.PreferenceTarget, SourcePreference, nil,
		func(m *Movie) bool { return yearSet[ExtractYear(m.Title)] })

	if len(candidates) < s.config.PreferenceTarget {
		short := s.config.PreferenceTarget - len(candidates)
		recordLocalFallback(SourcePreference)
		fallback, err := s.repo.GetPreferenceFallback(ctx, userID,
			prefs.Genres, prefs.Years, candidateIDs(candidates), short)
		if err != nil {
			return nil, err
		}
		for _, m := range fallback {
			candidates = append(candidates, &CandidateMovie{Movie: *m, Source: SourcePreference})
		}
	}

	return candidates, nil
}

// BuildDiversitySet collects up to DiversityTarget movies from genres
// outside the user's preferences, skipping anything already selected
func (s *Selector) BuildDiversitySet(ctx context.Context, userID int64, prefs *preferences.UserPreferences, selected []*CandidateMovie) ([]*CandidateMovie, error) {
	complement := ComplementGenres(prefs.Genres)
	query := DiscoverQuery{GenreCodes: GenreCodes(complement)}

	// The catalog treats genre codes as an OR filter, so a result can still
	// carry one of the preferred genres alongside a complement genre.
	taken := idSet(candidateIDs(selected))
	candidates := s.collectFromCatalog(ctx, query, s.config.MaxDiversityPages,
		s.config.DiversityTarget, SourceRandom,
		func(m *Movie) bool { return !taken[m.MovieID] && !genresOverlap(m, prefs.Genres) }, nil)

	if len(candidates) < s.config.DiversityTarget {
		short := s.config.DiversityTarget - len(candidates)
		recordLocalFallback(SourceRandom)
		exclude := append(candidateIDs(selected), candidateIDs(candidates)...)
		fallback, err := s.repo.GetDiversityFallback(ctx, userID, prefs.Genres, exclude, short)
		if err != nil {
			return nil, err
		}
		for _, m := range fallback {
			candidates = append(candidates, &CandidateMovie{Movie: *m, Source: SourceRandom})
		}
	}

	return candidates, nil
}

// FindReplacement produces one unseen candidate for the given source path,
// or ErrCatalogExhausted when neither the external catalog nor the local
// store has anything left
func (s *Selector) FindReplacement(ctx context.Context, userID int64, prefs *preferences.UserPreferences, source string, excludeIDs []int64) (*CandidateMovie, error) {
	shown, err := s.repo.GetShownMovieIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := idSet(append(shown, excludeIDs...))

	var query DiscoverQuery
	keep := func(m *Movie) bool { return !seen[m.MovieID] }
	var yearFilter func(*Movie) bool
	if source == SourcePreference {
		yearSet := make(map[int]bool, len(prefs.Years))
		for _, y := range prefs.Years {
			yearSet[y] = true
		}
		query = DiscoverQuery{
			GenreCodes: GenreCodes(prefs.Genres),
			YearFrom:   prefs.Years[0],
			YearTo:     prefs.Years[len(prefs.Years)-1],
		}
		yearFilter = func(m *Movie) bool { return yearSet[ExtractYear(m.Title)] }
	} else {
		query = DiscoverQuery{GenreCodes: GenreCodes(ComplementGenres(prefs.Genres))}
		keep = func(m *Movie) bool { return !seen[m.MovieID] && !genresOverlap(m, prefs.Genres) }
	}

	candidates := s.collectFromCatalog(ctx, query, s.config.MaxReplacementPages, 1,
		source, keep, yearFilter)
	if len(candidates) > 0 {
		return candidates[0], nil
	}

	recordLocalFallback(source)
	exclude := append(shown, excludeIDs...)

	// A preference replacement must keep matching the user's stated taste,
	// so it never degrades to an unconstrained pick.
	if source == SourcePreference {
		fallback, err := s.repo.GetPreferenceFallback(ctx, userID, prefs.Genres, prefs.Years, exclude, 1)
		if err != nil {
			return nil, err
		}
		if len(fallback) == 0 {
			return nil, ErrCatalogExhausted
		}
		return &CandidateMovie{Movie: *fallback[0], Source: source}, nil
	}

	fallback, err := s.repo.GetDiversityFallback(ctx, userID, prefs.Genres, exclude, 1)
	if err != nil {
		return nil, err
	}
	if len(fallback) > 0 {
		return &CandidateMovie{Movie: *fallback[0], Source: source}, nil
	}

	movie, err := s.repo.GetRandomFallback(ctx, userID, exclude)
	if err != nil {
		return nil, err
	}
	return &CandidateMovie{Movie: *movie, Source: source}, nil
}

func genresOverlap(m *Movie, genres []string) bool {
	if len(genres) == 0 {
		return false
	}
	wanted := make(map[string]bool, len(genres))
	for _, g := range genres {
		wanted[g] = true
	}
	for _, g := range m.GenreList() {
		if wanted[g] {
			return true
		}
	}
	return false
}

// collectFromCatalog pages the external catalog until target candidates are
// matched locally or the page cap is hit. External errors are logged and
// treated as an empty page so the local fallbacks can take over.
func (s *Selector) collectFromCatalog(ctx context.Context, query DiscoverQuery, maxPages, target int, source string, keep, yearFilter func(*Movie) bool) []*CandidateMovie {
	candidates := make([]*CandidateMovie, 0, target)
	picked := make(map[int64]bool)

	for page := 1; page <= maxPages && len(candidates) < target; page++ {
		query.Page = page
		results, err := s.catalog.DiscoverMovies(ctx, query)
		if err != nil {
			log.Printf("catalog discover failed (source=%s page=%d): %v", source, page, err)
			break
		}
		recordCatalogPage(source)
		if len(results) == 0 {
			break
		}

		tmdbIDs := make([]int64, len(results))
		for i, r := range results {
			tmdbIDs[i] = r.ID
		}
		matched, err := s.repo.GetMoviesByTMDBIDs(ctx, tmdbIDs)
		if err != nil {
			log.Printf("catalog match failed (source=%s page=%d): %v", source, page, err)
			break
		}

		for _, m := range matched {
			if len(candidates) >= target {
				break
			}
			if picked[m.MovieID] {
				continue
			}
			if keep != nil && !keep(m) {
				continue
			}
			if yearFilter != nil && !yearFilter(m) {
				continue
			}
			picked[m.MovieID] = true
			candidates = append(candidates, &CandidateMovie{Movie: *m, Source: source})
		}
	}

	return candidates
}

func candidateIDs(candidates []*CandidateMovie) []int64 {
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.MovieID
	}
	return ids
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
