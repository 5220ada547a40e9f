package movies

import (
	"regexp"
	"strconv"
	"strings"
)

// Source tags mark which selection path produced a candidate
const (
	SourcePreference = "preference"
	SourceRandom     = "random"
)

// Movie is an immutable catalog record created by the offline import.
// The title conventionally embeds the release year: "Heat (1995)".
type Movie struct {
	MovieID int64  `json:"movieId" db:"movieid"`
	Title   string `json:"title" db:"title"`
	Genres  string `json:"genres" db:"genres"` // pipe-delimited: "Action|Crime|Thriller"
	TMDBID  *int64 `json:"tmdbId,omitempty" db:"tmdbid"`
}

// GenreList splits the pipe-delimited genre string
func (m *Movie) GenreList() []string {
	if m.Genres == "" {
		return nil
	}
	return strings.Split(m.Genres, "|")
}

// CandidateMovie is a catalog record tagged with its selection source
type CandidateMovie struct {
	Movie
	Source string `json:"source"`
}

// LikedMovie is a liked catalog item with the year pulled out of the title
type LikedMovie struct {
	MovieID int64  `json:"movieId" db:"movieid"`
	Title   string `json:"title" db:"title"`
	Year    *int   `json:"year" db:"year"`
}

// RateMoviesRequest carries the survey ratings map, keyed by movie id.
// All ratings are written in one transaction - all or nothing.
type RateMoviesRequest struct {
	Ratings map[string]int `json:"ratings" validate:"required,min=1,dive,min=1,max=5"`
}

var titleYearRe = regexp.MustCompile(`\((\d{4})\)`)

// ExtractYear pulls the 4-digit release year out of a catalog title,
// returning 0 when the title carries none
func ExtractYear(title string) int {
	match := titleYearRe.FindStringSubmatch(title)
	if match == nil {
		return 0
	}
	year, _ := strconv.Atoi(match[1])
	return year
}
