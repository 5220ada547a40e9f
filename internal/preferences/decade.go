package preferences

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownDecade means the stored decade answer is not one we can expand.
// This must surface to the caller: defaulting here would silently corrupt
// every downstream year filter.
var ErrUnknownDecade = errors.New("unknown decade")

// Year bounds for open-ended decade labels
const (
	decadeFloor   = 1920
	decadeCeiling = 2029
)

var (
	beforeDecadeRe = regexp.MustCompile(`^before (\d{4})s$`)
	laterDecadeRe  = regexp.MustCompile(`^(\d{4})s and later$`)
	plainDecadeRe  = regexp.MustCompile(`^(\d{4})s$`)
)

// ExpandDecade maps a decade label to the ordered list of years it covers:
//
//	"before 1990s"    -> 1920..1989
//	"1990s"           -> 1990..1999
//	"2010s and later" -> 2010..2029
func ExpandDecade(label string) ([]int, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))

	switch {
	case beforeDecadeRe.MatchString(normalized):
		decade := decadeOf(beforeDecadeRe, normalized)
		years := yearRange(decadeFloor, decade-1)
		if len(years) == 0 {
			return nil, fmt.Errorf("%w: %q covers no years", ErrUnknownDecade, label)
		}
		return years, nil

	case laterDecadeRe.MatchString(normalized):
		decade := decadeOf(laterDecadeRe, normalized)
		return yearRange(decade, decadeCeiling), nil

	case plainDecadeRe.MatchString(normalized):
		decade := decadeOf(plainDecadeRe, normalized)
		return yearRange(decade, decade+9), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDecade, label)
	}
}

func decadeOf(re *regexp.Regexp, label string) int {
	match := re.FindStringSubmatch(label)
	decade, _ := strconv.Atoi(match[1])
	return decade
}

func yearRange(from, to int) []int {
	if to < from {
		return nil
	}
	years := make([]int, 0, to-from+1)
	for year := from; year <= to; year++ {
		years = append(years, year)
	}
	return years
}
