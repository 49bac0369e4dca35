package season

import (
	"errors"
	"fmt"
	"slices"
)

// earliest and latest seasons with a full set of published calendars
const (
	EarliestYear = 2018
	LatestYear   = 2024
)

// calendars are published as JSON from this season on, HTML before it
const JSONCalendarStartYear = 2021

// concert detail pages switched markup generation with this season
const CurrentEraStartYear = 2021

// seasons run from February to December
var Months = []string{
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

var ErrInvalidYear = errors.New("invalid season year")

// DefaultDatabase is the store file used when the full season range is imported
// with the default prefix.
var DefaultDatabase = fmt.Sprintf("sso_html_%d_%d.db", EarliestYear, LatestYear)

func ValidateYears(years []int) error {
	if len(years) == 0 {
		return fmt.Errorf("%w: list of input years is empty", ErrInvalidYear)
	}
	if slices.Min(years) < EarliestYear {
		return fmt.Errorf("%w: input years cannot be earlier than %d", ErrInvalidYear, EarliestYear)
	}
	if slices.Max(years) > LatestYear {
		return fmt.Errorf("%w: input years cannot be later than %d", ErrInvalidYear, LatestYear)
	}
	return nil
}

func ValidateHTMLCalendarYear(year int) error {
	if year < EarliestYear || year >= JSONCalendarStartYear {
		return fmt.Errorf(
			"%w: html calendar year must be between %d and %d",
			ErrInvalidYear, EarliestYear, JSONCalendarStartYear-1,
		)
	}
	return nil
}

func ValidateJSONCalendarYear(year int) error {
	if year < JSONCalendarStartYear || year > LatestYear {
		return fmt.Errorf(
			"%w: json calendar year must be between %d and %d",
			ErrInvalidYear, JSONCalendarStartYear, LatestYear,
		)
	}
	return nil
}

// Era identifies the markup generation of a concert detail page.
type Era int

const (
	Legacy Era = iota
	Current
)

func EraForYear(year int) Era {
	if year >= CurrentEraStartYear {
		return Current
	}
	return Legacy
}

func (e Era) String() string {
	switch e {
	case Legacy:
		return "legacy"
	case Current:
		return "current"
	}
	return fmt.Sprintf("Era(%d)", int(e))
}
