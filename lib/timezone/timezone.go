package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Australia/Sydney")
	if err != nil {
		panic(err)
	}
}

// the orchestra and its seasons live in Sydney, dated backup suffixes
// follow the local calendar day there regardless of where this runs.
func Now() time.Time {
	return time.Now().In(Location)
}
