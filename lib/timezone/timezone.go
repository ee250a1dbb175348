package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("UTC")
	if err != nil {
		panic(err)
	}
}

// force the timezone to be fixed because our servers can end up in
// arbitrary regions which will cause disturbances when manipulating
// dates based on <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// DateLayout is the layout used for calendar dates everywhere downstream.
const DateLayout = "2006-01-02"

// Truncate drops the time-of-day component of t.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// Today returns the start of the current calendar date.
func Today() time.Time {
	return Truncate(Now())
}
