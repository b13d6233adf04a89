package shared

import "time"

// Clock tells the domain what day it is.
type Clock interface {
	Today() Date
}

type systemClock struct {
	loc *time.Location
}

// NewClock returns a Clock reading the system time in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Today() Date {
	return DateOf(time.Now().In(c.loc))
}

// FixedClock always reports the same day. Used in tests.
type FixedClock Date

func (c FixedClock) Today() Date {
	return Date(c)
}
