package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ledger-backend/utils"
)

// Period is a reporting window length in days.
type Period int

const DefaultPeriod Period = 30

// Periods lists the windows offered to clients.
var Periods = []Period{7, 30, 90, 365}

// ParsePeriod accepts "7", "30", "90" or "365". Anything else falls back to
// the default window.
func ParsePeriod(s string) Period {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultPeriod
	}
	for _, p := range Periods {
		if int(p) == n {
			return p
		}
	}
	return DefaultPeriod
}

func (p Period) Days() int {
	return int(p)
}

func (p Period) Label() string {
	return fmt.Sprintf("%d days", int(p))
}

// Window is an inclusive calendar-day range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (p Period) Window(today time.Time) Window {
	end := utils.DateOnly(today)
	return Window{Start: end.AddDate(0, 0, -int(p)), End: end}
}

func (w Window) Contains(t time.Time) bool {
	d := utils.DateOnly(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w Window) StartsBefore(t time.Time) bool {
	return !utils.DateOnly(t).Before(w.Start)
}

// DateRange is the JSON rendering of a Window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w Window) Range() DateRange {
	return DateRange{Start: w.Start.Format(utils.DateLayout), End: w.End.Format(utils.DateLayout)}
}
