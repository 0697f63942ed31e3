// Package term decodes six-digit academic term codes (YYYYNN) and answers the
// eligibility questions the batch workflows gate on. Every function is pure
// and total: malformed or unrecognized input yields false, never an error.
package term

import (
	"strings"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// Period code values: termCode mod 100.
const (
	PeriodWinterQuarter  = 1
	PeriodSpringSemester = 2
	PeriodSpringQuarter  = 3
	PeriodSummerSemester = 4
	PeriodSummerSession1 = 5
	PeriodSpecialSession = 6
	PeriodSummerSession2 = 7
	PeriodSummerQuarter  = 8
	PeriodFallSemester   = 9
	PeriodFallQuarter    = 10
)

// Category distinguishes semester-calendar periods from quarter-calendar ones.
type Category string

const (
	CategorySemester Category = "semester"
	CategoryQuarter  Category = "quarter"
)

// Period is the decoded calendar period of a term code.
type Period struct {
	Code     int
	Name     string
	Category Category
}

// Fixed lookup, not a seasonal inference: Winter/Spring/Fall Quarter share a
// season name with a semester but belong to the quarter calendar.
var periods = map[int]Period{
	PeriodWinterQuarter:  {PeriodWinterQuarter, "Winter Quarter", CategoryQuarter},
	PeriodSpringSemester: {PeriodSpringSemester, "Spring Semester", CategorySemester},
	PeriodSpringQuarter:  {PeriodSpringQuarter, "Spring Quarter", CategoryQuarter},
	PeriodSummerSemester: {PeriodSummerSemester, "Summer Semester", CategorySemester},
	PeriodSummerSession1: {PeriodSummerSession1, "Summer Session 1", CategoryQuarter},
	PeriodSpecialSession: {PeriodSpecialSession, "Special Session", CategoryQuarter},
	PeriodSummerSession2: {PeriodSummerSession2, "Summer Session 2", CategoryQuarter},
	PeriodSummerQuarter:  {PeriodSummerQuarter, "Summer Quarter", CategoryQuarter},
	PeriodFallSemester:   {PeriodFallSemester, "Fall Semester", CategorySemester},
	PeriodFallQuarter:    {PeriodFallQuarter, "Fall Quarter", CategoryQuarter},
}

// PeriodOf decodes the calendar period of a term code. ok is false for
// unrecognized period codes (including negative term codes).
func PeriodOf(termCode int) (Period, bool) {
	if termCode < 0 {
		return Period{}, false
	}
	p, ok := periods[termCode%100]
	return p, ok
}

// IsFallTermByCode reports whether the term code is Fall Semester or Fall Quarter.
func IsFallTermByCode(termCode int) bool {
	p, ok := PeriodOf(termCode)
	return ok && (p.Code == PeriodFallSemester || p.Code == PeriodFallQuarter)
}

// IsSemesterTerm reports whether the term code belongs to the semester calendar.
func IsSemesterTerm(termCode int) bool {
	p, ok := PeriodOf(termCode)
	return ok && p.Category == CategorySemester
}

// IsFallTerm reports whether a free-text term-type label names a fall term.
// Matching is exact-prefix and case-sensitive on "Fall Semester" and
// "Fall Quarter"; anything else, including empty or whitespace labels, is not
// a fall term. Broader label matching is deliberately not attempted — the
// by-code predicates are the robust path.
func IsFallTerm(termType string) bool {
	return strings.HasPrefix(termType, "Fall Semester") ||
		strings.HasPrefix(termType, "Fall Quarter")
}

// CanHarvest reports whether a term in the given status accepts a harvest run.
// Status comparison is case-sensitive; unknown statuses are not harvestable.
func CanHarvest(status string) bool {
	switch status {
	case model.TermStatusCreated, model.TermStatusHarvested:
		return true
	}
	return false
}

// CanRolloverPercentByCode reports whether the term code alone permits percent
// rollover; rollover is a fall-term-only workflow.
func CanRolloverPercentByCode(termCode int) bool {
	return IsFallTermByCode(termCode)
}

// CanRolloverPercent reports whether percent assignments may roll into the
// term: the term must still accept writes (Created/Harvested/Opened) and must
// be a fall term.
func CanRolloverPercent(status string, termCode int) bool {
	return statusAcceptsWrites(status) && IsFallTermByCode(termCode)
}

// CanImportClinical reports whether clinical effort may be imported into the
// term: the term must still accept writes and must be a semester term.
func CanImportClinical(status string, termCode int) bool {
	return statusAcceptsWrites(status) && IsSemesterTerm(termCode)
}

// statusAcceptsWrites covers the statuses during which effort data may still
// be loaded into a term.
func statusAcceptsWrites(status string) bool {
	switch status {
	case model.TermStatusCreated, model.TermStatusHarvested, model.TermStatusOpened:
		return true
	}
	return false
}
