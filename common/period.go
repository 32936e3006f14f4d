package common

// schema for service-day time period, used for demand bucketing
// and for timestamping derived schedules
type TimePeriod string

const (
	Night         TimePeriod = "night"
	MorningPeak   TimePeriod = "morning_peak"
	Midday        TimePeriod = "midday"
	AfternoonPeak TimePeriod = "afternoon_peak"
	Evening       TimePeriod = "evening"
)

// canonical period start times (HH:MM:SS)
var period_start = map[TimePeriod]string{
	Night:         "22:00:00",
	MorningPeak:   "07:00:00",
	Midday:        "12:00:00",
	AfternoonPeak: "17:00:00",
	Evening:       "19:00:00",
}

// Periods returns the fixed enumeration in canonical order
func Periods() []TimePeriod {
	return []TimePeriod{MorningPeak, Midday, AfternoonPeak, Evening, Night}
}

// StartTime returns the canonical start of the period
func (p TimePeriod) StartTime() string {
	return period_start[p]
}

// Valid reports whether p is one of the enumerated periods
func (p TimePeriod) Valid() bool {
	_, ok := period_start[p]
	return ok
}
