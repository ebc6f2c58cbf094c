package utils

// Display layouts
const (
	CLOCK_LAYOUT     = "15:04"
	DATETIME_LAYOUT  = "2006-01-02 15:04"
	DATE_LAYOUT      = "2006-01-02"
	UPSTREAM_LAYOUT  = "2006-01-02T15:04:05"
	UPSTREAM_MINUTES = "2006-01-02T15:04"
)

// NOT_AVAILABLE is rendered in place of absent scalar values
const NOT_AVAILABLE = "N/A"

// timestampLayouts are tried in order when parsing upstream timestamps.
// The upstream sends airport-local wall clock without an offset.
var timestampLayouts = []string{
	UPSTREAM_LAYOUT,
	"2006-01-02T15:04:05.000",
	UPSTREAM_MINUTES,
	"2006-01-02T15:04:05Z07:00",
}
