package scanner

import (
	"regexp"
	"strconv"
	"time"
)

// Recorder apps encode the capture instant into the file name as
// _YYMMDD_HHMMSS, e.g. REC_211006_085843.m4a. The year is an offset from
// 2000 and the fields are local time.
var nameTimestampRe = regexp.MustCompile(`_(\d{6})_(\d{6})`)

// TimestampFromName decodes the filename-embedded timestamp. The second
// return value is false when the name carries no recognizable pattern or the
// digits do not form a valid instant.
func TimestampFromName(name string) (time.Time, bool) {
	m := nameTimestampRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}

	datePart, timePart := m[1], m[2]
	year := 2000 + atoi(datePart[0:2])
	month := atoi(datePart[2:4])
	day := atoi(datePart[4:6])
	hour := atoi(timePart[0:2])
	minute := atoi(timePart[2:4])
	second := atoi(timePart[4:6])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	// time.Date normalizes overflow (e.g. Feb 30); reject anything that moved.
	if ts.Day() != day || ts.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return ts, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
