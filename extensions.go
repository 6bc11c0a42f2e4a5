package dynser

import (
	"net/url"
	"reflect"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// textOpts are the options that affect the canonical text of
// extension values.
type textOpts struct {
	utcZ       bool
	omitMicros bool
}

var (
	dateType     = reflect.TypeFor[civil.Date]()
	timeType     = reflect.TypeFor[civil.Time]()
	dateTimeType = reflect.TypeFor[civil.DateTime]()
	zonedType    = reflect.TypeFor[time.Time]()
)

// FormatDate returns the canonical text of d, YYYY-MM-DD.
func FormatDate(d civil.Date) (string, error) {
	bs, err := appendDate(nil, d, dateType)
	return string(bs), err
}

// FormatTime returns the canonical text of t, HH:MM:SS followed by
// microseconds if they are non-zero.
func FormatTime(t civil.Time) (string, error) {
	bs, err := appendTime(nil, t, timeType, textOpts{})
	return string(bs), err
}

// FormatDateTime returns the canonical text of dt, its date and time
// joined by 'T'.
func FormatDateTime(dt civil.DateTime) (string, error) {
	bs, err := appendDateTime(nil, dt, dateTimeType, textOpts{})
	return string(bs), err
}

// FormatZoned returns the canonical text of t: its local date and
// time, followed by its UTC offset as +HH:MM or -HH:MM.
func FormatZoned(t time.Time) (string, error) {
	bs, err := appendZoned(nil, t, textOpts{})
	return string(bs), err
}

// FormatDuration returns d as a signed ISO 8601 duration, for
// example "P1DT2H3M4.5S" or "-PT0.001S". Days are exactly 24 hours.
func FormatDuration(d time.Duration) string {
	return string(appendDuration(nil, d))
}

// FormatUUID returns the canonical lower-case hyphenated text of u.
func FormatUUID(u uuid.UUID) string {
	return u.String()
}

// FormatURL returns the text of u as produced by its own printer.
func FormatURL(u *url.URL) string {
	return u.String()
}

// appendInt appends n, zero padded to width digits.
func appendInt(bs []byte, n int, width int) []byte {
	var buf [20]byte
	s := strconv.AppendInt(buf[:0], int64(n), 10)
	for i := len(s); i < width; i++ {
		bs = append(bs, '0')
	}
	return append(bs, s...)
}

func appendDate(bs []byte, d civil.Date, t reflect.Type) ([]byte, error) {
	if d.Year < 0 || d.Year > 9999 {
		return nil, overflowErr(t, "year", "%d does not fit in 4 digits", d.Year)
	}
	if d.Month < time.January || d.Month > time.December {
		return nil, valueErr(t, "month", "%d is not a month", int(d.Month))
	}
	if !d.IsValid() {
		return nil, valueErr(t, "day", "%d is not a day of %s %d", d.Day, d.Month, d.Year)
	}
	bs = appendInt(bs, d.Year, 4)
	bs = append(bs, '-')
	bs = appendInt(bs, int(d.Month), 2)
	bs = append(bs, '-')
	bs = appendInt(bs, d.Day, 2)
	return bs, nil
}

func appendClock(bs []byte, hour, minute, sec, nsec int, opts textOpts) []byte {
	bs = appendInt(bs, hour, 2)
	bs = append(bs, ':')
	bs = appendInt(bs, minute, 2)
	bs = append(bs, ':')
	bs = appendInt(bs, sec, 2)
	if micros := nsec / 1000; micros != 0 && !opts.omitMicros {
		bs = append(bs, '.')
		bs = appendInt(bs, micros, 6)
	}
	return bs
}

func appendTime(bs []byte, ct civil.Time, t reflect.Type, opts textOpts) ([]byte, error) {
	switch {
	case ct.Hour < 0 || ct.Hour > 23:
		return nil, valueErr(t, "hour", "%d is not an hour of the day", ct.Hour)
	case ct.Minute < 0 || ct.Minute > 59:
		return nil, valueErr(t, "minute", "%d is not a minute of the hour", ct.Minute)
	case ct.Second < 0 || ct.Second > 59:
		return nil, valueErr(t, "second", "%d is not a second of the minute", ct.Second)
	case ct.Nanosecond < 0 || ct.Nanosecond > 999_999_999:
		return nil, valueErr(t, "nanosecond", "%d is not a fraction of a second", ct.Nanosecond)
	}
	return appendClock(bs, ct.Hour, ct.Minute, ct.Second, ct.Nanosecond, opts), nil
}

func appendDateTime(bs []byte, dt civil.DateTime, t reflect.Type, opts textOpts) ([]byte, error) {
	bs, err := appendDate(bs, dt.Date, t)
	if err != nil {
		return nil, err
	}
	bs = append(bs, 'T')
	return appendTime(bs, dt.Time, t, opts)
}

func appendZoned(bs []byte, zt time.Time, opts textOpts) ([]byte, error) {
	bs, err := appendDate(bs, civil.DateOf(zt), zonedType)
	if err != nil {
		return nil, err
	}
	bs = append(bs, 'T')
	bs = appendClock(bs, zt.Hour(), zt.Minute(), zt.Second(), zt.Nanosecond(), opts)

	_, off := zt.Zone()
	if off == 0 && opts.utcZ {
		return append(bs, 'Z'), nil
	}
	if off < 0 {
		bs = append(bs, '-')
		off = -off
	} else {
		bs = append(bs, '+')
	}
	if off >= 100*3600 {
		return nil, overflowErr(zonedType, "offset", "%s does not fit in 2 hour digits", time.Duration(off)*time.Second)
	}
	bs = appendInt(bs, off/3600, 2)
	bs = append(bs, ':')
	bs = appendInt(bs, off/60%60, 2)
	if s := off % 60; s != 0 {
		bs = append(bs, ':')
		bs = appendInt(bs, s, 2)
	}
	return bs, nil
}

func appendDuration(bs []byte, d time.Duration) []byte {
	if d == 0 {
		return append(bs, "PT0S"...)
	}
	u := uint64(d)
	if d < 0 {
		bs = append(bs, '-')
		// Two's complement negation, correct for math.MinInt64 too.
		u = -u
	}
	const (
		second = uint64(time.Second)
		minute = uint64(time.Minute)
		hour   = uint64(time.Hour)
		day    = 24 * hour
	)
	days, u := u/day, u%day
	hours, u := u/hour, u%hour
	mins, u := u/minute, u%minute
	secs, frac := u/second, u%second

	bs = append(bs, 'P')
	if days > 0 {
		bs = strconv.AppendUint(bs, days, 10)
		bs = append(bs, 'D')
	}
	if hours == 0 && mins == 0 && secs == 0 && frac == 0 {
		return bs
	}
	bs = append(bs, 'T')
	if hours > 0 {
		bs = strconv.AppendUint(bs, hours, 10)
		bs = append(bs, 'H')
	}
	if mins > 0 {
		bs = strconv.AppendUint(bs, mins, 10)
		bs = append(bs, 'M')
	}
	if secs > 0 || frac > 0 {
		bs = strconv.AppendUint(bs, secs, 10)
		if frac > 0 {
			var digits [9]byte
			for i := 8; i >= 0; i-- {
				digits[i] = byte('0' + frac%10)
				frac /= 10
			}
			n := 9
			for digits[n-1] == '0' {
				n--
			}
			bs = append(bs, '.')
			bs = append(bs, digits[:n]...)
		}
		bs = append(bs, 'S')
	}
	return bs
}
