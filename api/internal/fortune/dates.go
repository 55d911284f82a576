package fortune

import (
	"fmt"
	"regexp"
	"time"
)

// UTC+9, летнего времени нет
var JST = time.FixedZone("JST", 9*60*60)

const ymdLayout = "2006-01-02"

var reYMD = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock возвращает текущее время; подменяется в тестах.
type Clock func() time.Time

// TodayJST returns today's Tokyo date as midnight UTC.
func TodayJST(now time.Time) time.Time {
	y, m, d := now.In(JST).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseYMD принимает строго YYYY-MM-DD и реальную календарную дату.
func ParseYMD(s string) (time.Time, error) {
	if !reYMD.MatchString(s) {
		return time.Time{}, fmt.Errorf("not a YYYY-MM-DD date: %q", s)
	}
	return time.Parse(ymdLayout, s)
}

func FormatYMD(t time.Time) string { return t.Format(ymdLayout) }

func AddDaysYMD(base time.Time, n int) string {
	return FormatYMD(base.AddDate(0, 0, n))
}

// IsFutureYMD reports whether s is strictly after today.
func IsFutureYMD(s string, today time.Time) bool {
	t, err := ParseYMD(s)
	if err != nil {
		return false
	}
	return t.After(today)
}
