// Package calendar adds amortization units to timestamps with calendar
// semantics: months and years keep the day of month, clamped to the last day
// of the target month.
package calendar

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
)

// maxHours is the largest hour count representable as a time.Duration.
const maxHours = math.MaxInt64 / int64(time.Hour)

// AddUnit returns t advanced by count units. The result is in UTC.
func AddUnit(t time.Time, unit models.AmortizationUnit, count int64) (time.Time, error) {
	t = t.UTC()
	switch unit {
	case models.Hours:
		if count > maxHours || count < -maxHours {
			return time.Time{}, apperr.WithMetadata(apperr.CodeInvalidTermLength,
				fmt.Sprintf("%d hours overflows a duration", count),
				map[string]string{"value": strconv.FormatInt(count, 10)})
		}
		return t.Add(time.Duration(count) * time.Hour), nil
	case models.Days:
		return t.AddDate(0, 0, int(count)), nil
	case models.Weeks:
		return t.AddDate(0, 0, int(count)*7), nil
	case models.Months:
		return addMonths(t, count), nil
	case models.Years:
		return addMonths(t, count*12), nil
	}
	return time.Time{}, apperr.WithMetadata(apperr.CodeInvalidAmortizationUnitType,
		fmt.Sprintf("amortization unit %q is not one of hours, days, weeks, months, years", unit),
		map[string]string{"value": string(unit)})
}

// AddUnitUnix is AddUnit over unix seconds.
func AddUnitUnix(ts int64, unit models.AmortizationUnit, count int64) (int64, error) {
	t, err := AddUnit(time.Unix(ts, 0), unit, count)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

func addMonths(t time.Time, months int64) time.Time {
	y, m, d := t.Date()

	total := int64(y)*12 + int64(m-1) + months
	year := floorDiv(total, 12)
	month := time.Month(total-year*12) + 1

	if last := daysIn(int(year), month); d > last {
		d = last
	}
	return time.Date(int(year), month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
