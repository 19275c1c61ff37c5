package utils

import (
	"time"

	"github.com/oklog/ulid/v2"
)

func GenerateULIDString() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

func GetStringPointer(text string) *string {
	return &text
}

func GetFloat64Pointer(data float64) *float64 {
	return &data
}

func GetUIntPointer(data uint) *uint {
	return &data
}

func HasItemString(arr *[]string, target string) bool {
	for _, v := range *arr {
		if v == target {
			return true
		}
	}
	return false
}

// DayString renders a timestamp as the calendar-day key used by attendance
// records and their redis idempotence markers.
func DayString(t time.Time) string {
	return t.Format("2006-01-02")
}
