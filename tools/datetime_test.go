package tools_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supalytic/supagent/tools"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDatetimeCurrent(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	tool := tools.NewDatetimeWithClock(fixedClock(base))

	got := tool.Call(context.Background(), map[string]interface{}{"action": "current"})
	assert.Equal(t, "2025-03-14 09:26:53", got)

	// The output is machine-parseable with the same layout.
	_, err := time.Parse("2006-01-02 15:04:05", got)
	require.NoError(t, err)
}

func TestDatetimeAddDaysZeroIsIdentity(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	tool := tools.NewDatetimeWithClock(fixedClock(base))

	current := tool.Call(context.Background(), map[string]interface{}{"action": "current"})
	shifted := tool.Call(context.Background(), map[string]interface{}{
		"action": "add_days",
		"days":   float64(0),
	})
	assert.Equal(t, current, shifted)
}

func TestDatetimeAddDaysRoundTrip(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	tool := tools.NewDatetimeWithClock(fixedClock(base))

	back := tool.Call(context.Background(), map[string]interface{}{
		"action": "add_days",
		"days":   float64(-3),
	})
	assert.Equal(t, "2025-03-11 09:26:53", back)

	forward := tool.Call(context.Background(), map[string]interface{}{
		"action": "add_days",
		"days":   float64(3),
	})
	assert.Equal(t, "2025-03-17 09:26:53", forward)

	// Shifting back then forward from the same base instant returns to it.
	parsedBack, err := time.Parse("2006-01-02 15:04:05", back)
	require.NoError(t, err)
	assert.Equal(t, base.Format("2006-01-02 15:04:05"),
		parsedBack.AddDate(0, 0, 3).Format("2006-01-02 15:04:05"))
}

func TestDatetimeAddDaysCrossesMonthBoundary(t *testing.T) {
	base := time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC)
	tool := tools.NewDatetimeWithClock(fixedClock(base))

	got := tool.Call(context.Background(), map[string]interface{}{
		"action": "add_days",
		"days":   float64(5),
	})
	assert.Equal(t, "2025-02-04 12:00:00", got)
}

func TestDatetimeFormatIsHumanReadable(t *testing.T) {
	base := time.Date(2025, 3, 14, 15, 4, 0, 0, time.UTC)
	tool := tools.NewDatetimeWithClock(fixedClock(base))

	got := tool.Call(context.Background(), map[string]interface{}{"action": "format"})
	assert.Equal(t, "Friday, March 14, 2025 at 3:04 PM", got)
}

func TestDatetimeInvalidArguments(t *testing.T) {
	tool := tools.NewDatetime()

	got := tool.Call(context.Background(), map[string]interface{}{"action": "add_days"})
	assert.Contains(t, got, "days")
	assert.Contains(t, got, "Error:")

	got = tool.Call(context.Background(), map[string]interface{}{"action": "rewind"})
	assert.Contains(t, got, "Error:")

	got = tool.Call(context.Background(), nil)
	assert.Contains(t, got, "Error:")
}
