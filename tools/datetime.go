package tools

import (
	"context"
	"fmt"
	"time"
)

const (
	// timestampLayout is the machine-readable form used by the current and
	// add_days actions.
	timestampLayout = "2006-01-02 15:04:05"

	// humanLayout is the human-readable form used by the format action.
	humanLayout = "Monday, January 2, 2006 at 3:04 PM"
)

// NewDatetime builds the datetime tool against the real clock.
func NewDatetime() *Tool {
	return NewDatetimeWithClock(time.Now)
}

// NewDatetimeWithClock builds the datetime tool with an injectable clock.
func NewDatetimeWithClock(now func() time.Time) *Tool {
	return New("datetime").
		Description("Work with dates and times. Actions: 'current' returns the current "+
			"timestamp, 'add_days' shifts the current time by a number of days "+
			"(negative shifts backward), 'format' returns a human-readable form.").
		Schema(ObjectSchema(map[string]interface{}{
			"action": StringEnumProperty("Datetime action to perform", "current", "add_days", "format"),
			"days":   IntegerProperty("Number of days to shift (add_days only, may be negative)"),
			"format": StringProperty("Unused; the format action uses a fixed human-readable layout"),
		}, "action")).
		Handler(func(ctx context.Context, args map[string]interface{}) string {
			action, _ := stringArg(args, "action")

			switch action {
			case "current":
				return now().Format(timestampLayout)

			case "add_days":
				if _, present := args["days"]; !present {
					return "Error: 'days' is required for the add_days action."
				}
				days := intArg(args, "days", 0)
				return now().AddDate(0, 0, days).Format(timestampLayout)

			case "format":
				return now().Format(humanLayout)

			default:
				return fmt.Sprintf("Error: unsupported action %q. Supported: current, add_days, format.", action)
			}
		})
}
