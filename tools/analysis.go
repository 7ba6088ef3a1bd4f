package tools

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NewDataAnalysis builds the data_analysis tool, a purely local numeric
// reduction over a model-supplied slice of values.
func NewDataAnalysis() *Tool {
	return New("data_analysis").
		Description("Perform a statistical operation over a list of numbers. "+
			"Supported operations: mean, median, sum, count, min, max.").
		Schema(ObjectSchema(map[string]interface{}{
			"operation": StringEnumProperty("Statistical operation to perform",
				"mean", "median", "sum", "count", "min", "max"),
			"values": ArrayProperty("Numbers to analyze", NumberProperty("")),
		}, "operation", "values")).
		Handler(func(ctx context.Context, args map[string]interface{}) string {
			operation, _ := stringArg(args, "operation")

			values, ok := numbersArg(args, "values")
			if !ok {
				return "Error: 'values' must be an array of numbers."
			}
			if len(values) == 0 {
				return "Error: 'values' must contain at least one number."
			}

			var result float64
			switch operation {
			case "mean":
				result = sum(values) / float64(len(values))
			case "median":
				result = median(values)
			case "sum":
				result = sum(values)
			case "count":
				result = float64(len(values))
			case "min":
				result = values[0]
				for _, v := range values[1:] {
					if v < result {
						result = v
					}
				}
			case "max":
				result = values[0]
				for _, v := range values[1:] {
					if v > result {
						result = v
					}
				}
			default:
				return fmt.Sprintf("Error: unsupported operation %q. Supported: mean, median, sum, count, min, max.", operation)
			}

			return fmt.Sprintf("%s: %s", strings.ToUpper(operation), formatNumber(result))
		})
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// median sorts a copy ascending and averages the two middle elements on even
// length, else takes the single middle element.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
