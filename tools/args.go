package tools

// Argument extraction helpers. Model-produced JSON decodes numbers as
// float64; these helpers normalize the loose typing in one place.

func stringArg(args map[string]interface{}, key string) (string, bool) {
	value, ok := args[key].(string)
	return value, ok
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return fallback
	}
}

func numbersArg(args map[string]interface{}, key string) ([]float64, bool) {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil, false
	}
	numbers := make([]float64, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case float64:
			numbers = append(numbers, v)
		case int:
			numbers = append(numbers, float64(v))
		case int64:
			numbers = append(numbers, float64(v))
		default:
			return nil, false
		}
	}
	return numbers, true
}
