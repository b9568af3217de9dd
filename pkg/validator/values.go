// Package validator checks raw property values against their declared
// scalar kinds and normalizes them to a canonical in-memory representation.
package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/fedentity/internal/domain"
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006/01/02",
}

// ValidateScalar checks value against the declared scalar kind and returns
// its canonical representation: string, int64, float64, bool, or time.Time.
func ValidateScalar(property string, kind domain.PropertyKind, value any) (any, error) {
	switch kind {
	case domain.KindString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("property %q must be a string, got %T", property, value)
		}
		return s, nil

	case domain.KindInteger:
		i, err := coerceInteger(value)
		if err != nil {
			return nil, fmt.Errorf("property %q must be an integer: %v", property, err)
		}
		return i, nil

	case domain.KindFloat:
		f, err := coerceFloat(value)
		if err != nil {
			return nil, fmt.Errorf("property %q must be a float: %v", property, err)
		}
		return f, nil

	case domain.KindBoolean:
		b, err := coerceBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("property %q must be a boolean: %v", property, err)
		}
		return b, nil

	case domain.KindTimestamp:
		ts, err := coerceTimestamp(value)
		if err != nil {
			return nil, fmt.Errorf("property %q must be a timestamp: %v", property, err)
		}
		return ts, nil

	default:
		return nil, fmt.Errorf("property %q has non-scalar kind %q", property, kind)
	}
}

func coerceInteger(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if math.Mod(v, 1) != 0 {
			return 0, fmt.Errorf("%v has a fractional part", v)
		}
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("unable to coerce %q", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("got %T", value)
	}
}

func coerceFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("unable to coerce %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("got %T", value)
	}
}

func coerceBoolean(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "yes", "y":
			return true, nil
		case "0", "no", "n":
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("unable to coerce %q", v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("got %T", value)
	}
}

func coerceTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		raw := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", v)
	default:
		return time.Time{}, fmt.Errorf("got %T", value)
	}
}
