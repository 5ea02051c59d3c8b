package params

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Cast converts a parameter value to T. Values already of type T are returned as is.
// Integers, floats, bools and durations are also accepted from their string form and
// integers and floats convert between each other when no precision is lost.
func Cast[T any](v any) (T, error) {
	var zero T
	if t, ok := v.(T); ok {
		return t, nil
	}
	if _, nested := v.(*Set); nested {
		return zero, fmt.Errorf("nested parameter set is not a %s", typeName[T]())
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out = formatValue(v)
	case bool:
		out, err = strconv.ParseBool(formatValue(v))
	case int:
		var n int64
		n, err = asInt64(v)
		if err == nil && (n > math.MaxInt || n < math.MinInt) {
			err = fmt.Errorf("%d overflows int", n)
		}
		out = int(n)
	case int32:
		var n int64
		n, err = asInt64(v)
		if err == nil && (n > math.MaxInt32 || n < math.MinInt32) {
			err = fmt.Errorf("%d overflows int32", n)
		}
		out = int32(n)
	case int64:
		out, err = asInt64(v)
	case float32:
		var f float64
		f, err = asFloat64(v)
		out = float32(f)
	case float64:
		out, err = asFloat64(v)
	case time.Duration:
		out, err = asDuration(v)
	default:
		return zero, fmt.Errorf("%T is not convertible to %s", v, typeName[T]())
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func asInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", x)
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", x)
		}
		return int64(x), nil
	case float32, float64:
		f, _ := asFloat64(x)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%v is not an integer", f)
		}
		if f >= 0x1p63 || f < -0x1p63 {
			return 0, fmt.Errorf("%v overflows int64", f)
		}
		return int64(f), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("%T is not an integer", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(x, 64)
	case bool, time.Duration:
		return 0, fmt.Errorf("%T is not a number", v)
	default:
		n, err := asInt64(v)
		if err != nil {
			return 0, err
		}
		f := float64(n)
		if f >= 0x1p63 || int64(f) != n {
			return 0, fmt.Errorf("%d is not exactly representable as a float", n)
		}
		return f, nil
	}
}

func asDuration(v any) (time.Duration, error) {
	switch x := v.(type) {
	case string:
		return time.ParseDuration(x)
	case float32, float64:
		return 0, fmt.Errorf("%v is not a duration", x)
	default:
		n, err := asInt64(v)
		if err != nil {
			return 0, err
		}
		return time.Duration(n), nil
	}
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
