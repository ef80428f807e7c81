package repository

import (
	"fmt"
	"strconv"
	"time"
)

// ToInt64 converts a scanned integer column.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", v)
	}
}

// ToNullInt64 is ToInt64 mapping NULL to nil.
func ToNullInt64(v any) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	n, err := ToInt64(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ToString converts a scanned text column. NULL becomes "".
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

// ToBool converts a scanned 0/1 column.
func ToBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		n, err := ToInt64(v)
		if err != nil {
			return false, err
		}
		return n != 0, nil
	}
}

// ToTime parses an RFC 3339 text column. NULL becomes the zero time.
func ToTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	default:
		s := ToString(v)
		if s == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339, s)
	}
}

// Records converts a collection value produced by Demux.
func Records(v any) []Record {
	items, _ := v.([]Record)
	return items
}

// Nested returns a related record produced by Demux, or nil.
func Nested(v any) Record {
	rec, _ := v.(Record)
	return rec
}
