package domain

import (
	"fmt"
	"time"

	"github.com/taskdesk/taskdesk/internal/repository"
)

// fields reads typed values out of a record. The first conversion failure
// is kept and later reads return zero values.
type fields struct {
	rec repository.Record
	err error
}

func (f *fields) fail(key string, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("field %s: %w", key, err)
	}
}

func (f *fields) integer(key string) int64 {
	v, ok := f.rec[key]
	if !ok || v == nil || f.err != nil {
		return 0
	}
	n, err := repository.ToInt64(v)
	if err != nil {
		f.fail(key, err)
	}
	return n
}

func (f *fields) nullInteger(key string) *int64 {
	if f.err != nil {
		return nil
	}
	n, err := repository.ToNullInt64(f.rec[key])
	if err != nil {
		f.fail(key, err)
	}
	return n
}

func (f *fields) text(key string) string {
	return repository.ToString(f.rec[key])
}

func (f *fields) nullText(key string) *string {
	v, ok := f.rec[key]
	if !ok || v == nil {
		return nil
	}
	s := repository.ToString(v)
	return &s
}

func (f *fields) flag(key string) bool {
	if f.err != nil {
		return false
	}
	b, err := repository.ToBool(f.rec[key])
	if err != nil {
		f.fail(key, err)
	}
	return b
}

func (f *fields) timestamp(key string) time.Time {
	if f.err != nil {
		return time.Time{}
	}
	t, err := repository.ToTime(f.rec[key])
	if err != nil {
		f.fail(key, err)
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
