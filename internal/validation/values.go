package validation

import "time"

// Values holds the normalized output of a successful validation, keyed by
// field name. Accessors return zero values for absent fields.
type Values map[string]any

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

func (v Values) StringPtr(key string) *string {
	s, ok := v[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func (v Values) Int64(key string) int64 {
	n, _ := v[key].(int64)
	return n
}

func (v Values) Time(key string) time.Time {
	t, _ := v[key].(time.Time)
	return t
}

func (v Values) TimePtr(key string) *time.Time {
	t, ok := v[key].(time.Time)
	if !ok {
		return nil
	}
	return &t
}
