package record

import (
	"sort"

	"github.com/pkg/errors"
)

// Header is a decoded record: field name to value.
type Header map[string]any

// Require checks that every named field is present.
func (h Header) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := h[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.Wrapf(ErrPrecondition, "missing fields %v", missing)
	}
	return nil
}

// Int returns an integer field, or 0 if absent.
func (h Header) Int(name string) int64 {
	switch v := h[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Float returns a float field, or 0 if absent. Integer fields are converted.
func (h Header) Float(name string) float64 {
	switch v := h[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func (h Header) String(name string) string {
	s, _ := h[name].(string)
	return s
}

func (h Header) Bool(name string) bool {
	b, _ := h[name].(bool)
	return b
}

func (h Header) Flags(name string) Flags {
	f, _ := h[name].(Flags)
	return f
}

func (h Header) Headers(name string) []Header {
	hs, _ := h[name].([]Header)
	return hs
}

func (h Header) Floats(name string) []float64 {
	fs, _ := h[name].([]float64)
	return fs
}
