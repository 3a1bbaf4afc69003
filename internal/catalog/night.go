package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NightTable maps a star name to the percentage of night time it spends
// above the horizon on each sampled date.
type NightTable map[string][]float64

// Lookup returns the samples for name.
func (t NightTable) Lookup(name string) ([]float64, bool) {
	v, ok := t[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, true
}

// ParseNightTable decodes either {"name": [v, ...]} or [["name", v, ...], ...].
// Values may be JSON numbers or numeric strings.
func ParseNightTable(data []byte) (NightTable, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty nighttime table", ErrMalformedPayload)
	}

	dec := func(raw []byte, v any) error {
		d := json.NewDecoder(bytes.NewReader(raw))
		d.UseNumber()
		return d.Decode(v)
	}

	table := make(NightTable)
	switch trimmed[0] {
	case '{':
		var obj map[string][]any
		if err := dec(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		for name, vals := range obj {
			samples, err := toFloats(vals)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, name, err)
			}
			table[name] = samples
		}
	case '[':
		var rows [][]any
		if err := dec(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		for i, row := range rows {
			if len(row) == 0 {
				return nil, fmt.Errorf("%w: row %d is empty", ErrMalformedPayload, i)
			}
			name, ok := row[0].(string)
			if !ok || name == "" {
				return nil, fmt.Errorf("%w: row %d has no star name", ErrMalformedPayload, i)
			}
			samples, err := toFloats(row[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, name, err)
			}
			table[name] = samples
		}
	default:
		return nil, fmt.Errorf("%w: nighttime table must be an object or array", ErrMalformedPayload)
	}
	return table, nil
}

func toFloats(vals []any) ([]float64, error) {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		var f float64
		var err error
		switch x := v.(type) {
		case json.Number:
			f, err = x.Float64()
		case string:
			f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
		default:
			return nil, fmt.Errorf("unexpected value %v", v)
		}
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("value %v is not finite", v)
		}
		out = append(out, f)
	}
	return out, nil
}
