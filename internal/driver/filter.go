package driver

import (
	"strconv"
	"strings"
)

// FieldFilter is one directory criterion: either a single free-text
// value, a multi-select set, or empty (no restriction). The evaluator
// switches on the kind rather than inspecting value shapes at runtime.
type FieldFilter struct {
	kind   filterKind
	scalar string
	values []string
}

type filterKind int

const (
	filterEmpty filterKind = iota
	filterScalar
	filterMultiSelect
)

func ScalarFilter(v string) FieldFilter {
	if v == "" {
		return FieldFilter{}
	}
	return FieldFilter{kind: filterScalar, scalar: v}
}

func MultiSelectFilter(values []string) FieldFilter {
	if len(values) == 0 {
		return FieldFilter{}
	}
	return FieldFilter{kind: filterMultiSelect, values: values}
}

func (f FieldFilter) IsEmpty() bool {
	return f.kind == filterEmpty
}

// Criteria maps a point field name to its filter. A point is visible
// iff it satisfies every non-empty criterion: AND across fields, OR
// within a multi-select field.
type Criteria map[string]FieldFilter

func (c Criteria) Match(p DisplayPoint) bool {
	for key, f := range c {
		if f.IsEmpty() {
			continue
		}
		if !matchField(p, key, f) {
			return false
		}
	}
	return true
}

// Apply returns the points passing every active criterion. Empty or
// nil criteria return the full input set (reset semantics).
func (c Criteria) Apply(points []DisplayPoint) []DisplayPoint {
	if len(c) == 0 {
		return points
	}
	out := make([]DisplayPoint, 0, len(points))
	for _, p := range points {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func matchField(p DisplayPoint, key string, f FieldFilter) bool {
	list, scalar, isList, known := fieldValue(p, key)
	if !known {
		return false
	}

	if isList {
		if f.kind == filterMultiSelect {
			// Case-insensitive intersection: any selected value
			// present in the point's list.
			for _, want := range f.values {
				for _, have := range list {
					if strings.EqualFold(have, want) {
						return true
					}
				}
			}
			return false
		}
		for _, have := range list {
			if containsFold(have, f.scalar) {
				return true
			}
		}
		return false
	}

	if f.kind == filterMultiSelect {
		for _, want := range f.values {
			if containsFold(scalar, want) {
				return true
			}
		}
		return false
	}
	return containsFold(scalar, f.scalar)
}

func fieldValue(p DisplayPoint, key string) (list []string, scalar string, isList, known bool) {
	switch key {
	case "schools":
		return p.Schools, "", true, true
	case "languages":
		return p.Languages, "", true, true
	case "vehicle":
		return nil, p.Vehicle, false, true
	case "race":
		return nil, p.Race, false, true
	case "name":
		return nil, p.Name, false, true
	case "max_passengers":
		return nil, strconv.Itoa(p.MaxPassengers), false, true
	case "available_seats":
		return nil, strconv.Itoa(p.AvailableSeats), false, true
	case "price":
		return nil, strconv.FormatFloat(p.Price, 'f', -1, 64), false, true
	default:
		return nil, "", false, false
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
