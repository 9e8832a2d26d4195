package driver

import "testing"

func TestMultiSelectOnListField(t *testing.T) {
	points := []DisplayPoint{
		{ID: "d1", Schools: []string{"A", "B"}},
		{ID: "d2", Schools: []string{"C"}},
	}

	criteria := Criteria{"schools": MultiSelectFilter([]string{"B"})}
	out := criteria.Apply(points)
	if len(out) != 1 || out[0].ID != "d1" {
		t.Fatalf("expected only d1, got %+v", out)
	}
}

func TestAndAcrossFields(t *testing.T) {
	// Schools match but languages do not: AND across fields excludes
	// the point even though each field alone has OR semantics inside.
	p := DisplayPoint{ID: "d1", Schools: []string{"B"}, Languages: []string{"English"}}
	criteria := Criteria{
		"schools":   MultiSelectFilter([]string{"B"}),
		"languages": MultiSelectFilter([]string{"French"}),
	}
	if criteria.Match(p) {
		t.Fatalf("expected point excluded")
	}

	criteria["languages"] = MultiSelectFilter([]string{"French", "English"})
	if !criteria.Match(p) {
		t.Fatalf("expected point included once a language matches")
	}
}

func TestEmptyCriteriaReturnsFullSet(t *testing.T) {
	points := []DisplayPoint{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}}

	out := Criteria{}.Apply(points)
	if len(out) != len(points) {
		t.Fatalf("expected full set, got %d", len(out))
	}

	// Criteria with only empty filters behave the same as reset.
	criteria := Criteria{
		"vehicle": ScalarFilter(""),
		"schools": MultiSelectFilter(nil),
	}
	out = criteria.Apply(points)
	if len(out) != len(points) {
		t.Fatalf("expected full set after reset, got %d", len(out))
	}
}

func TestScalarSubstringCaseInsensitive(t *testing.T) {
	p := DisplayPoint{ID: "d1", Vehicle: "Minibus"}

	if !(Criteria{"vehicle": ScalarFilter("mini")}).Match(p) {
		t.Fatalf("expected case-insensitive substring match")
	}
	if (Criteria{"vehicle": ScalarFilter("sedan")}).Match(p) {
		t.Fatalf("expected mismatch")
	}
}

func TestScalarAgainstListField(t *testing.T) {
	p := DisplayPoint{ID: "d1", Languages: []string{"Afrikaans", "English"}}

	if !(Criteria{"languages": ScalarFilter("afri")}).Match(p) {
		t.Fatalf("expected substring match on list element")
	}
	if (Criteria{"languages": ScalarFilter("zulu")}).Match(p) {
		t.Fatalf("expected mismatch")
	}
}

func TestMultiSelectAgainstScalarField(t *testing.T) {
	p := DisplayPoint{ID: "d1", Vehicle: "SUV"}

	if !(Criteria{"vehicle": MultiSelectFilter([]string{"Sedan", "suv"})}).Match(p) {
		t.Fatalf("expected any-of match against scalar")
	}
	if (Criteria{"vehicle": MultiSelectFilter([]string{"Sedan", "Minibus"})}).Match(p) {
		t.Fatalf("expected mismatch")
	}
}

func TestNumericFieldsCoercedToString(t *testing.T) {
	p := DisplayPoint{ID: "d1", MaxPassengers: 12, AvailableSeats: 3, Price: 1500}

	if !(Criteria{"max_passengers": ScalarFilter("12")}).Match(p) {
		t.Fatalf("expected capacity match")
	}
	if !(Criteria{"available_seats": ScalarFilter("3")}).Match(p) {
		t.Fatalf("expected seats match")
	}
	if !(Criteria{"price": ScalarFilter("1500")}).Match(p) {
		t.Fatalf("expected price match")
	}
}

func TestUnknownFieldExcludesPoint(t *testing.T) {
	p := DisplayPoint{ID: "d1", Vehicle: "SUV"}
	if (Criteria{"bogus": ScalarFilter("x")}).Match(p) {
		t.Fatalf("expected unknown field to exclude the point")
	}
}

func TestListIntersectionIsExactMatch(t *testing.T) {
	// Multi-select against a list compares whole values, not substrings.
	p := DisplayPoint{ID: "d1", Schools: []string{"Greenfield Primary"}}
	if (Criteria{"schools": MultiSelectFilter([]string{"Greenfield"})}).Match(p) {
		t.Fatalf("expected no partial match for multi-select values")
	}
	if !(Criteria{"schools": MultiSelectFilter([]string{"greenfield primary"})}).Match(p) {
		t.Fatalf("expected case-insensitive exact match")
	}
}
