package reflectsource

import (
	"testing"

	"github.com/rollingflamingo/andromeda/pkg/andromeda"
)

type listing struct {
	ExternalID string  `andromeda:"externalId,predicate=nonempty,mandatory"`
	AltProp    string  `andromeda:"altProp"`
	Rent       bool    `andromeda:"rent,predicate=anybool,mandatory"`
	PriceRent  float64 `andromeda:"priceRent,predicate=positive,mandatory"`
	Untagged   int
}

func TestFieldSourceFieldsAndRead(t *testing.T) {
	rec := &listing{ExternalID: "ext-1", Rent: true}
	src := FieldSource{}

	fields := src.Fields(rec)
	want := []andromeda.Name{"externalId", "altProp", "rent", "priceRent", "untagged"}
	if len(fields) != len(want) {
		t.Fatalf("Fields() = %v, want %v", fields, want)
	}
	for i, n := range want {
		if fields[i] != n {
			t.Errorf("Fields()[%d] = %q, want %q", i, fields[i], n)
		}
	}

	if v := src.Read(rec, "externalId"); !v.IsPresent() || v.Raw().(string) != "ext-1" {
		t.Errorf("Read(externalId) = %+v", v)
	}
	if v := src.Read(rec, "altProp"); v.IsPresent() {
		t.Errorf("Read(altProp) = %+v, want absent for zero-value string", v)
	}
	if v := src.Read(rec, "rent"); !v.IsPresent() || v.Raw().(bool) != true {
		t.Errorf("Read(rent) = %+v", v)
	}
	if v := src.Read(rec, "priceRent"); v.IsPresent() {
		t.Errorf("Read(priceRent) = %+v, want absent for zero-value float", v)
	}
}

func TestTagLoaderLoad(t *testing.T) {
	idx, err := TagLoader{}.Load(&listing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, ok := idx.Lookup("externalId")
	if !ok {
		t.Fatal("expected directive for externalId")
	}
	if !d.Mandatory || d.Predicate != "nonempty" {
		t.Errorf("externalId directive = %+v", d)
	}

	alt, ok := idx.Lookup("altProp")
	if !ok {
		t.Fatal("expected a directive for altProp even though it carries no options beyond its name")
	}
	if alt.Mandatory || alt.Predicate != "" {
		t.Errorf("altProp directive = %+v, want zero-value options", alt)
	}

	if _, ok := idx.Lookup("untagged"); ok {
		t.Error("untagged field carries no andromeda tag and should have no directive")
	}
}

func TestParseTagRejectsUnknownKey(t *testing.T) {
	if _, err := ParseTag("field,bogus=1"); err == nil {
		t.Error("expected error for unknown tag key")
	}
}

func TestParseTagMultiValued(t *testing.T) {
	td, err := ParseTag("prop,requires=a|b|c,alternatives=x|y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(td.Requires) != 3 || len(td.Alternatives) != 2 {
		t.Errorf("parsed = %+v", td)
	}
}
