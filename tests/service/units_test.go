package servicetest

import (
	"testing"

	"github.com/shopspring/decimal"

	"cavina.GO/core/apperr"
	catalogEntity "cavina.GO/model/entity/catalog"
	"cavina.GO/service/units"
)

func TestConverter_ToBase_GlassToBottle(t *testing.T) {
	f := newFixture(t)
	conv := units.NewConverterForSource("global", f.catalog)

	got, err := conv.ToBase(f.merlot.ID, "glass", decimal.NewFromInt(5), "bottle")
	if err != nil {
		t.Fatalf("ToBase: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("5 glasses = %s bottles, want 1", got)
	}
}

func TestConverter_ToBase_IdentityAndUnknown(t *testing.T) {
	f := newFixture(t)
	conv := units.NewConverterForSource("global", f.catalog)

	same, err := conv.ToBase(f.merlot.ID, "bottle", dec(t, "3"), "bottle")
	if err != nil {
		t.Fatalf("identity ToBase: %v", err)
	}
	if !same.Equal(dec(t, "3")) {
		t.Errorf("identity conversion = %s, want 3", same)
	}

	_, err = conv.ToBase(f.merlot.ID, "keg", decimal.NewFromInt(1), "bottle")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("unknown unit error = %v, want validation", err)
	}
}

func TestConverter_ToBase_InverseFallback(t *testing.T) {
	f := newFixture(t)
	conv := units.NewConverterForSource("global", f.catalog)

	// Only glass->bottle is stored; the inverse direction is derived.
	got, err := conv.ToBase(f.merlot.ID, "bottle", decimal.NewFromInt(1), "glass")
	if err != nil {
		t.Fatalf("inverse ToBase: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("1 bottle = %s glasses, want 5", got)
	}
}

func TestConverter_Normalize_DiscreteStep(t *testing.T) {
	f := newFixture(t)
	conv := units.NewConverterForSource("global", f.catalog)

	cases := []struct {
		unit string
		in   string
		want string
	}{
		{"loaf", "0.17", "0.2"},
		{"loaf", "0.14", "0.1"},
		{"loaf", "0.15", "0.2"},
		{"glass", "0.5", "0.6"},
		{"bottle", "0.33", "0.33"}, // no step on bottles
	}
	for _, c := range cases {
		got, err := conv.Normalize(c.unit, dec(t, c.in))
		if err != nil {
			t.Fatalf("Normalize(%s, %s): %v", c.unit, c.in, err)
		}
		if !got.Equal(dec(t, c.want)) {
			t.Errorf("Normalize(%s, %s) = %s, want %s", c.unit, c.in, got, c.want)
		}
	}
}

func TestConverter_RoundTripStaysWithinStep(t *testing.T) {
	f := newFixture(t)
	conv := units.NewConverterForSource("global", f.catalog)

	// bottle -> glass -> bottle must come back exactly for a clean ratio.
	glasses, err := conv.ToBase(f.merlot.ID, "bottle", decimal.NewFromInt(2), "glass")
	if err != nil {
		t.Fatalf("to glasses: %v", err)
	}
	back, err := conv.ToBase(f.merlot.ID, "glass", glasses, "bottle")
	if err != nil {
		t.Fatalf("back to bottles: %v", err)
	}
	if !back.Equal(decimal.NewFromInt(2)) {
		t.Errorf("round trip = %s, want 2", back)
	}
}

func TestConverter_ProductSource(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f.db, &catalogEntity.ProductUnit{ProductID: f.merlot.ID, UnitCode: "split", RatioToBase: dec(t, "0.5")})

	conv := units.NewConverterForSource("product", f.catalog)
	got, err := conv.ToBase(f.merlot.ID, "split", decimal.NewFromInt(4), "bottle")
	if err != nil {
		t.Fatalf("product-source ToBase: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("4 splits = %s bottles, want 2", got)
	}
}
