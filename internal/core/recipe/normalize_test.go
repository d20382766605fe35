package recipe

import (
	"errors"
	"reflect"
	"testing"
)

func mustShape(t *testing.T, raw string) Shape {
	t.Helper()
	s, err := DecodeShape(raw)
	if err != nil {
		t.Fatalf("DecodeShape(%q): %v", raw, err)
	}
	return s
}

func TestNormalizeEmptyObjectDefaults(t *testing.T) {
	shape := mustShape(t, `{}`)
	primary, fallback := shape.First()

	single, err := Normalize(primary, fallback, NormalizeOptions{DefaultPrepTime: DefaultPrepTimeSingle, ImageStyle: ImagePreference})
	if single.PrepTimeMinutes != 20 {
		t.Fatalf("single path default prep time = %d, want 20", single.PrepTimeMinutes)
	}
	var nerr *NormalizationError
	if !errors.As(err, &nerr) || nerr.Field != FieldName {
		t.Fatalf("expected NormalizationError for nome, got %v", err)
	}
	if single.ImageQuery != "italian,food,food" {
		t.Fatalf("unexpected fallback image query %q", single.ImageQuery)
	}

	batch, _ := Normalize(primary, fallback, NormalizeOptions{DefaultPrepTime: DefaultPrepTimeBatch, ImageStyle: ImagePlain})
	if batch.PrepTimeMinutes != 30 {
		t.Fatalf("batch path default prep time = %d, want 30", batch.PrepTimeMinutes)
	}
	if batch.ImageQuery != "italian,food,food,italian" {
		t.Fatalf("unexpected fallback image query %q", batch.ImageQuery)
	}
	if batch.Ingredients == nil || len(batch.Ingredients) != 0 {
		t.Fatalf("ingredients should be an empty slice, got %#v", batch.Ingredients)
	}
}

func TestNormalizeResolvesFromFirstArrayElement(t *testing.T) {
	shape := mustShape(t, `[{"nome":"Frittata di Uova","ingredienti":[" Uova ","SALE",""],"tempoPreparazione":15,"descrizione":"Semplice."}]`)
	primary, fallback := shape.First()

	got, err := Normalize(primary, fallback, NormalizeOptions{DefaultPrepTime: DefaultPrepTimeSingle, Generated: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Recipe{
		Name:            "Frittata di Uova",
		Ingredients:     []string{"uova", "sale"},
		PrepTimeMinutes: 15,
		ImageQuery:      "frittata,di,uova,food,italian",
		Description:     "Semplice.",
		Instructions:    []string{},
		IsGenerated:     true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize() = %#v\nwant %#v", got, want)
	}
}

func TestNormalizeImageAcceptance(t *testing.T) {
	supplied := "https://source.unsplash.com/400x300/?pasta,tomato"
	got, err := Normalize(Fields{"nome": "Pasta", "immagine": supplied}, nil, NormalizeOptions{DefaultPrepTime: 30})
	if err != nil {
		t.Fatal(err)
	}
	if got.ImageQuery != supplied {
		t.Fatalf("image service URL should be kept as-is, got %q", got.ImageQuery)
	}

	got, _ = Normalize(Fields{"nome": "Pasta al pesto", "immagine": "https://example.com/pesto.jpg"}, nil, NormalizeOptions{DefaultPrepTime: 30, ImageStyle: ImagePreference})
	if got.ImageQuery != "pasta,pesto,food" {
		t.Fatalf("foreign image should be replaced by fallback, got %q", got.ImageQuery)
	}
}

func TestNormalizePrepTime(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"nome":"x","tempoPreparazione":25}`, 25},
		{`{"nome":"x","tempoPreparazione":12.6}`, 13},
		{`{"nome":"x","tempoPreparazione":"40"}`, 40},
		{`{"nome":"x","tempoPreparazione":"35 minuti"}`, 35},
		{`{"nome":"x","tempoPreparazione":"presto"}`, 20},
		{`{"nome":"x","tempoPreparazione":0}`, 20},
		{`{"nome":"x","tempoPreparazione":-5}`, 20},
		{`{"nome":"x","tempoPreparazione":null}`, 20},
	}
	for _, tc := range tests {
		shape := mustShape(t, tc.raw)
		p, f := shape.First()
		got, err := Normalize(p, f, NormalizeOptions{DefaultPrepTime: 20})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.raw, err)
		}
		if got.PrepTimeMinutes != tc.want {
			t.Fatalf("%s: prep time = %d, want %d", tc.raw, got.PrepTimeMinutes, tc.want)
		}
	}
}

func TestNormalizeInstructionsAreCleaned(t *testing.T) {
	shape := mustShape(t, `{"nome":"Pancake","istruzioni":["Passo 1: Mescola farina e uova.","passo 2 Cuoci in padella","Servi caldo", ""]}`)
	p, f := shape.First()
	got, err := Normalize(p, f, NormalizeOptions{DefaultPrepTime: 20})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Mescola farina e uova.", "Cuoci in padella", "Servi caldo"}
	if !reflect.DeepEqual(got.Instructions, want) {
		t.Fatalf("instructions = %#v, want %#v", got.Instructions, want)
	}
}

func TestCleanStep(t *testing.T) {
	for in, want := range map[string]string{
		"Passo 1: Taglia le verdure": "Taglia le verdure",
		"STEP 12:Boil water":         "Boil water",
		"Passo3 Aggiungi sale":       "Aggiungi sale",
		"Aggiungi il Passo 2":        "Aggiungi il Passo 2",
		"  ":                         "",
	} {
		if got := CleanStep(in); got != want {
			t.Fatalf("CleanStep(%q) = %q, want %q", in, got, want)
		}
	}
}
