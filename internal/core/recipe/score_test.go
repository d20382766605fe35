package recipe

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestScore(t *testing.T) {
	set := NewIngredientSet("Uova", "farina", "latte")

	pancake := Recipe{Name: "Pancake", Ingredients: []string{"farina", "uova", "latte", "zucchero", "burro"}}
	got := Score(pancake, set)
	if got.Compatibility != 60 {
		t.Fatalf("compatibility = %d, want 60", got.Compatibility)
	}
	if !reflect.DeepEqual(got.MatchedIngredients, []string{"farina", "uova", "latte"}) {
		t.Fatalf("matched = %v", got.MatchedIngredients)
	}

	empty := Score(Recipe{Name: "Aria"}, set)
	if empty.Compatibility != 0 || len(empty.MatchedIngredients) != 0 {
		t.Fatalf("recipe without ingredients should score 0, got %+v", empty)
	}

	dup := Score(Recipe{Ingredients: []string{"uova", "uova", "sale"}}, set)
	if dup.Compatibility != 67 || len(dup.MatchedIngredients) != 2 {
		t.Fatalf("duplicates should count each occurrence, got %+v", dup)
	}
}

func TestScoreBounds(t *testing.T) {
	set := NewIngredientSet("pasta", "pomodoro", "basilico", "olio")
	for _, r := range []Recipe{
		{Ingredients: []string{"pasta", "pomodoro", "basilico", "olio"}},
		{Ingredients: []string{"riso"}},
		{Ingredients: []string{"pasta", "aglio", "olio", "peperoncino"}},
	} {
		s := Score(r, set)
		if s.Compatibility < 0 || s.Compatibility > 100 {
			t.Fatalf("compatibility out of range: %d", s.Compatibility)
		}
		if len(s.MatchedIngredients) > len(r.Ingredients) {
			t.Fatalf("matched cannot exceed ingredients")
		}
	}
}

func TestSortByCompatibilityIsStable(t *testing.T) {
	scored := []ScoredRecipe{
		{Recipe: Recipe{Name: "a"}, Compatibility: 50},
		{Recipe: Recipe{Name: "b"}, Compatibility: 80},
		{Recipe: Recipe{Name: "c"}, Compatibility: 50},
		{Recipe: Recipe{Name: "d"}, Compatibility: 0},
		{Recipe: Recipe{Name: "e"}, Compatibility: 80},
	}
	SortByCompatibility(scored)

	var names []string
	for _, s := range scored {
		names = append(names, s.Name)
	}
	if want := []string{"b", "e", "a", "c", "d"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("order = %v, want %v", names, want)
	}
}

func TestIngredientSet(t *testing.T) {
	base := NewIngredientSet(" Uova ", "farina", "UOVA", "")
	if base.Len() != 2 {
		t.Fatalf("expected 2 items, got %v", base.Items())
	}

	added := base.Add("Latte")
	if base.Len() != 2 || added.Len() != 3 {
		t.Fatal("Add must not modify the receiver")
	}
	if !added.Contains("latte") {
		t.Fatal("added item should be normalized")
	}

	removed := added.Remove(" FARINA")
	if !reflect.DeepEqual(removed.Items(), []string{"uova", "latte"}) {
		t.Fatalf("items after remove = %v", removed.Items())
	}
	if !added.Contains("farina") {
		t.Fatal("Remove must not modify the receiver")
	}
	if same := removed.Remove("sale"); same.Len() != 2 {
		t.Fatal("removing a missing item should be a no-op")
	}
}

func TestIngredientSetJSON(t *testing.T) {
	var empty UserIngredientSet
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Fatalf("empty set should marshal as [], got %s", data)
	}

	var set UserIngredientSet
	if err := json.Unmarshal([]byte(`["Uova","uova"," sale "]`), &set); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(set.Items(), []string{"uova", "sale"}) {
		t.Fatalf("items = %v", set.Items())
	}
}
