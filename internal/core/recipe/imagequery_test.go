package recipe

import (
	"regexp"
	"testing"
)

func TestBuildImageQuery(t *testing.T) {
	tests := []struct {
		name  string
		style ImageStyle
		want  string
	}{
		{"Pasta al pomodoro", ImagePlain, "pasta,al,pomodoro,food,italian"},
		{"Pasta al pomodoro", ImagePreference, "pasta,pomodoro,food"},
		{"Penne all'arrabbiata", ImagePlain, "penne,all'arrabbiata,food,italian"},
		{"Penne all'arrabbiata", ImagePreference, "penne,allarrabbiata,food"},
		{"Crème Brûlée Façon Été", ImagePlain, "creme,brulee,facon,food,italian"},
		{"Crème Brûlée Façon Été", ImagePreference, "creme,brulee,facon,food"},
		{"Risotto   ai  funghi porcini", ImagePlain, "risotto,ai,funghi,food,italian"},
		{"", ImagePlain, "italian,food,food,italian"},
		{"Uovo al tegamino con pane tostato", ImagePreference, "uovo,tegamino,con,food"},
	}
	for _, tc := range tests {
		if got := BuildImageQuery(tc.name, tc.style); got != tc.want {
			t.Fatalf("BuildImageQuery(%q, %v) = %q, want %q", tc.name, tc.style, got, tc.want)
		}
	}
}

func TestBuildImageQueryIsPureAndRestricted(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9,]+$`)
	for _, name := range []string{"Gnocchi al Pomodoro", "Zuppa di legumi 2", "Torta della Nonna!", "Àèìòù çç"} {
		a := BuildImageQuery(name, ImagePreference)
		b := BuildImageQuery(name, ImagePreference)
		if a != b {
			t.Fatalf("not idempotent for %q: %q vs %q", name, a, b)
		}
		if a == "" || !allowed.MatchString(a) {
			t.Fatalf("preference query %q for %q has unexpected characters", a, name)
		}
	}
}

func TestIsImageServiceURL(t *testing.T) {
	if !IsImageServiceURL("https://source.unsplash.com/400x300/?pizza") {
		t.Fatal("unsplash URL should be accepted")
	}
	if IsImageServiceURL("https://example.com/pizza.jpg") || IsImageServiceURL("") {
		t.Fatal("non image-service references should be rejected")
	}
}
