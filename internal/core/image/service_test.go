package image

import "testing"

func TestURLFor(t *testing.T) {
	s := NewService(DefaultTemplate)
	tests := []struct {
		query string
		want  string
	}{
		{"pasta,pomodoro,food,italian", "https://source.unsplash.com/400x300/?pasta,pomodoro,food,italian"},
		{"https://source.unsplash.com/400x300/?omelette", "https://source.unsplash.com/400x300/?omelette"},
		{"", "https://source.unsplash.com/400x300/?food"},
	}
	for _, tc := range tests {
		if got := s.URLFor(tc.query); got != tc.want {
			t.Fatalf("URLFor(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestNewServiceRejectsTemplateWithoutPlaceholder(t *testing.T) {
	s := NewService("https://images.example.com/")
	if got := s.URLFor("pizza"); got != "https://source.unsplash.com/400x300/?pizza" {
		t.Fatalf("invalid template should fall back to the default, got %q", got)
	}
	custom := NewService("https://img.example.com/search?q=%s&size=small")
	if got := custom.URLFor("pizza,food"); got != "https://img.example.com/search?q=pizza,food&size=small" {
		t.Fatalf("custom template = %q", got)
	}
}
