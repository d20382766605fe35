package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCustomErrorWrapAndIs(t *testing.T) {
	cause := errors.New("session abc not found")
	err := fmt.Errorf("handler: %w", ErrSessionNotFound.Wrap(cause))

	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("wrapped error should match by code")
	}
	if errors.Is(err, ErrInvalidIngredient) {
		t.Fatal("different code should not match")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable")
	}
	if ErrSessionNotFound.Err != nil {
		t.Fatal("Wrap must not mutate the template")
	}
}

func TestCustomErrorResponse(t *testing.T) {
	err := ErrAIServiceError.Wrap(errors.New("HTTP status 500"))
	if err.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", err.Status)
	}

	resp := err.Response(false)
	if resp.Code != "AI_SERVICE_ERROR" || resp.Details != "" {
		t.Fatalf("release response = %+v", resp)
	}
	if resp := err.Response(true); resp.Details != "HTTP status 500" {
		t.Fatalf("debug details = %q", resp.Details)
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("bind: %w", NewValidationError("bad"))
	if !IsValidationError(err) {
		t.Fatal("expected validation error")
	}
	if IsValidationError(errors.New("bad")) {
		t.Fatal("plain error is not a validation error")
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	if err := ParseJSON(`{"a":1}`, &v); err != nil {
		t.Fatal(err)
	}
	if err := ParseJSON(`{"a":1} {"b":2}`, &v); err == nil {
		t.Fatal("expected error for trailing object")
	}

	type strict struct {
		A int `json:"a"`
	}
	var s strict
	if err := ParseJSONStrict(`{"a":1,"b":2}`, &s); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("ciao", 10); got != "ciao" {
		t.Fatalf("short = %q", got)
	}
	if got := Preview("àèìòù", 2); got != "àè..." {
		t.Fatalf("truncated = %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("short"); got != "****" {
		t.Fatalf("short = %q", got)
	}
	if got := MaskSecret("sk-or-v1-abcdef123456"); got != "sk-o...3456" {
		t.Fatalf("masked = %q", got)
	}
	if GenerateUUID() == GenerateUUID() {
		t.Fatal("uuids should differ")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "debug", "WARN": "warn", "bogus": "info"} {
		if got := ParseLevel(in).String(); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
