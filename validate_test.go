package toon_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	toon "github.com/goccy/go-toon"
)

func TestStructValidator(t *testing.T) {
	type Person struct {
		Name string `toon:"name" validate:"required"`
		Age  int    `toon:"age" validate:"gte=0,lt=120"`
	}
	source := "people[2]{name,age}:\n  john,20\n  tom,-1\n"
	var v struct {
		People []*Person `toon:"people"`
	}
	dec := toon.NewDecoder(
		strings.NewReader(source),
		toon.Validator(validator.New()),
	)
	err := dec.Decode(&v)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !toon.IsValidationFailedError(err) {
		t.Fatalf("unexpected error kind: %v", err)
	}
	if !strings.Contains(toon.FormatError(err, false, false), "Age") {
		t.Fatalf("expected field name in message: %v", toon.FormatError(err, false, false))
	}
}

func TestStructValidatorPasses(t *testing.T) {
	type Person struct {
		Name string `toon:"name" validate:"required"`
	}
	var v Person
	dec := toon.NewDecoder(
		strings.NewReader("name: ok\n"),
		toon.Validator(validator.New()),
	)
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
