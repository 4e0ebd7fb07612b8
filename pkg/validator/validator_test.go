package validator

import (
	"errors"
	"reflect"
	"testing"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Limit int    `json:"limit" validate:"gte=1,lte=50"`
	Kind  string `json:"kind,omitempty" validate:"omitempty,oneof=a b"`
}

func TestValidateStructValid(t *testing.T) {
	if err := New().ValidateStruct(sample{Name: "ok", Limit: 3, Kind: "a"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestMessages(t *testing.T) {
	err := New().ValidateStruct(sample{Name: "", Limit: 99, Kind: "c"})
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}

	got := Messages(err)
	want := []string{
		"name is required",
		"limit must be less than or equal to 50",
		"kind must be one of [a b]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestMessagesPlainError(t *testing.T) {
	if got := Messages(errors.New("boom")); !reflect.DeepEqual(got, []string{"boom"}) {
		t.Errorf("Expected [boom], got %v", got)
	}
	if got := Messages(nil); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}
