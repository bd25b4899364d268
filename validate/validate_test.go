package validate

import (
	"errors"
	"testing"
)

type sample struct {
	CourseID string `json:"courseId" validate:"required"`
	BaseURL  string `json:"baseUrl" validate:"omitempty,url"`
}

func TestCheckNamesJSONField(t *testing.T) {
	err := Check(sample{})

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected a field error, got %v", err)
	}
	if fe.Field != "courseId" {
		t.Fatalf("expected field courseId, got %q", fe.Field)
	}
	if fe.Message != "courseId is a required field" {
		t.Fatalf("unexpected message %q", fe.Message)
	}
}

func TestCheckOK(t *testing.T) {
	if err := Check(sample{CourseID: "ts-mastery", BaseURL: "https://learn.example.com"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := Check(sample{CourseID: "x", BaseURL: "not a url"}); err == nil {
		t.Fatal("expected an invalid url to be rejected")
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID(GenerateID()); err != nil {
		t.Fatal(err)
	}
	if err := CheckID("ts-mastery"); err == nil {
		t.Fatal("expected a non uuid to be rejected")
	}
}
