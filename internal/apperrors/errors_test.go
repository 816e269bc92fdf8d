package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationClassification(t *testing.T) {
	err := Validation("service:build:jenkins:url", "jenkins-connection")

	if !errors.Is(err, ErrValidation) {
		t.Error("Expected errors.Is to match ErrValidation")
	}
	if errors.Is(err, ErrBusiness) {
		t.Error("Validation error must not match ErrBusiness")
	}

	e := AsError(err)
	if e == nil {
		t.Fatal("Expected structured error")
	}
	if e.Parameter != "service:build:jenkins:url" {
		t.Errorf("Expected parameter key, got %q", e.Parameter)
	}
	if e.Reason != "jenkins-connection" {
		t.Errorf("Expected reason code, got %q", e.Reason)
	}
}

func TestBusinessClassification(t *testing.T) {
	cause := fmt.Errorf("unexpected status 404")
	err := Business("delete job", cause)

	if !errors.Is(err, ErrBusiness) {
		t.Error("Expected errors.Is to match ErrBusiness")
	}

	e := AsError(err)
	if e == nil {
		t.Fatal("Expected structured error")
	}
	if e.Op != "delete job" {
		t.Errorf("Expected op, got %q", e.Op)
	}
	if e.Cause != cause {
		t.Error("Expected cause to be preserved")
	}
}

func TestAsErrorPlain(t *testing.T) {
	if AsError(errors.New("plain")) != nil {
		t.Error("Expected nil for unclassified error")
	}
}
