package core

import (
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := NotFoundf("no thread with id %q", "t1")
	if !IsKind(err, KindNotFound) {
		t.Fatal("expected not-found kind")
	}
	if IsKind(err, KindConflict) {
		t.Fatal("unexpected conflict kind")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("unexpected kind: %v", KindOf(err))
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("update contact: %w", Conflictf("version moved"))
	if !IsKind(err, KindConflict) {
		t.Fatal("expected conflict kind through wrapping")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(fmt.Errorf("boom")) != 0 {
		t.Fatal("plain errors must have no kind")
	}
}

func TestErrorMessageIncludesKind(t *testing.T) {
	err := Permissionf("audit log requires admin visibility")
	want := "permission: audit log requires admin visibility"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
