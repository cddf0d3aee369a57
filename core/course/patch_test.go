package course

import (
	"errors"
	"testing"

	"courselibrary/validate"

	"github.com/google/go-cmp/cmp"
)

func TestApplyPatchOnEmptyShape(t *testing.T) {
	doc := []byte(`[
		{"op": "add", "path": "/title", "value": "Go from scratch"},
		{"op": "add", "path": "/description", "value": "No prior experience needed."}
	]`)

	got, err := applyPatch(doc, CourseUp{})
	if err != nil {
		t.Fatalf("applying patch: %v", err)
	}

	want := CourseUp{Title: "Go from scratch", Description: "No prior experience needed."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patched shape mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPatchOnPopulatedShape(t *testing.T) {
	initial := CourseUp{Title: "Old title", Description: "Keep me"}
	doc := []byte(`[{"op": "replace", "path": "/title", "value": "New title"}]`)

	got, err := applyPatch(doc, initial)
	if err != nil {
		t.Fatalf("applying patch: %v", err)
	}

	want := CourseUp{Title: "New title", Description: "Keep me"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patched shape mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPatchInvalidOutcome(t *testing.T) {
	initial := CourseUp{Title: "Present", Description: "d"}
	doc := []byte(`[{"op": "remove", "path": "/title"}]`)

	_, err := applyPatch(doc, initial)
	if err == nil {
		t.Fatal("expected validation failure after removing title")
	}

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T: %v", err, err)
	}
	if _, ok := fe["title"]; !ok {
		t.Fatalf("expected a message for title, got %v", fe)
	}
}

func TestApplyPatchFailedTestOp(t *testing.T) {
	initial := CourseUp{Title: "Actual"}
	doc := []byte(`[{"op": "test", "path": "/title", "value": "Expected"}]`)

	_, err := applyPatch(doc, initial)

	var pe *PatchError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PatchError, got %T: %v", err, err)
	}
}

func TestApplyPatchOutsideShape(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"id", `[{"op": "add", "path": "/id", "value": "11111111-1111-1111-1111-111111111111"}]`},
		{"owner", `[{"op": "add", "path": "/authorId", "value": "11111111-1111-1111-1111-111111111111"}]`},
		{"unknown member", `[{"op": "add", "path": "/price", "value": 10}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := applyPatch([]byte(tc.doc), CourseUp{Title: "Keep", Description: "d"})

			var pe *PatchError
			if !errors.As(err, &pe) {
				t.Fatalf("operation on %s should fail structurally, got %T: %v", tc.name, err, err)
			}
		})
	}
}

func TestApplyPatchMalformedDocument(t *testing.T) {
	_, err := applyPatch([]byte(`{"op": "add"}`), CourseUp{})

	var pe *PatchError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PatchError for a non-array document, got %T: %v", err, err)
	}
}

func TestApplyPatchIdempotent(t *testing.T) {
	initial := CourseUp{Title: "Stable", Description: "d"}
	doc := []byte(`[{"op": "replace", "path": "/title", "value": "Stable"}]`)

	first, err := applyPatch(doc, initial)
	if err != nil {
		t.Fatalf("first application: %v", err)
	}
	second, err := applyPatch(doc, first)
	if err != nil {
		t.Fatalf("second application: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated application changed the shape (-first +second):\n%s", diff)
	}
}
