package test

import (
	"net/http"
	"strings"
	"testing"

	"courselibrary/core/course"
	"courselibrary/validate"

	"github.com/google/go-cmp/cmp"
)

type courseTest struct {
	*TestEnv
}

func (ct *courseTest) upsertCourseCreatedOK(t *testing.T, authorID string, courseID string, title string) course.CourseResp {
	t.Helper()

	w := ct.request(t, http.MethodPut, "/authors/"+authorID+"/courses/"+courseID, course.CourseUp{Title: title})
	defer w.Body.Close()

	if w.StatusCode != http.StatusCreated {
		t.Fatalf("upserting new course: status code %s, want 201", w.Status)
	}

	var resp course.CourseResp
	decode(t, w, &resp)

	if resp.ID != courseID {
		t.Fatalf("created course id %q, want the URL-supplied %q", resp.ID, courseID)
	}
	if loc := w.Header.Get("Location"); loc != "/authors/"+authorID+"/courses/"+courseID {
		t.Fatalf("location %q does not address the created course", loc)
	}
	return resp
}

func (ct *courseTest) fetchCourseOK(t *testing.T, authorID string, courseID string) course.CourseResp {
	t.Helper()

	w := ct.request(t, http.MethodGet, "/authors/"+authorID+"/courses/"+courseID, nil)
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("fetching course[%s]: status code %s", courseID, w.Status)
	}

	var resp course.CourseResp
	decode(t, w, &resp)
	return resp
}

func TestCourseUpsert(t *testing.T) {
	env, err := NewTestEnv(t, "course_upsert_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	at := &authorTest{env}
	ct := &courseTest{env}

	a := at.createAuthorOK(t, newAuthor("Jack", "Silver", "Maps"))

	courseID := validate.GenerateID()
	created := ct.upsertCourseCreatedOK(t, a.ID, courseID, "Original title")

	got := ct.fetchCourseOK(t, a.ID, courseID)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("fetched course differs from created (-created +fetched):\n%s", diff)
	}

	t.Run("replace", func(t *testing.T) {
		up := course.CourseUp{Title: "Replaced title", Description: "Now with a description."}

		w := ct.request(t, http.MethodPut, "/authors/"+a.ID+"/courses/"+courseID, up)
		w.Body.Close()
		if w.StatusCode != http.StatusNoContent {
			t.Fatalf("replacing existing course: status code %s, want 204", w.Status)
		}

		got := ct.fetchCourseOK(t, a.ID, courseID)
		want := course.CourseResp{ID: courseID, AuthorID: a.ID, Title: up.Title, Description: up.Description}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("replaced course mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("author missing", func(t *testing.T) {
		w := ct.request(t, http.MethodPut, "/authors/"+validate.GenerateID()+"/courses/"+validate.GenerateID(), course.CourseUp{Title: "Orphan"})
		w.Body.Close()
		if w.StatusCode != http.StatusNotFound {
			t.Fatalf("status code %s, want 404", w.Status)
		}
	})

	t.Run("validation", func(t *testing.T) {
		w := ct.request(t, http.MethodPut, "/authors/"+a.ID+"/courses/"+validate.GenerateID(), course.CourseUp{Description: "No title at all"})
		defer w.Body.Close()

		p := decodeProblem(t, w, http.StatusUnprocessableEntity)
		if _, ok := p.Errors["title"]; !ok {
			t.Errorf("expected a message for title, got %v", p.Errors)
		}
	})

	t.Run("overlong title", func(t *testing.T) {
		w := ct.request(t, http.MethodPut, "/authors/"+a.ID+"/courses/"+validate.GenerateID(), course.CourseUp{Title: strings.Repeat("x", 101)})
		defer w.Body.Close()

		p := decodeProblem(t, w, http.StatusUnprocessableEntity)
		if _, ok := p.Errors["title"]; !ok {
			t.Errorf("expected a message for title, got %v", p.Errors)
		}
	})
}

func TestCoursePatch(t *testing.T) {
	env, err := NewTestEnv(t, "course_patch_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	at := &authorTest{env}
	ct := &courseTest{env}

	a := at.createAuthorOK(t, newAuthor("Anne", "Hornigold", "Rum"))

	courseID := validate.GenerateID()
	ct.upsertCourseCreatedOK(t, a.ID, courseID, "Patch me")

	patchPath := "/authors/" + a.ID + "/courses/" + courseID

	t.Run("replace field", func(t *testing.T) {
		doc := []byte(`[{"op": "replace", "path": "/title", "value": "Patched"}]`)

		w := ct.request(t, http.MethodPatch, patchPath, doc)
		w.Body.Close()
		if w.StatusCode != http.StatusNoContent {
			t.Fatalf("patching existing course: status code %s, want 204", w.Status)
		}

		if got := ct.fetchCourseOK(t, a.ID, courseID); got.Title != "Patched" {
			t.Fatalf("title = %q, want Patched", got.Title)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		doc := []byte(`[{"op": "replace", "path": "/title", "value": "Patched"}]`)

		for i := 0; i < 2; i++ {
			w := ct.request(t, http.MethodPatch, patchPath, doc)
			w.Body.Close()
			if w.StatusCode != http.StatusNoContent {
				t.Fatalf("application %d: status code %s, want 204", i+1, w.Status)
			}
		}

		if got := ct.fetchCourseOK(t, a.ID, courseID); got.Title != "Patched" {
			t.Fatalf("repeated no-op patch changed title to %q", got.Title)
		}
	})

	t.Run("create on patch", func(t *testing.T) {
		newID := validate.GenerateID()
		doc := []byte(`[
			{"op": "add", "path": "/title", "value": "Born from a patch"},
			{"op": "add", "path": "/description", "value": "Applied to an empty shape."}
		]`)

		w := ct.request(t, http.MethodPatch, "/authors/"+a.ID+"/courses/"+newID, doc)
		defer w.Body.Close()

		if w.StatusCode != http.StatusCreated {
			t.Fatalf("patching absent course: status code %s, want 201", w.Status)
		}

		var resp course.CourseResp
		decode(t, w, &resp)
		if resp.ID != newID {
			t.Fatalf("created course id %q, want the URL-supplied %q", resp.ID, newID)
		}

		got := ct.fetchCourseOK(t, a.ID, newID)
		if got.Title != "Born from a patch" {
			t.Fatalf("title = %q", got.Title)
		}
	})

	t.Run("create on patch fails validation", func(t *testing.T) {
		newID := validate.GenerateID()
		doc := []byte(`[{"op": "add", "path": "/description", "value": "A title never arrives."}]`)

		w := ct.request(t, http.MethodPatch, "/authors/"+a.ID+"/courses/"+newID, doc)
		defer w.Body.Close()

		p := decodeProblem(t, w, http.StatusUnprocessableEntity)
		if _, ok := p.Errors["title"]; !ok {
			t.Errorf("expected a message for title, got %v", p.Errors)
		}

		// Nothing may have been created.
		wr := ct.request(t, http.MethodGet, "/authors/"+a.ID+"/courses/"+newID, nil)
		wr.Body.Close()
		if wr.StatusCode != http.StatusNotFound {
			t.Fatalf("invalid patched shape still created a course: status code %s", wr.Status)
		}
	})

	t.Run("failed test op", func(t *testing.T) {
		doc := []byte(`[{"op": "test", "path": "/title", "value": "Something else"}]`)

		w := ct.request(t, http.MethodPatch, patchPath, doc)
		defer w.Body.Close()

		p := decodeProblem(t, w, http.StatusUnprocessableEntity)
		if _, ok := p.Errors["patchDocument"]; !ok {
			t.Errorf("expected a message for patchDocument, got %v", p.Errors)
		}

		if got := ct.fetchCourseOK(t, a.ID, courseID); got.Title != "Patched" {
			t.Fatalf("failed patch mutated the store, title = %q", got.Title)
		}
	})

	t.Run("patch outside shape", func(t *testing.T) {
		doc := []byte(`[{"op": "add", "path": "/id", "value": "` + validate.GenerateID() + `"}]`)

		w := ct.request(t, http.MethodPatch, patchPath, doc)
		defer w.Body.Close()

		p := decodeProblem(t, w, http.StatusUnprocessableEntity)
		if _, ok := p.Errors["patchDocument"]; !ok {
			t.Errorf("expected a message for patchDocument, got %v", p.Errors)
		}

		if got := ct.fetchCourseOK(t, a.ID, courseID); got.ID != courseID {
			t.Fatalf("patch targeting the id mutated the store, id = %q", got.ID)
		}
	})

	t.Run("author missing", func(t *testing.T) {
		doc := []byte(`[{"op": "add", "path": "/title", "value": "x"}]`)

		w := ct.request(t, http.MethodPatch, "/authors/"+validate.GenerateID()+"/courses/"+validate.GenerateID(), doc)
		w.Body.Close()
		if w.StatusCode != http.StatusNotFound {
			t.Fatalf("status code %s, want 404", w.Status)
		}
	})
}

func TestCourseCRUD(t *testing.T) {
	env, err := NewTestEnv(t, "course_crud_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	at := &authorTest{env}
	ct := &courseTest{env}

	a := at.createAuthorOK(t, newAuthor("Mary", "Read", "Singing"))

	w := ct.request(t, http.MethodPost, "/authors/"+a.ID+"/courses", course.CourseNew{Title: "Sea shanties"})
	if w.StatusCode != http.StatusCreated {
		t.Fatalf("creating course: status code %s", w.Status)
	}

	var created course.CourseResp
	decode(t, w, &created)
	w.Body.Close()

	if loc := w.Header.Get("Location"); loc != "/authors/"+a.ID+"/courses/"+created.ID {
		t.Fatalf("location %q does not address the created course", loc)
	}

	t.Run("list", func(t *testing.T) {
		w := ct.request(t, http.MethodGet, "/authors/"+a.ID+"/courses", nil)
		defer w.Body.Close()

		if w.StatusCode != http.StatusOK {
			t.Fatalf("listing courses: status code %s", w.Status)
		}

		var got []course.CourseResp
		decode(t, w, &got)

		if diff := cmp.Diff([]course.CourseResp{created}, got); diff != "" {
			t.Fatalf("course list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("list author missing", func(t *testing.T) {
		w := ct.request(t, http.MethodGet, "/authors/"+validate.GenerateID()+"/courses", nil)
		w.Body.Close()
		if w.StatusCode != http.StatusNotFound {
			t.Fatalf("status code %s, want 404", w.Status)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := ct.request(t, http.MethodDelete, "/authors/"+a.ID+"/courses/"+created.ID, nil)
		w.Body.Close()
		if w.StatusCode != http.StatusNoContent {
			t.Fatalf("deleting course: status code %s, want 204", w.Status)
		}

		w = ct.request(t, http.MethodGet, "/authors/"+a.ID+"/courses/"+created.ID, nil)
		w.Body.Close()
		if w.StatusCode != http.StatusNotFound {
			t.Fatalf("deleted course still present: status code %s", w.Status)
		}

		w = ct.request(t, http.MethodDelete, "/authors/"+a.ID+"/courses/"+created.ID, nil)
		w.Body.Close()
		if w.StatusCode != http.StatusNotFound {
			t.Fatalf("second delete: status code %s, want 404", w.Status)
		}
	})
}
