package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"courselibrary/api/middleware"
	"courselibrary/api/web"
	"courselibrary/api/weberr"
	"courselibrary/core/author"
	"courselibrary/validate"

	"github.com/jmoiron/sqlx"
)

// guardAuthor fails with a 404 when the owning author does not exist.
// Every course route starts here.
func guardAuthor(ctx context.Context, db *sqlx.DB, authorID string) error {
	if err := validate.CheckID(authorID); err != nil {
		return weberr.NotFound(err)
	}

	exists, err := author.Exists(ctx, db, authorID)
	if err != nil {
		return fmt.Errorf("checking author[%s]: %w", authorID, err)
	}
	if !exists {
		return weberr.NotFound(errors.New("author does not exist"))
	}
	return nil
}

// unprocessable renders a patch or validation failure as the standard
// problem payload. Patch application failures carry no field, so their
// message lands under the patch document itself.
func unprocessable(ctx context.Context, r *http.Request, err error) error {
	rid := middleware.ContextRequestID(ctx)

	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		return weberr.Unprocessable(err, fe, r.URL.Path, rid)
	}

	var pe *PatchError
	if errors.As(err, &pe) {
		errs := map[string][]string{"patchDocument": {pe.Error()}}
		return weberr.Unprocessable(err, errs, r.URL.Path, rid)
	}

	return err
}

func location(authorID string, courseID string) string {
	return "/authors/" + authorID + "/courses/" + courseID
}

func HandleListByAuthor(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := guardAuthor(ctx, db, authorID); err != nil {
			return err
		}

		courses, err := ListByAuthor(ctx, db, authorID)
		if err != nil {
			return fmt.Errorf("listing courses of author[%s]: %w", authorID, err)
		}

		return web.Respond(ctx, w, toRespList(courses), http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := guardAuthor(ctx, db, authorID); err != nil {
			return err
		}

		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.NotFound(err)
		}

		c, err := Fetch(ctx, db, authorID, courseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching course[%s]: %w", courseID, err)
		}

		return web.Respond(ctx, w, toResp(c), http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := guardAuthor(ctx, db, authorID); err != nil {
			return err
		}

		var cn CourseNew
		if err := web.Decode(w, r, &cn); err != nil {
			errs := map[string][]string{"body": {err.Error()}}
			return weberr.Malformed(err, errs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		if err := validate.Check(cn); err != nil {
			return unprocessable(ctx, r, err)
		}

		now := time.Now().UTC()
		c := Course{
			ID:          validate.GenerateID(),
			AuthorID:    authorID,
			Title:       cn.Title,
			Description: cn.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := Create(ctx, db, c); err != nil {
			return fmt.Errorf("creating course: %w", err)
		}

		return web.RespondCreated(ctx, w, location(authorID, c.ID), toResp(c))
	}
}

// HandleUpsert is the PUT semantics: the course id in the URL is
// authoritative. Absent course: create it at exactly that id, whatever
// the payload might have implied. Present course: replace the mutable
// fields and leave id and owner alone.
func HandleUpsert(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := guardAuthor(ctx, db, authorID); err != nil {
			return err
		}

		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.NotFound(err)
		}

		var up CourseUp
		if err := web.Decode(w, r, &up); err != nil {
			errs := map[string][]string{"body": {err.Error()}}
			return weberr.Malformed(err, errs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		if err := validate.Check(up); err != nil {
			return unprocessable(ctx, r, err)
		}

		c, err := Fetch(ctx, db, authorID, courseID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("fetching course[%s]: %w", courseID, err)
		}

		now := time.Now().UTC()

		if errors.Is(err, sql.ErrNoRows) {
			c = Course{
				ID:          courseID,
				AuthorID:    authorID,
				Title:       up.Title,
				Description: up.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			if err := Create(ctx, db, c); err != nil {
				return fmt.Errorf("creating course at client id[%s]: %w", courseID, err)
			}

			return web.RespondCreated(ctx, w, location(authorID, c.ID), toResp(c))
		}

		c.Title = up.Title
		c.Description = up.Description
		c.UpdatedAt = now

		if err := Update(ctx, db, c); err != nil {
			return fmt.Errorf("replacing course[%s]: %w", courseID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandlePatch applies an RFC 6902 document to the course. A missing
// course is not an error: the patch runs against an empty shape and, if
// the outcome validates, the course is created at the URL id — same
// contract as the PUT create branch. The store is only touched after
// apply and validate both succeed.
func HandlePatch(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := guardAuthor(ctx, db, authorID); err != nil {
			return err
		}

		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.NotFound(err)
		}

		doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1048576))
		if err != nil {
			errs := map[string][]string{"body": {err.Error()}}
			return weberr.Malformed(err, errs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		c, err := Fetch(ctx, db, authorID, courseID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("fetching course[%s]: %w", courseID, err)
		}

		now := time.Now().UTC()

		if errors.Is(err, sql.ErrNoRows) {
			up, err := applyPatch(doc, CourseUp{})
			if err != nil {
				return unprocessable(ctx, r, err)
			}

			c = Course{
				ID:          courseID,
				AuthorID:    authorID,
				Title:       up.Title,
				Description: up.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			if err := Create(ctx, db, c); err != nil {
				return fmt.Errorf("creating course at client id[%s]: %w", courseID, err)
			}

			return web.RespondCreated(ctx, w, location(authorID, c.ID), toResp(c))
		}

		up, err := applyPatch(doc, CourseUp{Title: c.Title, Description: c.Description})
		if err != nil {
			return unprocessable(ctx, r, err)
		}

		c.Title = up.Title
		c.Description = up.Description
		c.UpdatedAt = now

		if err := Update(ctx, db, c); err != nil {
			return fmt.Errorf("patching course[%s]: %w", courseID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := guardAuthor(ctx, db, authorID); err != nil {
			return err
		}

		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.NotFound(err)
		}

		if _, err := Fetch(ctx, db, authorID, courseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching course[%s]: %w", courseID, err)
		}

		if err := Delete(ctx, db, courseID); err != nil {
			return fmt.Errorf("deleting course[%s]: %w", courseID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
