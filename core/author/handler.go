package author

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courselibrary/api/middleware"
	"courselibrary/api/web"
	"courselibrary/api/weberr"
	"courselibrary/validate"

	"github.com/jmoiron/sqlx"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := Filter{
			MainCategory: r.URL.Query().Get("mainCategory"),
			SearchQuery:  r.URL.Query().Get("searchQuery"),
		}

		authors, err := List(ctx, db, f)
		if err != nil {
			return fmt.Errorf("listing authors: %w", err)
		}

		return web.Respond(ctx, w, toRespList(authors), http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := validate.CheckID(authorID); err != nil {
			return weberr.NotFound(err)
		}

		a, err := Fetch(ctx, db, authorID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching author[%s]: %w", authorID, err)
		}

		return web.Respond(ctx, w, toResp(a), http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var an AuthorNew
		if err := web.Decode(w, r, &an); err != nil {
			errs := map[string][]string{"body": {err.Error()}}
			return weberr.Malformed(err, errs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		if err := validate.Check(an); err != nil {
			var fe validate.FieldErrors
			if errors.As(err, &fe) {
				return weberr.Unprocessable(err, fe, r.URL.Path, middleware.ContextRequestID(ctx))
			}
			return fmt.Errorf("validating author: %w", err)
		}

		now := time.Now().UTC()
		a := Author{
			ID:           validate.GenerateID(),
			FirstName:    an.FirstName,
			LastName:     an.LastName,
			DateOfBirth:  an.DateOfBirth,
			MainCategory: an.MainCategory,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := Create(ctx, db, a); err != nil {
			return fmt.Errorf("creating author: %w", err)
		}

		return web.RespondCreated(ctx, w, "/authors/"+a.ID, toResp(a))
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		authorID := web.Param(r, "author_id")
		if err := validate.CheckID(authorID); err != nil {
			return weberr.NotFound(err)
		}

		exists, err := Exists(ctx, db, authorID)
		if err != nil {
			return fmt.Errorf("checking author[%s]: %w", authorID, err)
		}
		if !exists {
			return weberr.NotFound(errors.New("author does not exist"))
		}

		if err := Delete(ctx, db, authorID); err != nil {
			return fmt.Errorf("deleting author[%s]: %w", authorID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
