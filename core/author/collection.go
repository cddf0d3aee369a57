package author

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"courselibrary/api/middleware"
	"courselibrary/api/web"
	"courselibrary/api/weberr"
	"courselibrary/database"
	"courselibrary/validate"

	"github.com/jmoiron/sqlx"
)

// parseIDs splits a comma-joined path segment into author ids. Any token
// that is not a well formed id fails the whole parse.
func parseIDs(raw string) ([]string, error) {
	if raw == "" {
		return nil, errors.New("empty id set")
	}

	tokens := strings.Split(raw, ",")
	ids := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if err := validate.CheckID(tok); err != nil {
			return nil, fmt.Errorf("id[%s]: %w", tok, err)
		}
		ids = append(ids, tok)
	}
	return ids, nil
}

// dedupe drops repeated ids, keeping first-occurrence order. A repeated
// id that resolves is not a miss, so the all-or-nothing comparison below
// runs on the distinct set.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// HandleShowCollection resolves a client-supplied id set as a whole: if
// any distinct requested id fails to resolve, the whole batch is a 404
// and no partial result is returned.
func HandleShowCollection(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ids, err := parseIDs(web.Param(r, "ids"))
		if err != nil {
			errs := map[string][]string{"ids": {err.Error()}}
			return weberr.Malformed(err, errs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		ids = dedupe(ids)

		authors, err := FetchByIDs(ctx, db, ids)
		if err != nil {
			return fmt.Errorf("fetching author set: %w", err)
		}

		if len(authors) != len(ids) {
			return weberr.NotFound(fmt.Errorf("requested %d distinct authors, found %d", len(ids), len(authors)))
		}

		return web.Respond(ctx, w, toRespList(authors), http.StatusOK)
	}
}

// HandleCreateCollection inserts a batch of authors inside a single
// transaction and answers with a composite Location the read side above
// can resolve.
func HandleCreateCollection(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var batch []AuthorNew
		if err := web.Decode(w, r, &batch); err != nil {
			errs := map[string][]string{"body": {err.Error()}}
			return weberr.Malformed(err, errs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		if len(batch) == 0 {
			err := errors.New("empty author collection")
			errs := map[string][]string{"body": {err.Error()}}
			return weberr.Malformed(err, errs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		ferrs := validate.FieldErrors{}
		for i, an := range batch {
			err := validate.Check(an)
			if err == nil {
				continue
			}

			var fe validate.FieldErrors
			if !errors.As(err, &fe) {
				return fmt.Errorf("validating author[%d]: %w", i, err)
			}
			for field, msgs := range fe {
				key := fmt.Sprintf("[%d].%s", i, field)
				ferrs[key] = append(ferrs[key], msgs...)
			}
		}
		if len(ferrs) > 0 {
			return weberr.Unprocessable(ferrs, ferrs, r.URL.Path, middleware.ContextRequestID(ctx))
		}

		now := time.Now().UTC()
		authors := make([]Author, 0, len(batch))
		for _, an := range batch {
			authors = append(authors, Author{
				ID:           validate.GenerateID(),
				FirstName:    an.FirstName,
				LastName:     an.LastName,
				DateOfBirth:  an.DateOfBirth,
				MainCategory: an.MainCategory,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}

		err := database.Transaction(db, func(tx sqlx.ExtContext) error {
			for _, a := range authors {
				if err := Create(ctx, tx, a); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("creating author collection: %w", err)
		}

		ids := make([]string, 0, len(authors))
		for _, a := range authors {
			ids = append(ids, a.ID)
		}
		location := "/authors/(" + strings.Join(ids, ",") + ")"

		return web.RespondCreated(ctx, w, location, toRespList(authors))
	}
}
