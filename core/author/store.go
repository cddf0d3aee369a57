package author

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Filter struct {
	MainCategory string
	SearchQuery  string
}

func Fetch(ctx context.Context, db sqlx.ExtContext, authorID string) (Author, error) {
	const q = `SELECT * FROM authors WHERE author_id = $1`

	var a Author
	if err := sqlx.GetContext(ctx, db, &a, q, authorID); err != nil {
		return Author{}, err
	}
	return a, nil
}

func FetchByIDs(ctx context.Context, db sqlx.ExtContext, ids []string) ([]Author, error) {
	q, args, err := sqlx.In(`SELECT * FROM authors WHERE author_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("expanding id set: %w", err)
	}
	q = db.Rebind(q)

	authors := []Author{}
	if err := sqlx.SelectContext(ctx, db, &authors, q, args...); err != nil {
		return nil, err
	}
	return authors, nil
}

func List(ctx context.Context, db sqlx.ExtContext, f Filter) ([]Author, error) {
	q := `SELECT * FROM authors`

	var conds []string
	var args []interface{}
	if f.MainCategory != "" {
		args = append(args, f.MainCategory)
		conds = append(conds, fmt.Sprintf("main_category = $%d", len(args)))
	}
	if f.SearchQuery != "" {
		args = append(args, "%"+f.SearchQuery+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR main_category ILIKE $%d)", n, n, n))
	}

	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY last_name, first_name"

	authors := []Author{}
	if err := sqlx.SelectContext(ctx, db, &authors, q, args...); err != nil {
		return nil, err
	}
	return authors, nil
}

func Exists(ctx context.Context, db sqlx.ExtContext, authorID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM authors WHERE author_id = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, db, &exists, q, authorID); err != nil {
		return false, err
	}
	return exists, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, a Author) error {
	const q = `
	INSERT INTO authors
		(author_id, first_name, last_name, date_of_birth, main_category, created_at, updated_at)
	VALUES
		(:author_id, :first_name, :last_name, :date_of_birth, :main_category, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, a); err != nil {
		return fmt.Errorf("inserting author: %w", err)
	}
	return nil
}

// Delete removes the author; owned courses go with it through the
// cascading foreign key.
func Delete(ctx context.Context, db sqlx.ExtContext, authorID string) error {
	const q = `DELETE FROM authors WHERE author_id = $1`

	if _, err := db.ExecContext(ctx, q, authorID); err != nil {
		return fmt.Errorf("deleting author: %w", err)
	}
	return nil
}
