package course

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Fetch(ctx context.Context, db sqlx.ExtContext, authorID string, courseID string) (Course, error) {
	const q = `SELECT * FROM courses WHERE author_id = $1 AND course_id = $2`

	var c Course
	if err := sqlx.GetContext(ctx, db, &c, q, authorID, courseID); err != nil {
		return Course{}, err
	}
	return c, nil
}

func ListByAuthor(ctx context.Context, db sqlx.ExtContext, authorID string) ([]Course, error) {
	const q = `SELECT * FROM courses WHERE author_id = $1 ORDER BY title`

	courses := []Course{}
	if err := sqlx.SelectContext(ctx, db, &courses, q, authorID); err != nil {
		return nil, err
	}
	return courses, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	INSERT INTO courses
		(course_id, author_id, title, description, created_at, updated_at)
	VALUES
		(:course_id, :author_id, :title, :description, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	UPDATE courses SET
		title       = :title,
		description = :description,
		updated_at  = :updated_at
	WHERE course_id = :course_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("updating course: %w", err)
	}
	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, courseID string) error {
	const q = `DELETE FROM courses WHERE course_id = $1`

	if _, err := db.ExecContext(ctx, q, courseID); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}
