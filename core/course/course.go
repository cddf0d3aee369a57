package course

import "time"

type Course struct {
	ID          string    `json:"id" db:"course_id"`
	AuthorID    string    `json:"authorId" db:"author_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type CourseNew struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1500"`
}

// CourseUp is the replacement shape for PUT and the document PATCH
// operations run against. Only title and description are mutable; the
// id and the owning author never move.
type CourseUp struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1500"`
}

type CourseResp struct {
	ID          string `json:"id"`
	AuthorID    string `json:"authorId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func toResp(c Course) CourseResp {
	return CourseResp{
		ID:          c.ID,
		AuthorID:    c.AuthorID,
		Title:       c.Title,
		Description: c.Description,
	}
}

func toRespList(courses []Course) []CourseResp {
	resp := make([]CourseResp, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, toResp(c))
	}
	return resp
}
