package author

import "time"

type Author struct {
	ID           string    `json:"id" db:"author_id"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	DateOfBirth  time.Time `json:"dateOfBirth" db:"date_of_birth"`
	MainCategory string    `json:"mainCategory" db:"main_category"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type AuthorNew struct {
	FirstName    string    `json:"firstName" validate:"required,max=50"`
	LastName     string    `json:"lastName" validate:"required,max=50"`
	DateOfBirth  time.Time `json:"dateOfBirth" validate:"required"`
	MainCategory string    `json:"mainCategory" validate:"required,max=50"`
}

// AuthorResp is the wire representation. Name and age are derived on
// every read and never stored.
type AuthorResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	MainCategory string `json:"mainCategory"`
}

func toResp(a Author) AuthorResp {
	return AuthorResp{
		ID:           a.ID,
		Name:         a.FirstName + " " + a.LastName,
		Age:          age(a.DateOfBirth, time.Now().UTC()),
		MainCategory: a.MainCategory,
	}
}

func toRespList(authors []Author) []AuthorResp {
	resp := make([]AuthorResp, 0, len(authors))
	for _, a := range authors {
		resp = append(resp, toResp(a))
	}
	return resp
}

func age(dob time.Time, now time.Time) int {
	dob = dob.UTC()
	years := now.Year() - dob.Year()

	// Not yet reached this year's birthday.
	if birthday := dob.AddDate(years, 0, 0); birthday.After(now) {
		years--
	}
	return years
}
