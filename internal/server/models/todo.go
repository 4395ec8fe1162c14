package models

import "time"

type Todo struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoFilter narrows a listing. Nil Completed means both states; empty Query
// means no description match.
type TodoFilter struct {
	Completed *bool
	Query     string
}

// TodoPatch carries the fields of a partial update. Nil fields are left as is.
type TodoPatch struct {
	Description *string
	Completed   *bool
}
