package queries

import (
	"errors"

	"ordering/internal/pkg/guard"
)

var ErrGetActiveDriversQueryIsNotConstructed = errors.New(
	"GetActiveDriversQuery must be created via NewGetActiveDriversQuery constructor",
)

// GetActiveDriversQuery lists the drivers a coordinator may assign.
type GetActiveDriversQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveDriversQuery creates a parameterless query.
func NewGetActiveDriversQuery() GetActiveDriversQuery {
	return GetActiveDriversQuery{guard: guard.NewConstructorGuard()}
}

func (q GetActiveDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDriversQueryIsNotConstructed)
}

// GetActiveDriversQueryResponse is one assignable driver.
type GetActiveDriversQueryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
