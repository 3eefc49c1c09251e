package queries

import (
	"context"

	"ordering/internal/core/domain/model/driver"
)

// DriverReader is the part of the driver registry the query needs.
type DriverReader interface {
	GetAllActive(ctx context.Context) ([]*driver.Driver, error)
}

type GetActiveDriversQueryHandler struct {
	reader DriverReader
}

func NewGetActiveDriversQueryHandler(reader DriverReader) GetActiveDriversQueryHandler {
	return GetActiveDriversQueryHandler{reader: reader}
}

// Handle returns the active drivers in the registry's order (by id).
func (h GetActiveDriversQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDriversQuery,
) ([]GetActiveDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drivers, err := h.reader.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]GetActiveDriversQueryResponse, 0, len(drivers))
	for _, d := range drivers {
		result = append(result, GetActiveDriversQueryResponse{ID: d.ID(), Name: d.Name()})
	}
	return result, nil
}
