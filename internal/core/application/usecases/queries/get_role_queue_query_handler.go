package queries

import (
	"context"

	"ordering/internal/core/domain/model/order"
)

// QueueReader is implemented by the read model.
type QueueReader interface {
	Queue(role order.Role, actorID string) ([]order.Snapshot, error)
}

// GetRoleQueueQueryHandler serves dashboards from the read model. Results may lag the
// store by one notification; acting on a stale entry yields a stale state conflict.
type GetRoleQueueQueryHandler struct {
	reader QueueReader
}

func NewGetRoleQueueQueryHandler(reader QueueReader) GetRoleQueueQueryHandler {
	return GetRoleQueueQueryHandler{reader: reader}
}

func (h GetRoleQueueQueryHandler) Handle(_ context.Context, query GetRoleQueueQuery) ([]order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.Queue(query.Role(), query.ActorID())
}
