package orderrepo

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository on db, which may be a transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its initial history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	history := historyFromDomain(aggregate, 0)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dto).Error; err != nil {
			return err
		}
		return tx.Create(&history).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return err
}

// Get retrieves an order with its history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	var history []HistoryDTO
	if err := db.Where("order_id = ?", dto.ID).Order("seq").Find(&history).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, history)
}

// CommitIfState updates the orders row only where status and version still match and
// appends the new history rows in the same transaction. Concurrent writers block on
// the row lock taken by the update; the loser re-evaluates the predicate and matches
// nothing.
func (r *GormOrderRepository) CommitIfState(
	ctx context.Context,
	expectedStatus order.Status,
	expectedVersion int,
	aggregate *order.Order,
) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	history := historyFromDomain(aggregate, expectedVersion)
	if len(history) == 0 {
		return false, errors.New("aggregate has no new history entries")
	}
	dto := fromDomain(aggregate)

	committed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&OrderDTO{}).
			Where("id = ? AND status = ? AND version = ?", dto.ID, int(expectedStatus), expectedVersion).
			Updates(map[string]any{
				"status":             dto.Status,
				"assigned_driver_id": dto.AssignedDriverID,
				"rejection_reason":   dto.RejectionReason,
				"cash_collected":     dto.CashCollected,
				"cash_discrepancy":   dto.CashDiscrepancy,
				"version":            dto.Version,
				"updated_at":         dto.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.ensureExists(tx, aggregate.ID())
		}

		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		committed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return committed, nil
}

func (r *GormOrderRepository) ensureExists(tx *gorm.DB, id kernel.UUID) error {
	var count int64
	if err := tx.Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

// ListByStatus returns snapshots without history, oldest first.
func (r *GormOrderRepository) ListByStatus(ctx context.Context, statuses ...order.Status) ([]order.Snapshot, error) {
	query := r.db.WithContext(ctx).Order("created_at, id")
	if len(statuses) > 0 {
		codes := make([]int, 0, len(statuses))
		for _, s := range statuses {
			codes = append(codes, int(s))
		}
		query = query.Where("status IN ?", codes)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	snapshots := make([]order.Snapshot, 0, len(dtos))
	for _, dto := range dtos {
		s, err := dto.snapshot(nil)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
