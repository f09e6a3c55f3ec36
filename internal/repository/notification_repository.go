package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/request-service/internal/domain"
)

// NotificationRepository persists system notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.SystemNotification) error
	GetByID(ctx context.Context, id string) (*domain.SystemNotification, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.SystemNotification) error {
	notificationType := string(n.NotificationType)
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return insertCommunication(ctx, tx, communicationRow{
			base:             &n.Communication,
			notificationType: &notificationType,
			payloadJSON:      n.PayloadJSON,
		})
	})
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.SystemNotification, error) {
	row, err := scanCommunication(r.pool.QueryRow(ctx, selectCommunication+` WHERE id=$1 AND kind=$2`, id, domain.KindSystemNotification))
	if err != nil {
		return nil, err
	}
	if row.notificationType == nil {
		return nil, fmt.Errorf("notification %s has no notification type", id)
	}
	if err := loadTargets(ctx, r.pool, []*domain.Communication{row.base}); err != nil {
		return nil, err
	}
	return &domain.SystemNotification{
		Communication:    *row.base,
		NotificationType: domain.NotificationType(*row.notificationType),
		PayloadJSON:      row.payloadJSON,
	}, nil
}
