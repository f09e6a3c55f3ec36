package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/request-service/internal/domain"
)

// GroupRepository reads groups and their membership.
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	ListMemberIDs(ctx context.Context, groupID string) ([]string, error)
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository constructs repository.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	const query = `
        SELECT id, name, type, created_at, updated_at
        FROM groups WHERE id=$1`
	var group domain.Group
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Type,
		&group.CreatedAt,
		&group.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) ListMemberIDs(ctx context.Context, groupID string) ([]string, error) {
	const query = `
        SELECT m.user_id FROM group_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.group_id=$1 AND u.status=$2
        ORDER BY m.created_at ASC`
	rows, err := r.pool.Query(ctx, query, groupID, domain.UserStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
