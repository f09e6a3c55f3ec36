package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/request-service/internal/domain"
)

// CommunicationRepository persists messages and requests with their targets.
type CommunicationRepository interface {
	CreateRequest(ctx context.Context, req domain.Request) error
	GetRequest(ctx context.Context, id string) (domain.Request, error)
	ListThread(ctx context.Context, threadID string) ([]domain.Request, error)
	SaveVote(ctx context.Context, c *domain.Communication, target *domain.CommunicationTarget) error
	UpdateMessage(ctx context.Context, id, message string) error
	SaveRevision(ctx context.Context, previous *domain.Communication, next domain.Request) error
}

type communicationRepository struct {
	pool *pgxpool.Pool
}

// NewCommunicationRepository instantiates repository.
func NewCommunicationRepository(pool *pgxpool.Pool) CommunicationRepository {
	return &communicationRepository{pool: pool}
}

const selectCommunication = `
        SELECT id, kind, originator, message, status, created_at, thread_id, previous_id, next_id, latest,
               message_type, requested_completion_date, record_id, group_id, notification_type, payload_json
        FROM communications`

// communicationRow carries the variant-specific nullable columns.
type communicationRow struct {
	base                    *domain.Communication
	messageType             *string
	requestedCompletionDate *time.Time
	recordID                *string
	groupID                 *string
	notificationType        *string
	payloadJSON             *string
}

func rowFromRequest(req domain.Request) communicationRow {
	details := req.Details()
	messageType := string(details.MessageType)
	row := communicationRow{
		base:                    req.Base(),
		messageType:             &messageType,
		requestedCompletionDate: details.RequestedCompletionDate,
		recordID:                details.RecordID,
	}
	if group, ok := req.(*domain.GroupMessageOrRequest); ok {
		row.groupID = &group.GroupID
	}
	return row
}

func (r communicationRow) toRequest() (domain.Request, error) {
	if r.messageType == nil {
		return nil, fmt.Errorf("communication %s has no message type", r.base.ID)
	}
	req := domain.MessageOrRequest{
		Communication:           *r.base,
		MessageType:             domain.MessageType(*r.messageType),
		RequestedCompletionDate: r.requestedCompletionDate,
		RecordID:                r.recordID,
	}
	switch r.base.Kind {
	case domain.KindMessageOrRequest:
		return &req, nil
	case domain.KindGroupMessageOrRequest:
		group := &domain.GroupMessageOrRequest{MessageOrRequest: req}
		if r.groupID != nil {
			group.GroupID = *r.groupID
		}
		return group, nil
	default:
		return nil, fmt.Errorf("communication %s is not a request: %s", r.base.ID, r.base.Kind)
	}
}

func (r *communicationRepository) CreateRequest(ctx context.Context, req domain.Request) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return insertCommunication(ctx, tx, rowFromRequest(req))
	})
}

func (r *communicationRepository) GetRequest(ctx context.Context, id string) (domain.Request, error) {
	row, err := scanCommunication(r.pool.QueryRow(ctx, selectCommunication+` WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTargets(ctx, []*domain.Communication{row.base}); err != nil {
		return nil, err
	}
	return row.toRequest()
}

func (r *communicationRepository) ListThread(ctx context.Context, threadID string) ([]domain.Request, error) {
	rows, err := r.pool.Query(ctx, selectCommunication+` WHERE thread_id=$1 ORDER BY created_at ASC`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []communicationRow
	for rows.Next() {
		row, err := scanCommunication(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, pgx.ErrNoRows
	}
	list = orderByLinks(list)

	bases := make([]*domain.Communication, 0, len(list))
	for _, row := range list {
		bases = append(bases, row.base)
	}
	if err := r.loadTargets(ctx, bases); err != nil {
		return nil, err
	}

	result := make([]domain.Request, 0, len(list))
	for _, row := range list {
		req, err := row.toRequest()
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, nil
}

func (r *communicationRepository) SaveVote(ctx context.Context, c *domain.Communication, target *domain.CommunicationTarget) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const updateTarget = `
            UPDATE communication_targets SET status=$1, last_status_update=$2, status_message=$3
            WHERE communication_id=$4 AND recipient=$5`
		cmd, err := tx.Exec(ctx, updateTarget,
			target.Status,
			target.LastStatusUpdate,
			target.StatusMessage,
			c.ID,
			target.Recipient,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		_, err = tx.Exec(ctx, `UPDATE communications SET status=$1 WHERE id=$2`, c.Status, c.ID)
		return err
	})
}

func (r *communicationRepository) UpdateMessage(ctx context.Context, id, message string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE communications SET message=$1 WHERE id=$2`, message, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveRevision clears the old latest flag before inserting the new tip so the
// single-latest index holds at every statement.
func (r *communicationRepository) SaveRevision(ctx context.Context, previous *domain.Communication, next domain.Request) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE communications SET latest=FALSE WHERE id=$1`, previous.ID); err != nil {
			return err
		}
		if err := insertCommunication(ctx, tx, rowFromRequest(next)); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `UPDATE communications SET next_id=$1 WHERE id=$2 AND next_id IS NULL`, previous.NextID, previous.ID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

// orderByLinks walks next links from the thread root. Rows that cannot be
// reached are appended in query order for the chain validation to reject.
func orderByLinks(list []communicationRow) []communicationRow {
	byID := make(map[string]communicationRow, len(list))
	var root *communicationRow
	for i := range list {
		byID[list[i].base.ID] = list[i]
		if list[i].base.PreviousID == nil && root == nil {
			root = &list[i]
		}
	}
	if root == nil {
		return list
	}
	ordered := make([]communicationRow, 0, len(list))
	seen := make(map[string]bool, len(list))
	for cur, ok := *root, true; ok && !seen[cur.base.ID]; {
		ordered = append(ordered, cur)
		seen[cur.base.ID] = true
		if cur.base.NextID == nil {
			break
		}
		cur, ok = byID[*cur.base.NextID]
	}
	for _, row := range list {
		if !seen[row.base.ID] {
			ordered = append(ordered, row)
		}
	}
	return ordered
}

func insertCommunication(ctx context.Context, tx pgx.Tx, row communicationRow) error {
	const query = `
        INSERT INTO communications (id, kind, originator, message, status, created_at, thread_id, previous_id, next_id, latest,
                                    message_type, requested_completion_date, record_id, group_id, notification_type, payload_json)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	c := row.base
	if _, err := tx.Exec(ctx, query,
		c.ID,
		c.Kind,
		c.Originator,
		c.Message,
		c.Status,
		c.CreatedAt,
		c.ThreadID,
		c.PreviousID,
		c.NextID,
		c.Latest,
		row.messageType,
		row.requestedCompletionDate,
		row.recordID,
		row.groupID,
		row.notificationType,
		row.payloadJSON,
	); err != nil {
		return err
	}
	return insertTargets(ctx, tx, c)
}

func insertTargets(ctx context.Context, tx pgx.Tx, c *domain.Communication) error {
	const query = `
        INSERT INTO communication_targets (communication_id, recipient, position, status, last_status_update, status_message)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	for i, target := range c.Recipients {
		if err := tx.QueryRow(ctx, query,
			c.ID,
			target.Recipient,
			i,
			target.Status,
			target.LastStatusUpdate,
			target.StatusMessage,
		).Scan(&target.ID); err != nil {
			return err
		}
	}
	return nil
}

func scanCommunication(row pgx.Row) (communicationRow, error) {
	var (
		c    domain.Communication
		out  = communicationRow{base: &c}
		kind string
	)
	if err := row.Scan(
		&c.ID,
		&kind,
		&c.Originator,
		&c.Message,
		&c.Status,
		&c.CreatedAt,
		&c.ThreadID,
		&c.PreviousID,
		&c.NextID,
		&c.Latest,
		&out.messageType,
		&out.requestedCompletionDate,
		&out.recordID,
		&out.groupID,
		&out.notificationType,
		&out.payloadJSON,
	); err != nil {
		return communicationRow{}, err
	}
	c.Kind = domain.CommunicationKind(kind)
	return out, nil
}

func (r *communicationRepository) loadTargets(ctx context.Context, comms []*domain.Communication) error {
	return loadTargets(ctx, r.pool, comms)
}

func loadTargets(ctx context.Context, pool *pgxpool.Pool, comms []*domain.Communication) error {
	if len(comms) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Communication, len(comms))
	ids := make([]string, 0, len(comms))
	for _, c := range comms {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	const query = `
        SELECT id, communication_id, recipient, status, last_status_update, status_message
        FROM communication_targets WHERE communication_id::text = ANY($1)
        ORDER BY communication_id, position ASC`
	rows, err := pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var target domain.CommunicationTarget
		if err := rows.Scan(
			&target.ID,
			&target.CommunicationID,
			&target.Recipient,
			&target.Status,
			&target.LastStatusUpdate,
			&target.StatusMessage,
		); err != nil {
			return err
		}
		if c, ok := byID[target.CommunicationID]; ok {
			t := target
			c.Recipients = append(c.Recipients, &t)
		}
	}
	return rows.Err()
}
