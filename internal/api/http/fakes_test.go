package http_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/request-service/internal/domain"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

type explicitOnlyResolver struct{}

func (explicitOnlyResolver) ResolveRecipients(context.Context, domain.MessageType, *string, string) ([]string, error) {
	return nil, nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", len(m.byID)+1)
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byID[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) ListActiveIDs(context.Context) ([]string, error) { return nil, nil }

type memCommunications struct {
	mu   sync.Mutex
	byID map[string]domain.Request
}

func (m *memCommunications) CreateRequest(_ context.Context, req domain.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[req.Base().ID] = req
	return nil
}

func (m *memCommunications) GetRequest(_ context.Context, id string) (domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req, ok := m.byID[id]; ok {
		return req, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memCommunications) ListThread(_ context.Context, threadID string) ([]domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	root, ok := m.byID[threadID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := []domain.Request{root}
	for cur := root.Base(); cur.NextID != nil; cur = out[len(out)-1].Base() {
		out = append(out, m.byID[*cur.NextID])
	}
	return out, nil
}

func (m *memCommunications) SaveVote(context.Context, *domain.Communication, *domain.CommunicationTarget) error {
	return nil
}

func (m *memCommunications) UpdateMessage(context.Context, string, string) error { return nil }

func (m *memCommunications) SaveRevision(_ context.Context, _ *domain.Communication, next domain.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[next.Base().ID] = next
	return nil
}

type memNotifications struct {
	mu    sync.Mutex
	byID  map[string]*domain.SystemNotification
	order []string
}

func (m *memNotifications) Create(_ context.Context, n *domain.SystemNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[n.ID] = n
	m.order = append(m.order, n.ID)
	return nil
}

func (m *memNotifications) GetByID(_ context.Context, id string) (*domain.SystemNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.byID[id]; ok {
		return n, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memNotifications) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}
