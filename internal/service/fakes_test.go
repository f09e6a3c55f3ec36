package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/request-service/internal/domain"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type stepClock struct {
	now time.Time
}

func newStepClock() *stepClock { return &stepClock{now: baseTime} }

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type staticResolver struct {
	groups map[string][]string
	all    []string
	err    error
}

func (r *staticResolver) ResolveRecipients(_ context.Context, messageType domain.MessageType, groupID *string, _ string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if messageType.IsBroadcast() {
		return r.all, nil
	}
	if groupID == nil {
		return nil, nil
	}
	return r.groups[*groupID], nil
}

type memCommunications struct {
	mu   sync.Mutex
	byID map[string]domain.Request
}

func newMemCommunications() *memCommunications {
	return &memCommunications{byID: map[string]domain.Request{}}
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
	req, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return req, nil
}

func (m *memCommunications) ListThread(_ context.Context, threadID string) ([]domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var root domain.Request
	for _, req := range m.byID {
		if req.Base().ThreadID == threadID && !req.Base().HasPreviousMessage() {
			root = req
		}
	}
	if root == nil {
		return nil, pgx.ErrNoRows
	}
	out := []domain.Request{root}
	for cur := root.Base(); cur.NextID != nil; {
		next := m.byID[*cur.NextID]
		out = append(out, next)
		cur = next.Base()
	}
	return out, nil
}

func (m *memCommunications) SaveVote(context.Context, *domain.Communication, *domain.CommunicationTarget) error {
	return nil
}

func (m *memCommunications) UpdateMessage(_ context.Context, id, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	return nil
}

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

func newMemNotifications() *memNotifications {
	return &memNotifications{byID: map[string]*domain.SystemNotification{}}
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
	n, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return n, nil
}

func (m *memNotifications) all() []*domain.SystemNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.SystemNotification, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}}
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = baseTime
	user.UpdatedAt = baseTime
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
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

func (m *memUsers) ListActiveIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, user := range m.byID {
		if user.Status == domain.UserStatusActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func strPtr(s string) *string { return &s }
