package domain

import (
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// ThreadChain is an append-only arena of revisions of one logical request,
// addressed by communication id, with exactly one latest node: the tip.
type ThreadChain struct {
	threadID string
	nodes    map[string]*Communication
	order    []string
}

// NewThreadChain starts a chain at root, which becomes the latest node.
func NewThreadChain(root *Communication) (*ThreadChain, error) {
	if root == nil || root.ID == "" {
		return nil, apperrors.NewValidationError("thread root requires an id", nil)
	}
	if root.HasPreviousMessage() || root.HasNextMessage() {
		return nil, apperrors.NewInvalidState("thread root is already linked", map[string]any{"communication_id": root.ID})
	}
	if err := root.SetLatest(true); err != nil {
		return nil, err
	}
	root.ThreadID = root.ID
	return &ThreadChain{
		threadID: root.ID,
		nodes:    map[string]*Communication{root.ID: root},
		order:    []string{root.ID},
	}, nil
}

// LoadThreadChain rebuilds a chain from stored nodes, oldest first, and validates it.
func LoadThreadChain(nodes []*Communication) (*ThreadChain, error) {
	if len(nodes) == 0 {
		return nil, apperrors.NewValidationError("thread has no messages", nil)
	}
	chain := &ThreadChain{
		threadID: nodes[0].ID,
		nodes:    make(map[string]*Communication, len(nodes)),
		order:    make([]string, 0, len(nodes)),
	}
	for _, node := range nodes {
		chain.nodes[node.ID] = node
		chain.order = append(chain.order, node.ID)
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}
	return chain, nil
}

// ThreadID is the id of the first node.
func (t *ThreadChain) ThreadID() string {
	return t.threadID
}

// Len returns the number of revisions.
func (t *ThreadChain) Len() int {
	return len(t.order)
}

// Get returns the node with id, or nil.
func (t *ThreadChain) Get(id string) *Communication {
	return t.nodes[id]
}

// Nodes returns the revisions oldest first.
func (t *ThreadChain) Nodes() []*Communication {
	out := make([]*Communication, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}
	return out
}

// Latest returns the tip of the chain.
func (t *ThreadChain) Latest() *Communication {
	return t.nodes[t.order[len(t.order)-1]]
}

// Append links next after the current tip and moves the latest flag to it.
// On error no node is modified.
func (t *ThreadChain) Append(next *Communication) error {
	if next == nil || next.ID == "" {
		return apperrors.NewValidationError("revision requires an id", nil)
	}
	if _, exists := t.nodes[next.ID]; exists {
		return apperrors.NewConflict("revision already in thread", map[string]any{"communication_id": next.ID})
	}
	if next.HasPreviousMessage() || next.HasNextMessage() {
		return apperrors.NewInvalidState("revision is already linked", map[string]any{"communication_id": next.ID})
	}
	tip := t.Latest()
	if next.CreatedAt.Before(tip.CreatedAt) {
		return apperrors.NewOrderingError("revision created before the current latest message", map[string]any{
			"thread_id": t.threadID,
			"latest_id": tip.ID,
			"next_id":   next.ID,
		})
	}

	// Checks above cover every failure of the setters below.
	_ = tip.SetLatest(false)
	_ = tip.SetNextMessage(next)
	_ = next.SetPreviousMessage(tip)
	_ = next.SetLatest(true)
	next.ThreadID = t.threadID

	t.nodes[next.ID] = next
	t.order = append(t.order, next.ID)
	return nil
}

// Validate checks links, ordering and the single-latest rule in one scan.
func (t *ThreadChain) Validate() error {
	latestCount := 0
	for i, id := range t.order {
		node := t.nodes[id]
		if node.Latest {
			latestCount++
		}
		var prevID, nextID *string
		if i > 0 {
			prev := t.nodes[t.order[i-1]]
			if node.CreatedAt.Before(prev.CreatedAt) {
				return apperrors.NewOrderingError("thread is out of creation order", map[string]any{"communication_id": id})
			}
			prevID = &prev.ID
		}
		if i < len(t.order)-1 {
			nextID = &t.order[i+1]
		}
		if !sameLink(node.PreviousID, prevID) || !sameLink(node.NextID, nextID) {
			return apperrors.NewInvalidState("thread links are inconsistent", map[string]any{"communication_id": id})
		}
	}
	if latestCount != 1 || !t.Latest().Latest {
		return apperrors.NewInvalidState("thread must have exactly one latest message at its tip", map[string]any{
			"thread_id": t.threadID,
			"latest":    latestCount,
		})
	}
	return nil
}

func sameLink(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
