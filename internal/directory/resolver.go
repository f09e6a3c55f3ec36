// Package directory resolves the recipients of broadcast and group-bound requests.
package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/request-service/internal/domain"
	"github.com/spec-kit/request-service/internal/repository"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// RecipientResolver returns the recipients a request type is addressed to.
type RecipientResolver interface {
	ResolveRecipients(ctx context.Context, messageType domain.MessageType, groupID *string, originator string) ([]string, error)
}

// DirectoryResolver reads recipients from the user and group tables.
type DirectoryResolver struct {
	users  repository.UserRepository
	groups repository.GroupRepository
}

// NewDirectoryResolver builds a directory-backed resolver.
func NewDirectoryResolver(users repository.UserRepository, groups repository.GroupRepository) *DirectoryResolver {
	return &DirectoryResolver{users: users, groups: groups}
}

// ResolveRecipients returns every active user for broadcast types and the
// group's active members for group types, without the originator. Other types
// carry explicit recipients and resolve to nothing.
func (r *DirectoryResolver) ResolveRecipients(ctx context.Context, messageType domain.MessageType, groupID *string, originator string) ([]string, error) {
	switch {
	case messageType.IsBroadcast():
		ids, err := r.users.ListActiveIDs(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return without(ids, originator), nil
	case messageType.HasGroupContext():
		if groupID == nil || *groupID == "" {
			return nil, apperrors.NewValidationError("group_id required", map[string]any{"message_type": messageType})
		}
		if _, err := r.groups.GetByID(ctx, *groupID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("group", map[string]any{"group_id": *groupID})
			}
			return nil, apperrors.MapError(err)
		}
		ids, err := r.groups.ListMemberIDs(ctx, *groupID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return without(ids, originator), nil
	default:
		return nil, nil
	}
}

func without(ids []string, exclude string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
