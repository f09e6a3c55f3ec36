package domain_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/spec-kit/request-service/internal/domain"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

var baseTime = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newComm(t *testing.T, id string, at time.Time) *domain.Communication {
	t.Helper()
	c, err := domain.NewCommunication(domain.KindMessageOrRequest, "u-origin", "hello", at)
	require.NoError(t, err)
	c.AssignID(id)
	return c
}

func TestNewCommunication(t *testing.T) {
	t.Run("starts new without links", func(t *testing.T) {
		c := newComm(t, "c1", baseTime)
		assert.Equal(t, domain.StatusNew, c.Status)
		assert.Equal(t, baseTime, c.CreatedAt)
		assert.False(t, c.HasNextMessage())
		assert.False(t, c.HasPreviousMessage())
		assert.True(t, c.IsMessageOrRequest())
	})

	t.Run("originator required", func(t *testing.T) {
		_, err := domain.NewCommunication(domain.KindMessageOrRequest, "", "hello", baseTime)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	})
}

func TestSetMessage(t *testing.T) {
	c := newComm(t, "c1", baseTime)

	exact := strings.Repeat("a", domain.MaxMessageLength)
	c.SetMessage(exact)
	assert.Equal(t, exact, c.Message)

	c.SetMessage(exact + "b")
	assert.Len(t, c.Message, domain.MaxMessageLength)
	assert.True(t, strings.HasSuffix(c.Message, "..."))
	assert.Equal(t, exact[:domain.MaxMessageLength-3], c.Message[:domain.MaxMessageLength-3])

	c.SetMessage("short")
	assert.Equal(t, "short", c.Message)
}

// For any input text, the stored message is at most MaxMessageLength characters,
// keeps inputs up to the limit verbatim and marks longer ones with "...".
func TestSetMessage_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringN(0, domain.MaxMessageLength+200, -1).Draw(rt, "text")
		c, err := domain.NewCommunication(domain.KindMessageOrRequest, "u", text, baseTime)
		require.NoError(rt, err)

		stored := utf8.RuneCountInString(c.Message)
		if stored > domain.MaxMessageLength {
			rt.Fatalf("stored %d characters", stored)
		}
		if utf8.RuneCountInString(text) <= domain.MaxMessageLength {
			assert.Equal(rt, text, c.Message)
			return
		}
		assert.Equal(rt, domain.MaxMessageLength, stored)
		assert.True(rt, strings.HasSuffix(c.Message, "..."))
	})
}

func TestSetNextMessage(t *testing.T) {
	t.Run("later successor is linked", func(t *testing.T) {
		a := newComm(t, "a", baseTime)
		b := newComm(t, "b", baseTime.Add(time.Minute))
		require.NoError(t, a.SetNextMessage(b))
		require.True(t, a.HasNextMessage())
		assert.Equal(t, "b", *a.NextID)
	})

	t.Run("same creation time is allowed", func(t *testing.T) {
		a := newComm(t, "a", baseTime)
		b := newComm(t, "b", baseTime)
		assert.NoError(t, a.SetNextMessage(b))
	})

	t.Run("earlier successor is rejected without mutation", func(t *testing.T) {
		a := newComm(t, "a", baseTime)
		b := newComm(t, "b", baseTime.Add(-time.Second))
		err := a.SetNextMessage(b)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeOrdering))
		assert.False(t, a.HasNextMessage())
	})

	t.Run("later predecessor is rejected", func(t *testing.T) {
		a := newComm(t, "a", baseTime.Add(time.Hour))
		b := newComm(t, "b", baseTime)
		err := b.SetPreviousMessage(a)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeOrdering))
		assert.False(t, b.HasPreviousMessage())
		require.NoError(t, a.SetPreviousMessage(b))
		assert.True(t, a.HasPreviousMessage())
	})
}

// For any pair of creation times, linking a -> b succeeds exactly when b does not predate a.
func TestSetNextMessage_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		offsetA := rapid.IntRange(-1000, 1000).Draw(rt, "offsetA")
		offsetB := rapid.IntRange(-1000, 1000).Draw(rt, "offsetB")
		a := &domain.Communication{ID: "a", CreatedAt: baseTime.Add(time.Duration(offsetA) * time.Second)}
		b := &domain.Communication{ID: "b", CreatedAt: baseTime.Add(time.Duration(offsetB) * time.Second)}

		err := a.SetNextMessage(b)
		if offsetB >= offsetA {
			assert.NoError(rt, err)
			assert.True(rt, a.HasNextMessage())
		} else {
			assert.Error(rt, err)
			assert.False(rt, a.HasNextMessage())
		}
	})
}

func TestSetLatest(t *testing.T) {
	a := newComm(t, "a", baseTime)
	b := newComm(t, "b", baseTime.Add(time.Minute))

	require.NoError(t, a.SetLatest(true))
	require.NoError(t, a.SetLatest(true))
	assert.True(t, a.Latest)

	require.NoError(t, a.SetNextMessage(b))
	err := a.SetLatest(true)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))

	require.NoError(t, a.SetLatest(false))
	assert.False(t, a.Latest)
	err = a.SetLatest(true)
	assert.Error(t, err)
	assert.False(t, a.Latest)
}

func TestAddRecipient(t *testing.T) {
	c := newComm(t, "c1", baseTime)
	target, err := c.AddRecipient("u1", baseTime)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, target.Status)
	assert.Equal(t, "c1", target.CommunicationID)

	_, err = c.AddRecipient("u1", baseTime)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	_, err = c.AddRecipient("", baseTime)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = c.AddRecipient("u2", baseTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, c.RecipientIDs())
	assert.Same(t, target, c.Target("u1"))
	assert.Nil(t, c.Target("nobody"))
}
