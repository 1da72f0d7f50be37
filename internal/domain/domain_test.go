package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(seconds int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seconds) * time.Second)
}

func TestChatTouch_NeverMovesBackwards(t *testing.T) {
	c := &Chat{UpdatedAt: at(100)}

	c.Touch(at(50))
	assert.True(t, c.UpdatedAt.Equal(at(100)))

	c.Touch(at(150))
	assert.True(t, c.UpdatedAt.Equal(at(150)))
}

func TestChatSoftDelete(t *testing.T) {
	c := &Chat{UpdatedAt: at(200)}
	c.SoftDelete(at(100))

	require.True(t, c.IsDeleted())
	assert.True(t, c.DeletedAt.Equal(at(100)))
	assert.True(t, c.UpdatedAt.Equal(at(200)), "soft delete must not rewind updatedAt")
}

func TestChatValidate(t *testing.T) {
	valid := Chat{OwnerID: "u1", ID: 1, Title: "Hello"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		edit func(c *Chat)
	}{
		{"missing owner", func(c *Chat) { c.OwnerID = "" }},
		{"zero id", func(c *Chat) { c.ID = 0 }},
		{"blank title", func(c *Chat) { c.Title = "   " }},
		{"title too long", func(c *Chat) { c.Title = strings.Repeat("é", MaxChatTitleLength+1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.edit(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, ErrKindValidation, KindOf(err))
		})
	}

	atLimit := valid
	atLimit.Title = strings.Repeat("é", MaxChatTitleLength)
	assert.NoError(t, atLimit.Validate(), "limit counts characters, not bytes")
}

func TestMessageValidate(t *testing.T) {
	valid := Message{OwnerID: "u1", ChatID: 1, ID: 1, Role: RoleUser, Content: "hi"}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Role = "robot"
	assert.Equal(t, ErrKindValidation, KindOf(bad.Validate()))

	bad = valid
	bad.ChatID = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Content = ""
	assert.Error(t, bad.Validate())
}

func TestMemoryValidate(t *testing.T) {
	valid := Memory{OwnerID: "u1", ID: 1, Content: "likes tea"}
	require.NoError(t, valid.Validate())

	long := valid
	long.Content = strings.Repeat("a", MaxMemoryContentLength+1)
	assert.Error(t, long.Validate())
}

func TestMessagePatchApply(t *testing.T) {
	thinking := "pondering"
	m := &Message{Content: "old", IsThinking: true, ThinkingContent: &thinking}

	content := "new"
	reaction := "👍"
	done := false
	MessagePatch{Content: &content, Reaction: &reaction, IsThinking: &done}.Apply(m)

	assert.Equal(t, "new", m.Content)
	require.NotNil(t, m.Reaction)
	assert.Equal(t, "👍", *m.Reaction)
	assert.False(t, m.IsThinking)
	require.NotNil(t, m.ThinkingContent, "untouched fields stay")
	assert.Equal(t, "pondering", *m.ThinkingContent)
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("pull", "could not read changes", cause)

	assert.Equal(t, ErrKindInternal, KindOf(err))
	assert.True(t, IsKind(err, ErrKindInternal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "could not read changes", MessageOf(err))

	plain := errors.New("boom")
	assert.Equal(t, ErrKindInternal, KindOf(plain))
	assert.Equal(t, "boom", MessageOf(plain))

	assert.Equal(t, "maximum 100 chats per user", MessageOf(NewQuotaExceededError("create_chat", 100)))
}

func TestNormalizeTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2025, 1, 1, 3, 0, 0, 123456789, loc)

	got := NormalizeTime(in)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123000000, got.Nanosecond())
	assert.True(t, got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 123000000, time.UTC)))
}

func TestFixedClock(t *testing.T) {
	c := &FixedClock{At: at(10)}
	assert.True(t, c.Now().Equal(at(10)))
	c.Set(at(20))
	assert.True(t, c.Now().Equal(at(20)))
}
