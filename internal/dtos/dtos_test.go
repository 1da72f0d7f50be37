package dtos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatsync/internal/domain"
)

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 3, 4, 5, 6, 7, 123000000, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-04T05:06:07.123Z", want},
		{"2025-03-04T08:06:07.123+03:00", want},
		{"2025-03-04T05:06:07.123456", want},
		{"2025-03-04", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s", got)
		})
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestTimeJSON(t *testing.T) {
	b, err := json.Marshal(NewTime(time.Date(2025, 1, 1, 0, 0, 1, 0, time.FixedZone("X", 3600))))
	require.NoError(t, err)
	assert.Equal(t, `"2024-12-31T23:00:01.000Z"`, string(b))

	b, err = json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var parsed struct {
		A Time `json:"a"`
		B Time `json:"b"`
		C Time `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2025-01-01T00:00:00.500Z","b":null,"c":""}`), &parsed))
	assert.Equal(t, 500, parsed.A.Nanosecond()/int(time.Millisecond))
	assert.True(t, parsed.B.IsZero())
	assert.Nil(t, parsed.C.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"a":12}`), &parsed))
}

func TestMessageDTO_OptionalFieldsAreNull(t *testing.T) {
	dto := ToMessageDTO(domain.Message{ID: 1, ChatID: 2, Role: domain.RoleUser, Content: "hi"})
	b, err := json.Marshal(dto)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, key := range []string{"imageBase64", "imagePath", "thinkingContent", "responseTimeMs", "reaction", "generatedImageBase64", "generatedImagePrompt", "generatedImageModel", "timestamp"} {
		v, ok := raw[key]
		assert.True(t, ok, key)
		assert.Nil(t, v, key)
	}
	assert.Equal(t, false, raw["isThinking"])
}

func TestSyncPushRequest_ToBatch(t *testing.T) {
	body := `{
		"chats": [{"id": 1, "title": "Trip", "createdAt": "2025-01-01T00:00:00.000Z"}],
		"messages": [{"id": 2, "chatId": 1, "role": "user", "content": "hi", "responseTimeMs": 120}],
		"memories": [{"content": "likes tea"}]
	}`
	var req SyncPushRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	batch := req.ToBatch()
	require.Len(t, batch.Chats, 1)
	assert.True(t, batch.Chats[0].UpdatedAt.IsZero())
	require.Len(t, batch.Messages, 1)
	require.NotNil(t, batch.Messages[0].ResponseTimeMs)
	assert.Equal(t, int64(120), *batch.Messages[0].ResponseTimeMs)
	require.Len(t, batch.Memories, 1)
	assert.Zero(t, batch.Memories[0].ID)
}
