// File: internal/dtos/chat.go
package dtos

import "github.com/iyunix/go-chatsync/internal/domain"

// ChatDTO is the wire shape of a chat. Tombstones are never serialized.
type ChatDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	CreatedAt Time   `json:"createdAt"`
	UpdatedAt Time   `json:"updatedAt"`
}

func ToChatDTO(c domain.Chat) ChatDTO {
	return ChatDTO{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: NewTime(c.CreatedAt),
		UpdatedAt: NewTime(c.UpdatedAt),
	}
}

func ToChatDTOs(chats []domain.Chat) []ChatDTO {
	out := make([]ChatDTO, len(chats))
	for i := range chats {
		out[i] = ToChatDTO(chats[i])
	}
	return out
}

// ToDomain leaves OwnerID empty; the caller fills it from the session.
func (d ChatDTO) ToDomain() domain.Chat {
	return domain.Chat{
		ID:        d.ID,
		Title:     d.Title,
		CreatedAt: d.CreatedAt.Time,
		UpdatedAt: d.UpdatedAt.Time,
	}
}

type CreateChatRequest struct {
	Title     string `json:"title"`
	CreatedAt Time   `json:"createdAt"`
	UpdatedAt Time   `json:"updatedAt"`
}

type UpdateChatRequest struct {
	Title     *string `json:"title"`
	UpdatedAt Time    `json:"updatedAt"`
}

type ChatListResponse struct {
	Success bool      `json:"success"`
	Chats   []ChatDTO `json:"chats"`
	Count   int       `json:"count"`
}

type ChatResponse struct {
	Success bool    `json:"success"`
	Chat    ChatDTO `json:"chat"`
}
