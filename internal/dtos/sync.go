// File: internal/dtos/sync.go
package dtos

import (
	"github.com/iyunix/go-chatsync/internal/services/reconcile"
)

type SyncPullResponse struct {
	Success  bool         `json:"success"`
	Chats    []ChatDTO    `json:"chats"`
	Messages []MessageDTO `json:"messages"`
	Memories []MemoryDTO  `json:"memories"`
	SyncedAt Time         `json:"syncedAt"`
}

func ToSyncPullResponse(r *reconcile.PullResult) SyncPullResponse {
	return SyncPullResponse{
		Success:  true,
		Chats:    ToChatDTOs(r.Chats),
		Messages: ToMessageDTOs(r.Messages),
		Memories: ToMemoryDTOs(r.Memories),
		SyncedAt: NewTime(r.SyncedAt),
	}
}

// SyncPushRequest is the push body. Every batch is optional.
type SyncPushRequest struct {
	Chats    []ChatDTO    `json:"chats"`
	Messages []MessageDTO `json:"messages"`
	Memories []MemoryDTO  `json:"memories"`
}

func (r SyncPushRequest) ToBatch() reconcile.Batch {
	batch := reconcile.Batch{}
	for _, c := range r.Chats {
		batch.Chats = append(batch.Chats, c.ToDomain())
	}
	for _, m := range r.Messages {
		batch.Messages = append(batch.Messages, m.ToDomain())
	}
	for _, m := range r.Memories {
		batch.Memories = append(batch.Memories, m.ToDomain())
	}
	return batch
}

type ItemErrorDTO struct {
	ID     uint64 `json:"id"`
	ChatID uint64 `json:"chatId,omitempty"`
	Error  string `json:"error"`
	Kind   string `json:"kind"`
}

type BatchResultDTO struct {
	Created int            `json:"created"`
	Updated int            `json:"updated"`
	Errors  []ItemErrorDTO `json:"errors"`
}

type PushResultsDTO struct {
	Chats    BatchResultDTO `json:"chats"`
	Messages BatchResultDTO `json:"messages"`
	Memories BatchResultDTO `json:"memories"`
}

type SyncPushResponse struct {
	Success bool           `json:"success"`
	Results PushResultsDTO `json:"results"`
}

func ToSyncPushResponse(r *reconcile.PushResult) SyncPushResponse {
	return SyncPushResponse{
		Success: true,
		Results: PushResultsDTO{
			Chats:    toBatchResultDTO(r.Chats),
			Messages: toBatchResultDTO(r.Messages),
			Memories: toBatchResultDTO(r.Memories),
		},
	}
}

func toBatchResultDTO(b reconcile.BatchResult) BatchResultDTO {
	errs := make([]ItemErrorDTO, len(b.Errors))
	for i, e := range b.Errors {
		errs[i] = ItemErrorDTO{ID: e.ID, ChatID: e.ChatID, Error: e.Error, Kind: string(e.Kind)}
	}
	return BatchResultDTO{Created: b.Created, Updated: b.Updated, Errors: errs}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
