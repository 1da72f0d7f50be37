// File: internal/dtos/memory.go
package dtos

import "github.com/iyunix/go-chatsync/internal/domain"

type MemoryDTO struct {
	ID        uint64 `json:"id"`
	Content   string `json:"content"`
	CreatedAt Time   `json:"createdAt"`
	UpdatedAt Time   `json:"updatedAt"`
}

func ToMemoryDTO(m domain.Memory) MemoryDTO {
	return MemoryDTO{
		ID:        m.ID,
		Content:   m.Content,
		CreatedAt: NewTime(m.CreatedAt),
		UpdatedAt: NewTime(m.UpdatedAt),
	}
}

func ToMemoryDTOs(memories []domain.Memory) []MemoryDTO {
	out := make([]MemoryDTO, len(memories))
	for i := range memories {
		out[i] = ToMemoryDTO(memories[i])
	}
	return out
}

func (d MemoryDTO) ToDomain() domain.Memory {
	return domain.Memory{
		ID:        d.ID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.Time,
		UpdatedAt: d.UpdatedAt.Time,
	}
}

type CreateMemoryRequest struct {
	Content   string `json:"content"`
	CreatedAt Time   `json:"createdAt"`
	UpdatedAt Time   `json:"updatedAt"`
}

type UpdateMemoryRequest struct {
	Content string `json:"content"`
}

type MemoryListResponse struct {
	Success  bool        `json:"success"`
	Memories []MemoryDTO `json:"memories"`
	Count    int         `json:"count"`
}

type MemoryResponse struct {
	Success bool      `json:"success"`
	Memory  MemoryDTO `json:"memory"`
}
