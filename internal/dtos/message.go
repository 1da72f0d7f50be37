// File: internal/dtos/message.go
package dtos

import "github.com/iyunix/go-chatsync/internal/domain"

// MessageDTO is the wire shape of a message. Optional payloads serialize as null.
type MessageDTO struct {
	ID                   uint64  `json:"id"`
	ChatID               uint64  `json:"chatId"`
	Role                 string  `json:"role"`
	Content              string  `json:"content"`
	Timestamp            Time    `json:"timestamp"`
	WebSearchUsed        bool    `json:"webSearchUsed"`
	ImageBase64          *string `json:"imageBase64"`
	ImagePath            *string `json:"imagePath"`
	ThinkingContent      *string `json:"thinkingContent"`
	IsThinking           bool    `json:"isThinking"`
	ResponseTimeMs       *int64  `json:"responseTimeMs"`
	Reaction             *string `json:"reaction"`
	GeneratedImageBase64 *string `json:"generatedImageBase64"`
	GeneratedImagePrompt *string `json:"generatedImagePrompt"`
	GeneratedImageModel  *string `json:"generatedImageModel"`
	IsGeneratingImage    bool    `json:"isGeneratingImage"`
}

func ToMessageDTO(m domain.Message) MessageDTO {
	return MessageDTO{
		ID:                   m.ID,
		ChatID:               m.ChatID,
		Role:                 string(m.Role),
		Content:              m.Content,
		Timestamp:            NewTime(m.Timestamp),
		WebSearchUsed:        m.WebSearchUsed,
		ImageBase64:          m.ImageBase64,
		ImagePath:            m.ImagePath,
		ThinkingContent:      m.ThinkingContent,
		IsThinking:           m.IsThinking,
		ResponseTimeMs:       m.ResponseTimeMs,
		Reaction:             m.Reaction,
		GeneratedImageBase64: m.GeneratedImageBase64,
		GeneratedImagePrompt: m.GeneratedImagePrompt,
		GeneratedImageModel:  m.GeneratedImageModel,
		IsGeneratingImage:    m.IsGeneratingImage,
	}
}

func ToMessageDTOs(messages []domain.Message) []MessageDTO {
	out := make([]MessageDTO, len(messages))
	for i := range messages {
		out[i] = ToMessageDTO(messages[i])
	}
	return out
}

// ToDomain leaves OwnerID empty; the caller fills it from the session.
func (d MessageDTO) ToDomain() domain.Message {
	return domain.Message{
		ID:                   d.ID,
		ChatID:               d.ChatID,
		Role:                 domain.Role(d.Role),
		Content:              d.Content,
		Timestamp:            d.Timestamp.Time,
		WebSearchUsed:        d.WebSearchUsed,
		ImageBase64:          d.ImageBase64,
		ImagePath:            d.ImagePath,
		ThinkingContent:      d.ThinkingContent,
		IsThinking:           d.IsThinking,
		ResponseTimeMs:       d.ResponseTimeMs,
		Reaction:             d.Reaction,
		GeneratedImageBase64: d.GeneratedImageBase64,
		GeneratedImagePrompt: d.GeneratedImagePrompt,
		GeneratedImageModel:  d.GeneratedImageModel,
		IsGeneratingImage:    d.IsGeneratingImage,
	}
}

// UpdateMessageRequest lists the fields a direct message update may change.
type UpdateMessageRequest struct {
	Reaction             *string `json:"reaction"`
	Content              *string `json:"content"`
	IsThinking           *bool   `json:"isThinking"`
	ThinkingContent      *string `json:"thinkingContent"`
	IsGeneratingImage    *bool   `json:"isGeneratingImage"`
	GeneratedImageBase64 *string `json:"generatedImageBase64"`
}

func (r UpdateMessageRequest) ToPatch() domain.MessagePatch {
	return domain.MessagePatch{
		Reaction:             r.Reaction,
		Content:              r.Content,
		IsThinking:           r.IsThinking,
		ThinkingContent:      r.ThinkingContent,
		IsGeneratingImage:    r.IsGeneratingImage,
		GeneratedImageBase64: r.GeneratedImageBase64,
	}
}

type MessageListResponse struct {
	Success  bool         `json:"success"`
	Messages []MessageDTO `json:"messages"`
	Count    int          `json:"count"`
}

type MessageResponse struct {
	Success bool       `json:"success"`
	Message MessageDTO `json:"message"`
}
