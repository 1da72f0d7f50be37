package domain

// IDSequence is the persisted counter behind the counter id allocator.
// Scope is "<kind>:<owner>" for chats and memories and "message:<owner>:<chat>" for messages.
type IDSequence struct {
	Scope  string `gorm:"primaryKey;size:300"`
	LastID uint64 `gorm:"not null"`
}
