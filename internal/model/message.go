package model

import "time"

// Message rows are append-only except for the unread -> read transition.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"column:conversation_id;index" json:"conversationId"`
	SenderUID      string    `gorm:"column:sender_uid;size:128;index" json:"senderUid"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"column:is_read;not null;default:false" json:"isRead"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
