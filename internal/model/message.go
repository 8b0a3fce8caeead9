package model

import "time"

// Sender はチャットメッセージの送信者。
type Sender string

// 送信者の種別
const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message はチャットの1メッセージを表す。
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// FromUser はユーザーの発言であればtrueを返す。
func (m Message) FromUser() bool {
	return m.Sender == SenderUser
}
