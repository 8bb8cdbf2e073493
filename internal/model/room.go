package model

import "time"

// Room - MongoDB `rooms` コレクションの1ドキュメント。_id は roomKey から導出したハッシュ
type Room struct {
	ID              string     `bson:"_id"`
	ParticipantUIDs []string   `bson:"participantUids"`
	CreatedAt       time.Time  `bson:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
	DeletedAt       *time.Time `bson:"deletedAt"` // 論理削除
	LastMessageAt   *time.Time `bson:"lastMessageAt"`
}

// Message - `messages` コレクションの1ドキュメント。両者既読で消える揮発メッセージ
type Message struct {
	ID        string    `bson:"_id"` // ULID（時刻順ソート可能）
	RoomID    string    `bson:"roomId"`
	SenderUID string    `bson:"senderUid"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
	ReadBy    []string  `bson:"readBy"`
	ExpiresAt time.Time `bson:"expiresAt"` // TTL保険（3日）
}
