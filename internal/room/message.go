package room

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/oklog/ulid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// メッセージの有効期限（TTL保険）。既読削除が効かなくても3日で消える
const messageTTL = 72 * time.Hour

// SendMessage - メッセージを送信する。送信者は最初から既読扱い
func (s *Service) SendMessage(ctx context.Context, roomID, uid, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("message text is empty")
	}

	now := time.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return fmt.Errorf("❌ Failed to generate message id: %w", err)
	}

	_, err = s.messages.InsertOne(ctx, model.Message{
		ID:        id.String(),
		RoomID:    roomID,
		SenderUID: uid,
		Text:      trimmed,
		CreatedAt: now,
		ReadBy:    []string{uid},
		ExpiresAt: now.Add(messageTTL),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to send message: %w", err)
	}

	// ルームの最終メッセージ時刻を更新
	_, err = s.rooms.UpdateOne(ctx,
		bson.M{"_id": roomID},
		bson.M{"$set": bson.M{"lastMessageAt": now, "updatedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("❌ Failed to update room: %w", err)
	}
	return nil
}

// MarkRead - 既読をつける。両者が読んだメッセージはその場で消す（揮発チャット）
func (s *Service) MarkRead(ctx context.Context, message model.Message, uid string) error {
	for _, reader := range message.ReadBy {
		if reader == uid {
			return nil
		}
	}

	_, err := s.messages.UpdateOne(ctx,
		bson.M{"_id": message.ID},
		bson.M{"$addToSet": bson.M{"readBy": uid}},
	)
	if err != nil {
		return fmt.Errorf("❌ Failed to mark message as read: %w", err)
	}

	// 送信者 + 自分で両者既読になったら削除
	if len(message.ReadBy) >= 1 {
		if _, err := s.messages.DeleteOne(ctx, bson.M{"_id": message.ID}); err != nil {
			// 既に消えている場合は無視
			log.Printf("⚠️ Failed to delete read message: %v", err)
		}
	}
	return nil
}

// Messages - ルームのメッセージを古い順に返す。期限切れは読まない
func (s *Service) Messages(ctx context.Context, roomID string) ([]model.Message, error) {
	cursor, err := s.messages.Find(ctx,
		bson.M{
			"roomId":    roomID,
			"expiresAt": bson.M{"$gt": time.Now().UTC()},
		},
		options.Find().SetSort(bson.M{"createdAt": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to load messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []model.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("❌ Failed to decode messages: %w", err)
	}
	return messages, nil
}
