package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxParticipants = 2

var (
	ErrRoomDeleted  = errors.New("this room has been deleted")
	ErrRoomFull     = errors.New("this room is already full")
	ErrRoomNotFound = errors.New("room not found")
)

// Service - MongoDBをルーム/メッセージのドキュメントストアとして使う。
// 参加者リストの read-modify-write は条件付き更新でストア側に寄せる
type Service struct {
	client   *mongo.Client
	rooms    *mongo.Collection
	messages *mongo.Collection
}

func NewService(ctx context.Context, config model.Config) (*Service, error) {
	uri := config.Room.MongoURI
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	database := config.Room.Database
	if database == "" {
		database = "pick3"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to connect to room service: %w", err)
	}

	db := client.Database(database)
	return &Service{
		client:   client,
		rooms:    db.Collection("rooms"),
		messages: db.Collection("messages"),
	}, nil
}

func (s *Service) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// JoinResult - 参加結果。IsNew はこの参加でルームが新規作成されたか
type JoinResult struct {
	RoomID string
	IsNew  bool
}

// Join - ルームに参加する（存在しなければ作成）。満員は2人まで
func (s *Service) Join(ctx context.Context, roomKey, uid string) (*JoinResult, error) {
	roomID, err := DeriveRoomID(roomKey)
	if err != nil {
		return nil, err
	}

	var room model.Room
	err = s.rooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		now := time.Now().UTC()
		_, err := s.rooms.InsertOne(ctx, model.Room{
			ID:              roomID,
			ParticipantUIDs: []string{uid},
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if mongo.IsDuplicateKeyError(err) {
			// 作成競合。参加側のパスでやり直す
			return s.joinExisting(ctx, roomID, uid)
		}
		if err != nil {
			return nil, fmt.Errorf("❌ Failed to create room: %w", err)
		}
		return &JoinResult{RoomID: roomID, IsNew: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to look up room: %w", err)
	}

	return s.joinExistingRoom(ctx, room, uid)
}

func (s *Service) joinExisting(ctx context.Context, roomID, uid string) (*JoinResult, error) {
	var room model.Room
	if err := s.rooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room); err != nil {
		return nil, fmt.Errorf("❌ Failed to look up room: %w", err)
	}
	return s.joinExistingRoom(ctx, room, uid)
}

func (s *Service) joinExistingRoom(ctx context.Context, room model.Room, uid string) (*JoinResult, error) {
	if room.DeletedAt != nil {
		return nil, ErrRoomDeleted
	}
	for _, participant := range room.ParticipantUIDs {
		if participant == uid {
			return &JoinResult{RoomID: room.ID}, nil
		}
	}
	if len(room.ParticipantUIDs) >= maxParticipants {
		return nil, ErrRoomFull
	}

	// `participantUids.1` が無い（=2人未満）ドキュメントだけに $push する条件付き更新。
	// これで同時参加しても定員を超えない
	res, err := s.rooms.UpdateOne(ctx,
		bson.M{
			"_id":               room.ID,
			"deletedAt":         nil,
			"participantUids.1": bson.M{"$exists": false},
			"participantUids":   bson.M{"$ne": uid},
		},
		bson.M{
			"$push": bson.M{"participantUids": uid},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to join room: %w", err)
	}
	if res.ModifiedCount == 0 {
		// 競合で先に埋まったか消された
		var latest model.Room
		if err := s.rooms.FindOne(ctx, bson.M{"_id": room.ID}).Decode(&latest); err == nil {
			if latest.DeletedAt != nil {
				return nil, ErrRoomDeleted
			}
			for _, participant := range latest.ParticipantUIDs {
				if participant == uid {
					return &JoinResult{RoomID: room.ID}, nil
				}
			}
		}
		return nil, ErrRoomFull
	}

	return &JoinResult{RoomID: room.ID}, nil
}

// Leave - 参加者リストから抜ける。ルームが無い/未参加なら何もしない
func (s *Service) Leave(ctx context.Context, roomID, uid string) error {
	var room model.Room
	err := s.rooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("❌ Failed to look up room: %w", err)
	}
	if room.DeletedAt != nil {
		return ErrRoomDeleted
	}

	_, err = s.rooms.UpdateOne(ctx,
		bson.M{"_id": roomID},
		bson.M{
			"$pull": bson.M{"participantUids": uid},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("❌ Failed to leave room: %w", err)
	}
	return nil
}

// Delete - 論理削除。ドキュメント自体は残す
func (s *Service) Delete(ctx context.Context, roomID string) error {
	now := time.Now().UTC()
	res, err := s.rooms.UpdateOne(ctx,
		bson.M{"_id": roomID},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("❌ Failed to delete room: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, roomID string) (*model.Room, error) {
	var room model.Room
	err := s.rooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to look up room: %w", err)
	}
	return &room, nil
}

// IsParticipant - uid がルームの参加者かどうか
func IsParticipant(room *model.Room, uid string) bool {
	for _, participant := range room.ParticipantUIDs {
		if participant == uid {
			return true
		}
	}
	return false
}
