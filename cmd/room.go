/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/room"
	"github.com/nakachan-ing/pick3-cli/internal/store"
	"github.com/spf13/cobra"
)

var roomLabelFlag string

const roomTimeout = 10 * time.Second

func roomContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), roomTimeout)
}

func openRoomService(ctx context.Context, config model.Config) *room.Service {
	service, err := room.NewService(ctx, config)
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
	return service
}

// currentRoomID - settings に保存されている参加中ルーム。未参加なら終了
func currentRoomID(config model.Config) string {
	settings := store.LoadSettings(config)
	if settings.CurrentRoomID == "" {
		fmt.Println("🚪 共有に参加していません（`pick3 room create` か `pick3 room join <key>`）")
		os.Exit(1)
	}
	return settings.CurrentRoomID
}

func mustUID(config model.Config) string {
	uid, err := store.LoadOrCreateUID(config)
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
	return uid
}

func reportRoomError(err error) {
	switch {
	case errors.Is(err, room.ErrInvalidKey):
		fmt.Println("⚠️ キーが短いか形式が違います（半角英数10文字以上）")
	case errors.Is(err, room.ErrRoomDeleted):
		fmt.Println("🚪 この共有は削除されています")
	case errors.Is(err, room.ErrRoomFull):
		fmt.Println("⚠️ この共有はもう満員です（2人まで）")
	case errors.Is(err, room.ErrRoomNotFound):
		fmt.Println("❓ 共有が見つかりません")
	default:
		log.Printf("❌ %v", err)
	}
}

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Share a room with one other person",
}

var roomCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a room and print its key",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		uid := mustUID(config)

		key, err := room.GenerateKey()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		ctx, cancel := roomContext()
		defer cancel()
		service := openRoomService(ctx, config)
		defer service.Close(ctx)

		result, err := service.Join(ctx, key, uid)
		if err != nil {
			reportRoomError(err)
			os.Exit(1)
		}

		settings := store.LoadSettings(config)
		settings.CurrentRoomID = result.RoomID
		store.SaveSettings(config, settings)
		if roomLabelFlag != "" {
			store.SetRoomLabel(config, result.RoomID, roomLabelFlag)
		}

		fmt.Println("✅ 共有ルームを作成しました")
		color.New(color.FgHiYellow, color.Bold).Printf("🔑 %s\n", key)
		fmt.Println("このキーを相手に渡してください（キーはどこにも保存されません）")

		if err := clipboard.WriteAll(key); err != nil {
			log.Printf("⚠️ Failed to copy key to clipboard: %v", err)
		} else {
			fmt.Println("📋 キーをクリップボードにコピーしました")
		}
	},
}

var roomJoinCmd = &cobra.Command{
	Use:   "join [key]",
	Short: "Join a room with a shared key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		uid := mustUID(config)

		ctx, cancel := roomContext()
		defer cancel()
		service := openRoomService(ctx, config)
		defer service.Close(ctx)

		result, err := service.Join(ctx, args[0], uid)
		if err != nil {
			reportRoomError(err)
			os.Exit(1)
		}

		settings := store.LoadSettings(config)
		settings.CurrentRoomID = result.RoomID
		store.SaveSettings(config, settings)
		if roomLabelFlag != "" {
			store.SetRoomLabel(config, result.RoomID, roomLabelFlag)
		}

		if result.IsNew {
			fmt.Println("✅ まだ誰もいなかったので、新しい共有として作成しました")
		} else {
			fmt.Println("✅ 共有に参加しました")
		}
	},
}

var roomLeaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the current room",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		uid := mustUID(config)
		roomID := currentRoomID(config)

		ctx, cancel := roomContext()
		defer cancel()
		service := openRoomService(ctx, config)
		defer service.Close(ctx)

		if err := service.Leave(ctx, roomID, uid); err != nil {
			reportRoomError(err)
			os.Exit(1)
		}

		store.ClearRoomLabel(config, roomID)
		settings := store.LoadSettings(config)
		settings.CurrentRoomID = ""
		store.SaveSettings(config, settings)

		fmt.Println("👋 共有から抜けました")
	},
}

var roomDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the current room for both participants",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		roomID := currentRoomID(config)

		ctx, cancel := roomContext()
		defer cancel()
		service := openRoomService(ctx, config)
		defer service.Close(ctx)

		if err := service.Delete(ctx, roomID); err != nil {
			reportRoomError(err)
			os.Exit(1)
		}

		store.ClearRoomLabel(config, roomID)
		settings := store.LoadSettings(config)
		settings.CurrentRoomID = ""
		store.SaveSettings(config, settings)

		fmt.Println("🗑️  共有を削除しました")
	},
}

var roomStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current room",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		uid := mustUID(config)
		roomID := currentRoomID(config)

		ctx, cancel := roomContext()
		defer cancel()
		service := openRoomService(ctx, config)
		defer service.Close(ctx)

		current, err := service.Get(ctx, roomID)
		if err != nil {
			reportRoomError(err)
			os.Exit(1)
		}
		if current.DeletedAt != nil {
			fmt.Println("🚪 この共有は削除されています")
			return
		}

		label := store.GetRoomLabel(config, roomID)
		if label == "" {
			label = "(no label)"
		}

		fmt.Printf("🏠 %s\n", label)
		fmt.Printf("   参加者: %d/2\n", len(current.ParticipantUIDs))
		if !room.IsParticipant(current, uid) {
			fmt.Println("   ⚠️ このルームにはもう参加していません")
		}
		if current.LastMessageAt != nil {
			fmt.Printf("   最終メッセージ: %s\n", current.LastMessageAt.Local().Format("2006-01-02 15:04"))
		}
	},
}

var roomLabelCmd = &cobra.Command{
	Use:   "label [name]",
	Short: "Give the current room a local display name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		roomID := currentRoomID(config)

		store.SetRoomLabel(config, roomID, args[0])
		if strings.TrimSpace(args[0]) == "" {
			fmt.Println("✅ ラベルを削除しました")
		} else {
			fmt.Printf("✅ ラベルを設定しました: %s\n", strings.TrimSpace(args[0]))
		}
	},
}

var roomSendCmd = &cobra.Command{
	Use:   "send [text]",
	Short: "Send a message to the room",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		uid := mustUID(config)
		roomID := currentRoomID(config)

		ctx, cancel := roomContext()
		defer cancel()
		service := openRoomService(ctx, config)
		defer service.Close(ctx)

		if err := service.SendMessage(ctx, roomID, uid, strings.Join(args, " ")); err != nil {
			reportRoomError(err)
			os.Exit(1)
		}
		fmt.Println("📨 送信しました")
	},
}

var roomMessagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Read the room's messages (marks them read)",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		uid := mustUID(config)
		roomID := currentRoomID(config)

		ctx, cancel := roomContext()
		defer cancel()
		service := openRoomService(ctx, config)
		defer service.Close(ctx)

		messages, err := service.Messages(ctx, roomID)
		if err != nil {
			reportRoomError(err)
			os.Exit(1)
		}
		if len(messages) == 0 {
			fmt.Println("📭 メッセージはありません")
			return
		}

		for _, message := range messages {
			sender := "相手"
			if message.SenderUID == uid {
				sender = "自分"
			}
			timestamp := message.CreatedAt.Local().Format("01-02 15:04")
			if sender == "自分" {
				color.New(color.FgHiBlack).Printf("[%s] %s: %s\n", timestamp, sender, message.Text)
			} else {
				fmt.Printf("[%s] %s: %s\n", timestamp, sender, message.Text)
			}

			// 相手のメッセージは読んだそばから既読（両者既読で消える）
			if message.SenderUID != uid {
				if err := service.MarkRead(ctx, message, uid); err != nil {
					log.Printf("⚠️ Failed to mark message as read: %v", err)
				}
			}
		}
	},
}

func init() {
	roomCreateCmd.Flags().StringVarP(&roomLabelFlag, "label", "l", "", "Local display name for the room")
	roomJoinCmd.Flags().StringVarP(&roomLabelFlag, "label", "l", "", "Local display name for the room")

	roomCmd.AddCommand(roomCreateCmd)
	roomCmd.AddCommand(roomJoinCmd)
	roomCmd.AddCommand(roomLeaveCmd)
	roomCmd.AddCommand(roomDeleteCmd)
	roomCmd.AddCommand(roomStatusCmd)
	roomCmd.AddCommand(roomLabelCmd)
	roomCmd.AddCommand(roomSendCmd)
	roomCmd.AddCommand(roomMessagesCmd)
	rootCmd.AddCommand(roomCmd)
}
