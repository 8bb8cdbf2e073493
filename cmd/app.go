package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/policy"
	"github.com/nakachan-ing/pick3-cli/internal/store"
	"github.com/nakachan-ing/pick3-cli/internal/timer"
)

func mustLoadConfig() model.Config {
	config, err := store.LoadConfig()
	if err != nil {
		log.Printf("❌ Error loading config: %v\n", err)
		log.Println("Run `pick3 init` first.")
		os.Exit(1)
	}
	return *config
}

// applyPolicy - タスクが変わるたびに同期的に呼ぶ再評価ポイント。
// 強制インクルードの適用、1日1回の「今日はいっぱい」通知、
// バインド切れタイマーの後始末をここでまとめて行う
func applyPolicy(config model.Config, taskStore *store.TaskStore) {
	now := time.Now()
	result := policy.Enforce(taskStore.Tasks(), now)

	for _, id := range result.EvictIDs {
		if err := taskStore.SetToday(id, false); err != nil {
			log.Printf("⚠️ Failed to evict task from today: %v", err)
			continue
		}
		taskStore.IncrementDefer(id)
		if task, ok := taskStore.Get(id); ok {
			fmt.Printf("↩️  今日から外しました: %s\n", task.Text)
		}
	}

	if result.PromoteID != "" {
		if err := taskStore.SetToday(result.PromoteID, true); err != nil {
			log.Printf("⚠️ Failed to promote task to today: %v", err)
		} else if task, ok := taskStore.Get(result.PromoteID); ok {
			fmt.Printf("📌 忘れないように今日に入れました: %s\n", task.Text)
		}
	}

	if result.TodayFull {
		todayKey := model.DateKey(now)
		settings := store.LoadSettings(config)
		if settings.TodayFullNoticeKey != todayKey {
			fmt.Println("🈵 今日の3つはぜんぶ完了済み。明日の枠で拾うね")
			settings.TodayFullNoticeKey = todayKey
			store.SaveSettings(config, settings)
		}
	}

	// バインド先が無効になったタイマーはここで静かに消える
	timer.NewEngine(taskStore, store.NewTimerStore(config))
}
