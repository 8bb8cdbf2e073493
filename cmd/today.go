/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/policy"
	"github.com/nakachan-ing/pick3-cli/internal/score"
	"github.com/nakachan-ing/pick3-cli/internal/store"
	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Manage today's 3 tasks",
	Run: func(cmd *cobra.Command, args []string) {
		// サブコマンドなしは list と同じ
		todayListCmd.Run(cmd, args)
	},
}

var todayListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show today's tasks",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		applyPolicy(config, taskStore)

		now := time.Now()
		fmt.Printf("📌 今日の3つ (%s)\n", model.DateKey(now))

		count := 0
		for _, t := range taskStore.Sorted() {
			if t.IsSecret || !t.IsToday {
				continue
			}
			count++
			if t.Completed {
				color.New(color.FgHiBlack).Printf("  ☑ %s (%s)\n", t.Text, t.ID)
			} else {
				fmt.Printf("  ☐ %s ", t.Text)
				color.New(color.FgCyan).Printf("[score %d] ", score.Score(t, now))
				color.New(color.FgHiBlack).Printf("(%s)\n", t.ID)
			}
		}
		if count == 0 {
			fmt.Println("  （まだ選んでいません。`pick3 today add <id>` か `pick3 ai pick3`）")
		}

		remaining := policy.TodayCapacity - policy.ActiveTodayCount(taskStore.Tasks())
		if remaining > 0 {
			fmt.Printf("🈳 あと%d枠\n", remaining)
		}
	},
}

var todayAddCmd = &cobra.Command{
	Use:   "add [taskID]",
	Short: "Pick a task for today (max 3)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		if err := policy.CheckManualToday(taskStore.Tasks(), task.ID, true); err != nil {
			if errors.Is(err, policy.ErrTodayFull) {
				fmt.Println("⚠️ 今日の3つはもういっぱいです。先にどれかを外すか完了させてください")
				return
			}
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		if err := taskStore.SetToday(task.ID, true); err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		color.New(color.FgGreen).Printf("📌 今日にしました: %s\n", task.Text)

		applyPolicy(config, taskStore)
	},
}

var todayRemoveCmd = &cobra.Command{
	Use:   "remove [taskID]",
	Short: "Put a task back into the backlog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		if !task.IsToday {
			fmt.Println("⚠️ そのタスクは今日に入っていません")
			return
		}

		if err := taskStore.SetToday(task.ID, false); err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		taskStore.IncrementDefer(task.ID)
		fmt.Printf("↩️  バックログに戻しました: %s\n", task.Text)

		applyPolicy(config, taskStore)
	},
}

var todayAutosortCmd = &cobra.Command{
	Use:   "autosort [on|off]",
	Short: "Toggle score-based backlog ordering",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		settings := store.LoadSettings(config)

		switch args[0] {
		case "on":
			settings.AutoSort = true
			fmt.Println("✅ オートソート: ON（バックログはスコア順で表示）")
		case "off":
			settings.AutoSort = false
			fmt.Println("✅ オートソート: OFF（手動の並び順に戻りました）")
		default:
			log.Printf("❌ Usage: pick3 today autosort [on|off]")
			os.Exit(1)
		}

		store.SaveSettings(config, settings)
	},
}

func init() {
	todayCmd.AddCommand(todayListCmd)
	todayCmd.AddCommand(todayAddCmd)
	todayCmd.AddCommand(todayRemoveCmd)
	todayCmd.AddCommand(todayAutosortCmd)
	rootCmd.AddCommand(todayCmd)
}
