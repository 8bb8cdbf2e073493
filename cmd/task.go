/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/policy"
	"github.com/nakachan-ing/pick3-cli/internal/score"
	"github.com/nakachan-ing/pick3-cli/internal/store"
	"github.com/nakachan-ing/pick3-cli/internal/util"
	"github.com/spf13/cobra"
)

var taskKind string
var taskDeadline string
var taskListAll bool

// 完了時のランダムメッセージ（Webアプリ版のトーストと同じノリ）
var positiveMessages = []string{
	"🎉 えらい！",
	"✨ ナイス！その調子",
	"💪 一歩前進",
	"🌟 おつかれさま！",
	"🙌 いいね、片付いた",
}

func parseKind(s string) (model.TaskKind, error) {
	switch model.TaskKind(s) {
	case model.KindNormal, model.KindWorkPlan, model.KindReply, model.KindPayment:
		return model.TaskKind(s), nil
	default:
		return "", fmt.Errorf("invalid kind %q (normal / work_plan / reply / payment)", s)
	}
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage your task backlog",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add tasks (multiple lines via stdin)",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		kind, err := parseKind(taskKind)
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		if taskDeadline != "" {
			if _, err := model.ParseDateKey(taskDeadline); err != nil {
				log.Printf("❌ Invalid deadline %q (use YYYY-MM-DD)", taskDeadline)
				os.Exit(1)
			}
		}

		var lines []string
		if len(args) > 0 {
			lines = []string{strings.Join(args, " ")}
		} else {
			// 引数なしなら標準入力から複数行（空行はスキップされる）
			fmt.Println("✏️  1行1タスクで入力してください（Ctrl+Dで確定）:")
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
		}

		var inputs []store.NewTask
		for _, line := range lines {
			inputs = append(inputs, store.NewTask{Text: line, Kind: kind, DeadlineAt: taskDeadline})
		}

		added := taskStore.AddTasks(inputs)
		if len(added) == 0 {
			fmt.Println("⚠️ 追加するタスクがありません（空行のみ）")
			return
		}
		for _, t := range added {
			fmt.Printf("✅ Added: %s (%s)\n", t.Text, t.ID)
		}

		applyPolicy(config, taskStore)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show today's 3 and the backlog",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		settings := store.LoadSettings(config)

		applyPolicy(config, taskStore)

		now := time.Now()
		todayKey := model.DateKey(now)
		tasks := taskStore.Sorted()

		// 今日の3つ
		fmt.Println("📌 今日の3つ")
		todayCount := 0
		for _, t := range tasks {
			if t.IsSecret || !t.IsToday {
				continue
			}
			todayCount++
			checkbox := "☐"
			line := t.Text
			if t.Completed {
				checkbox = "☑"
				line = text.FgHiBlack.Sprintf("%s", line)
			}
			fmt.Printf("  %s %s  %s\n", checkbox, line, text.FgHiBlack.Sprintf("(%s)", t.ID))
		}
		if todayCount == 0 {
			fmt.Println("  （まだ選んでいません。`pick3 today add <id>` か `pick3 ai pick3`）")
		}
		fmt.Println()

		// バックログ
		var backlog []model.Task
		for _, t := range tasks {
			if t.IsToday {
				continue
			}
			if t.Completed && !taskListAll {
				continue
			}
			if t.IsSnoozed(todayKey) {
				continue
			}
			backlog = append(backlog, t)
		}
		if settings.AutoSort {
			backlog = policy.SortByScore(backlog, now)
		}

		w := table.NewWriter()
		w.SetOutputMirror(os.Stdout)
		w.SetStyle(table.StyleDouble)
		w.Style().Options.SeparateRows = false

		w.AppendHeader(table.Row{
			text.FgGreen.Sprintf("ID"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Task")),
			text.FgGreen.Sprintf("Kind"),
			text.FgGreen.Sprintf("Deadline"),
			text.FgGreen.Sprintf("Score"),
			text.FgGreen.Sprintf("Defer"),
		})

		for _, t := range backlog {
			// シークレットタスクはスコアリングの外なので各セルは空のまま
			if t.IsSecret {
				w.AppendRow(table.Row{t.ID, t.Text, "", "", "", ""})
				continue
			}

			kind := string(t.KindOrNormal())
			kindColored := kind
			switch t.KindOrNormal() {
			case model.KindReply:
				kindColored = text.FgHiYellow.Sprintf("%s", kind)
			case model.KindPayment:
				kindColored = text.FgHiRed.Sprintf("%s", kind)
			case model.KindWorkPlan:
				kindColored = text.FgHiBlue.Sprintf("%s", kind)
			}

			taskText := t.Text
			if t.Completed {
				taskText = text.FgHiBlack.Sprintf("%s", taskText)
			}

			w.AppendRow(table.Row{
				t.ID,
				taskText,
				kindColored,
				t.DeadlineAt,
				score.Score(t, now),
				t.DeferCount,
			})
		}
		w.Render()

		if snoozed := policy.SnoozedCount(taskStore.Tasks(), todayKey); snoozed > 0 {
			fmt.Printf("😴 スヌーズ中: %d件\n", snoozed)
		}
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [taskID]",
	Short: "Toggle a task done / not done",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		updated, err := taskStore.ToggleCompleted(task.ID)
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		if updated.Completed {
			fmt.Printf("%s %s\n", positiveMessages[rand.Intn(len(positiveMessages))], updated.Text)
		} else {
			fmt.Printf("↩️  未完了に戻しました: %s\n", updated.Text)
		}

		applyPolicy(config, taskStore)
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [taskID] [new text]",
	Short: "Edit a task's text (opens $EDITOR without text)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		var newText string
		if len(args) > 1 {
			newText = strings.Join(args[1:], " ")
		} else {
			newText, err = util.EditTextInEditor(task.Text, config)
			if err != nil {
				log.Printf("❌ Failed to open editor: %v", err)
				os.Exit(1)
			}
		}

		if err := taskStore.EditText(task.ID, newText); err != nil {
			if errors.Is(err, store.ErrEmptyText) {
				fmt.Println("⚠️ 空のテキストには変更できません（元のままにしました）")
				return
			}
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Updated: %s\n", strings.TrimSpace(newText))
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:   "remove [taskID]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		if err := taskStore.Delete(task.ID); err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		fmt.Printf("🗑️  Deleted: %s\n", task.Text)

		applyPolicy(config, taskStore)
	},
}

var taskSnoozeCmd = &cobra.Command{
	Use:   "snooze [taskID] [until]",
	Short: "Hide a task until a date (YYYY-MM-DD, +Nd, or `clear`)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		until := args[1]
		switch {
		case until == "clear":
			until = ""
		case strings.HasPrefix(until, "+") && strings.HasSuffix(until, "d"):
			var days int
			if _, err := fmt.Sscanf(until, "+%dd", &days); err != nil || days < 1 {
				log.Printf("❌ Invalid snooze duration %q (use +3d)", args[1])
				os.Exit(1)
			}
			until = model.DateKey(time.Now().AddDate(0, 0, days))
		default:
			if _, err := model.ParseDateKey(until); err != nil {
				log.Printf("❌ Invalid date %q (use YYYY-MM-DD, +Nd, or `clear`)", until)
				os.Exit(1)
			}
		}

		if err := taskStore.Snooze(task.ID, until); err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		if until == "" {
			fmt.Printf("⏰ スヌーズ解除: %s\n", task.Text)
		} else {
			fmt.Printf("😴 %s までスヌーズ: %s\n", until, task.Text)
		}

		applyPolicy(config, taskStore)
	},
}

var taskReorderCmd = &cobra.Command{
	Use:   "reorder [taskID...]",
	Short: "Reorder backlog tasks manually",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		settings := store.LoadSettings(config)

		if settings.AutoSort {
			fmt.Println("⚠️ オートソート中は手動の並び替えはできません（`pick3 today autosort off`）")
			return
		}

		ids := make([]string, 0, len(args))
		for _, arg := range args {
			task, err := taskStore.Resolve(arg)
			if err != nil {
				log.Printf("❌ %v", err)
				os.Exit(1)
			}
			ids = append(ids, task.ID)
		}

		taskStore.Reorder(ids)
		fmt.Printf("✅ Reordered %d tasks\n", len(ids))
	},
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskKind, "kind", "k", "normal", "Task kind (normal / work_plan / reply / payment)")
	taskAddCmd.Flags().StringVarP(&taskDeadline, "deadline", "d", "", "Deadline (YYYY-MM-DD)")
	taskListCmd.Flags().BoolVarP(&taskListAll, "all", "a", false, "Include completed tasks")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskRemoveCmd)
	taskCmd.AddCommand(taskSnoozeCmd)
	taskCmd.AddCommand(taskReorderCmd)
	rootCmd.AddCommand(taskCmd)
}
