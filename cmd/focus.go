/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/store"
	"github.com/nakachan-ing/pick3-cli/internal/timer"
	"github.com/spf13/cobra"
)

var (
	focusPhaseStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	focusTimeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	focusTaskStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func loadEngine(config model.Config, taskStore *store.TaskStore) *timer.Engine {
	return timer.NewEngine(taskStore, store.NewTimerStore(config))
}

func phaseLabel(phase model.FocusPhase) string {
	switch phase {
	case model.PhaseFocus:
		return "🔥 フォーカス (25分)"
	case model.PhaseRest:
		return "☕ 休憩 (5分)"
	default:
		return "🚀 スタート (5分)"
	}
}

// expiredPrompt - 時間切れ後の選択肢。自動では遷移しない
func expiredPrompt(phase model.FocusPhase) string {
	switch phase {
	case model.PhaseStart:
		return "`pick3 focus next` でフォーカスへ"
	case model.PhaseFocus:
		return "`pick3 focus next` で休憩 / `pick3 focus again` でもう25分"
	default: // rest
		return "`pick3 focus next` で終了 / `pick3 focus again` でもう25分"
	}
}

func formatRemaining(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

type tickMsg time.Time

func tickEverySecond() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type focusModel struct {
	state    model.FocusTimerState
	taskText string
	now      time.Time
}

func (m focusModel) Init() tea.Cmd {
	return tickEverySecond()
}

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickEverySecond()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m focusModel) View() string {
	var body string
	if m.state.Expired(m.now) {
		body = focusTimeStyle.Render("⏰ 時間です！") + "\n" +
			focusHintStyle.Render(expiredPrompt(m.state.Phase))
	} else {
		body = focusTimeStyle.Render(formatRemaining(m.state.Remaining(m.now)))
	}

	return fmt.Sprintf("\n%s\n%s\n\n%s\n\n%s\n",
		focusPhaseStyle.Render(phaseLabel(m.state.Phase)),
		focusTaskStyle.Render("📝 "+m.taskText),
		body,
		focusHintStyle.Render("q で閉じる（タイマーは裏で動き続けます）"),
	)
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Focus timer (5min start → 25min focus → 5min rest)",
}

var focusStartCmd = &cobra.Command{
	Use:   "start [taskID]",
	Short: "Start a 5min warm-up on a today task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		engine := loadEngine(config, taskStore)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		if err := engine.Begin(task.ID); err != nil {
			switch {
			case errors.Is(err, timer.ErrTimerActive):
				fmt.Println("⚠️ タイマーはすでに動いています（`pick3 focus status`）")
			case errors.Is(err, timer.ErrNotEligible):
				fmt.Println("⚠️ 未完了の今日タスクにだけタイマーを付けられます")
			default:
				log.Printf("❌ %v", err)
				os.Exit(1)
			}
			return
		}

		fmt.Printf("🚀 まず5分だけ: %s\n", task.Text)
	},
}

var focusStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer (live countdown)",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		engine := loadEngine(config, taskStore)

		state := engine.State()
		if state == nil {
			fmt.Println("タイマーは動いていません（`pick3 focus start <id>`）")
			return
		}

		taskText := state.TaskID
		if task, ok := taskStore.Get(state.TaskID); ok {
			taskText = task.Text
		}

		p := tea.NewProgram(focusModel{
			state:    *state,
			taskText: taskText,
			now:      time.Now(),
		})
		if _, err := p.Run(); err != nil {
			log.Printf("❌ Failed to render timer: %v", err)
			os.Exit(1)
		}
	},
}

var focusNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move to the next phase (focus → rest → done)",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		engine := loadEngine(config, taskStore)

		if err := engine.Next(); err != nil {
			if errors.Is(err, timer.ErrNoTimer) {
				fmt.Println("タイマーは動いていません")
				return
			}
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		state := engine.State()
		if state == nil {
			fmt.Println("✅ 1サイクル終了！おつかれさま")
			return
		}
		fmt.Println(phaseLabel(state.Phase))
	},
}

var focusAgainCmd = &cobra.Command{
	Use:   "again",
	Short: "Go for another 25min focus",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		engine := loadEngine(config, taskStore)

		if err := engine.Refocus(); err != nil {
			if errors.Is(err, timer.ErrNoTimer) {
				fmt.Println("タイマーは動いていません")
				return
			}
			fmt.Printf("⚠️ %v\n", err)
			return
		}
		fmt.Println("🔥 もう一周フォーカス（25分）")
	},
}

var focusStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		engine := loadEngine(config, taskStore)

		if err := engine.Stop(); err != nil {
			fmt.Println("タイマーは動いていません")
			return
		}
		fmt.Println("⏹  タイマーを止めました")
	},
}

var focusDoneCmd = &cobra.Command{
	Use:   "done",
	Short: "Complete the bound task and stop the timer",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)
		engine := loadEngine(config, taskStore)

		state := engine.State()
		if state == nil {
			fmt.Println("タイマーは動いていません")
			return
		}

		updated, err := taskStore.ToggleCompleted(state.TaskID)
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s\n", positiveMessages[rand.Intn(len(positiveMessages))], updated.Text)

		// 完了したのでバインドが切れてタイマーも消える
		engine.Revalidate()
		applyPolicy(config, taskStore)
	},
}

func init() {
	focusCmd.AddCommand(focusStartCmd)
	focusCmd.AddCommand(focusStatusCmd)
	focusCmd.AddCommand(focusNextCmd)
	focusCmd.AddCommand(focusAgainCmd)
	focusCmd.AddCommand(focusStopCmd)
	focusCmd.AddCommand(focusDoneCmd)
	rootCmd.AddCommand(focusCmd)
}
