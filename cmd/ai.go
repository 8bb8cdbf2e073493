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

	"github.com/charmbracelet/glamour"
	"github.com/nakachan-ing/pick3-cli/internal/ai"
	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/policy"
	"github.com/nakachan-ing/pick3-cli/internal/score"
	"github.com/nakachan-ing/pick3-cli/internal/store"
	"github.com/spf13/cobra"
)

var aiApply bool

const aiRequestTimeout = 90 * time.Second

func newAIClient(config model.Config) *ai.Client {
	client, err := ai.New(config)
	if err != nil {
		fmt.Println("🔑 AIのAPIキーが設定されていません（`pick3 ai key <apiKey>`）")
		os.Exit(1)
	}
	return client
}

func renderMarkdown(markdown string) {
	out, err := glamour.Render(markdown, "dark")
	if err != nil {
		// レンダリング失敗時は素のmarkdownを出す
		fmt.Println(markdown)
		return
	}
	fmt.Print(out)
}

func reportAIError(err error) {
	switch {
	case errors.Is(err, ai.ErrAuth):
		fmt.Println("🔑 AIのAPIキーが無効です（`pick3 ai key <apiKey>`）")
	case errors.Is(err, ai.ErrParse):
		fmt.Println("🤖 応答をうまく読めませんでした。もう一度試してください")
	default:
		log.Printf("❌ AI request failed: %v", err)
	}
}

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "AI assistance (breakdown / pick today's 3)",
}

var aiBreakdownCmd = &cobra.Command{
	Use:   "breakdown [taskID]",
	Short: "Break a task into 4 small steps",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		task, err := taskStore.Resolve(args[0])
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		client := newAIClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), aiRequestTimeout)
		defer cancel()

		fmt.Printf("🤖 分解中: %s\n", task.Text)
		raw, err := client.Generate(ctx, ai.BuildBreakdownPrompt(task.Text))
		if err != nil {
			reportAIError(err)
			os.Exit(1)
		}

		steps, err := ai.ParseBreakdown(raw)
		if err != nil {
			reportAIError(err)
			os.Exit(1)
		}

		var md strings.Builder
		md.WriteString(fmt.Sprintf("## %s\n\n", task.Text))
		for i, step := range steps {
			md.WriteString(fmt.Sprintf("%d. **%s** (%d分)\n   - %s\n", i+1, step.Title, step.Minutes, step.Why))
		}
		renderMarkdown(md.String())

		if !aiApply {
			fmt.Println("💡 タスクとして取り込むには --apply を付けてください")
			return
		}

		inputs := make([]store.NewTask, 0, len(steps))
		for _, step := range steps {
			inputs = append(inputs, store.NewTask{
				Text: fmt.Sprintf("%s（%d分）", step.Title, step.Minutes),
				Kind: model.KindWorkPlan,
			})
		}
		added, err := taskStore.InsertAfter(task.ID, inputs)
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}
		fmt.Printf("✅ %d件のステップを追加しました\n", len(added))

		applyPolicy(config, taskStore)
	},
}

var aiPick3Cmd = &cobra.Command{
	Use:   "pick3",
	Short: "Let the AI pick today's 3 from the backlog",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		taskStore := store.NewTaskStore(config)

		now := time.Now()
		todayKey := model.DateKey(now)

		// 候補は「未完了・非シークレット・今日でない・スヌーズ中でない」
		var candidates []ai.Candidate
		for _, t := range taskStore.Tasks() {
			if t.IsSecret || t.Completed || t.IsToday || t.IsSnoozed(todayKey) {
				continue
			}
			candidates = append(candidates, ai.Candidate{
				ID:         t.ID,
				Text:       t.Text,
				DeadlineAt: t.DeadlineAt,
				Kind:       string(t.KindOrNormal()),
				Score:      score.Score(t, now),
			})
		}
		if len(candidates) == 0 {
			fmt.Println("🈳 候補になるタスクがありません（バックログが空です）")
			return
		}

		prompt, err := ai.BuildToday3Prompt(todayKey, config.Language, candidates)
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		client := newAIClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), aiRequestTimeout)
		defer cancel()

		fmt.Println("🤖 今日の3つを選んでいます...")
		raw, err := client.Generate(ctx, prompt)
		if err != nil {
			reportAIError(err)
			os.Exit(1)
		}

		candidateIDs := make([]string, 0, len(candidates))
		for _, c := range candidates {
			candidateIDs = append(candidateIDs, c.ID)
		}
		result, err := ai.ParseToday3(raw, candidateIDs)
		if err != nil {
			reportAIError(err)
			os.Exit(1)
		}

		english := config.Language == "en"
		var md strings.Builder
		md.WriteString("## 📌 今日の3つ（提案）\n\n")
		for i, pick := range result.Picks {
			task, _ := taskStore.Get(pick.ID)
			reason, first5 := pick.ReasonJa, pick.First5MinJa
			if english {
				reason, first5 = pick.ReasonEn, pick.First5MinEn
			}
			md.WriteString(fmt.Sprintf("%d. **%s**\n   - %s\n   - 🕐 %s\n", i+1, task.Text, reason, first5))
		}
		note := result.NoteJa
		if english {
			note = result.NoteEn
		}
		md.WriteString(fmt.Sprintf("\n> %s\n", note))
		renderMarkdown(md.String())

		if !aiApply {
			fmt.Println("💡 この3つを今日にするには --apply を付けてください")
			return
		}

		for _, pick := range result.Picks {
			if err := policy.CheckManualToday(taskStore.Tasks(), pick.ID, true); err != nil {
				fmt.Println("⚠️ 今日の枠が足りないため、途中までで止めました")
				break
			}
			if err := taskStore.SetToday(pick.ID, true); err != nil {
				log.Printf("⚠️ Failed to set today: %v", err)
				continue
			}
			if task, ok := taskStore.Get(pick.ID); ok {
				fmt.Printf("📌 今日にしました: %s\n", task.Text)
			}
		}

		applyPolicy(config, taskStore)
	},
}

var aiKeyCmd = &cobra.Command{
	Use:   "key [apiKey]",
	Short: "Set or show the AI API key",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()

		if len(args) == 0 {
			if strings.TrimSpace(config.AI.APIKey) == "" {
				fmt.Println("🔑 APIキーは未設定です")
			} else {
				// 末尾4文字だけ見せる
				key := config.AI.APIKey
				masked := strings.Repeat("*", 8)
				if len(key) > 4 {
					masked += key[len(key)-4:]
				}
				fmt.Printf("🔑 APIキー: %s (model: %s)\n", masked, config.AI.Model)
			}
			return
		}

		config.AI.APIKey = strings.TrimSpace(args[0])
		if err := store.SaveConfig(config); err != nil {
			log.Printf("❌ Failed to save config: %v", err)
			os.Exit(1)
		}
		if config.AI.APIKey == "" {
			fmt.Println("✅ APIキーを削除しました")
		} else {
			fmt.Println("✅ APIキーを保存しました")
		}
	},
}

func init() {
	aiBreakdownCmd.Flags().BoolVar(&aiApply, "apply", false, "Insert the steps as tasks")
	aiPick3Cmd.Flags().BoolVar(&aiApply, "apply", false, "Mark the picked tasks as today")

	aiCmd.AddCommand(aiBreakdownCmd)
	aiCmd.AddCommand(aiPick3Cmd)
	aiCmd.AddCommand(aiKeyCmd)
	rootCmd.AddCommand(aiCmd)
}
