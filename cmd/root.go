/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pick3",
	Short: "今日やることを3つに絞るタスク管理CLI",
	Long: `pick3 is a local-first task manager built around one rule:
pick at most 3 things for today.

Tasks live in a local JSON file. A reply/payment task is automatically
pulled into today so it is never forgotten, a focus timer walks you
through 5min start → 25min focus → 5min rest, and the AI commands can
break a task down or pick today's 3 for you.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
