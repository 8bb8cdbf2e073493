/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/store"
	"github.com/spf13/cobra"
)

type Model struct {
	cursor    int
	fields    []string
	config    model.Config
	textInput textinput.Model
	editMode  bool
}

func newModel(config model.Config) tea.Model {
	return &Model{
		cursor:    0,
		fields:    generateFieldList(),
		config:    config,
		textInput: textinput.New(),
		editMode:  false,
	}
}

func generateFieldList() []string {
	return []string{
		"DataDir", "Editor", "Language",
		"AI.Model", "AI.APIKey",
		"Room.MongoURI", "Room.Database",
		"Sync.Enable", "Sync.Platform", "Sync.Bucket", "Sync.AWSProfile", "Sync.AWSRegion",
		"Save & Exit",
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) forceRedraw() tea.Msg {
	return tea.WindowSizeMsg{}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editMode {
			switch msg.String() {
			case "enter":
				m.updateConfig()
				m.editMode = false
				m.textInput.Blur()
				return m, tea.Batch(tea.ClearScreen, m.forceRedraw)
			case "esc":
				m.editMode = false
				m.textInput.Blur()
			default:
				m.textInput, _ = m.textInput.Update(msg)
			}
			return m, nil
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.fields)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor == len(m.fields)-1 {
				if err := store.SaveConfig(m.config); err != nil {
					log.Printf("⚠️ Failed to save config file: %v", err)
				}
				return m, tea.Quit
			}
			m.editMode = true
			m.textInput.SetValue(m.getFieldValue(m.fields[m.cursor]))
			m.textInput.Focus()
		}
	}

	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString("\033[H\033[2J")
	s.WriteString("📄 Configure pick3\n\n")

	for i, field := range generateFieldList() {
		cursor := "  "
		if m.cursor == i {
			cursor = "👉"
		}

		value := m.getFieldValue(field)
		if field == "AI.APIKey" && value != "" {
			value = strings.Repeat("*", 8)
		}

		s.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, field, value))
	}

	if m.editMode {
		s.WriteString("\n✏️  Editing: " + generateFieldList()[m.cursor] + "\n")
		s.WriteString(m.textInput.View() + "\n")
		s.WriteString("(Enter to save, ESC to cancel)\n")
	} else {
		s.WriteString("\n⬆️⬇️ で移動, Enter で編集, Q で終了\n")
	}

	return s.String()
}

func (m Model) getFieldValue(field string) string {
	switch field {
	case "DataDir":
		return m.config.DataDir
	case "Editor":
		return m.config.Editor
	case "Language":
		return m.config.Language
	case "AI.Model":
		return m.config.AI.Model
	case "AI.APIKey":
		return m.config.AI.APIKey
	case "Room.MongoURI":
		return m.config.Room.MongoURI
	case "Room.Database":
		return m.config.Room.Database
	case "Sync.Enable":
		return strconv.FormatBool(m.config.Sync.Enable)
	case "Sync.Platform":
		return m.config.Sync.Platform
	case "Sync.Bucket":
		return m.config.Sync.Bucket
	case "Sync.AWSProfile":
		return m.config.Sync.AWSProfile
	case "Sync.AWSRegion":
		return m.config.Sync.AWSRegion
	}
	return ""
}

func (m *Model) updateConfig() {
	value := m.textInput.Value()
	switch m.fields[m.cursor] {
	case "DataDir":
		m.config.DataDir = value
	case "Editor":
		m.config.Editor = value
	case "Language":
		m.config.Language = value
	case "AI.Model":
		m.config.AI.Model = value
	case "AI.APIKey":
		m.config.AI.APIKey = value
	case "Room.MongoURI":
		m.config.Room.MongoURI = value
	case "Room.Database":
		m.config.Room.Database = value
	case "Sync.Enable":
		if enabled, err := strconv.ParseBool(value); err == nil {
			m.config.Sync.Enable = enabled
		}
	case "Sync.Platform":
		m.config.Sync.Platform = value
	case "Sync.Bucket":
		m.config.Sync.Bucket = value
	case "Sync.AWSProfile":
		m.config.Sync.AWSProfile = value
	case "Sync.AWSRegion":
		m.config.Sync.AWSRegion = value
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit config.yaml interactively",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := store.LoadConfig()
		if err != nil {
			log.Printf("❌ Error loading config: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(newModel(*config))
		if _, err := p.Run(); err != nil {
			log.Printf("❌ Failed to start config editor: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
