package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// PickerItem represents one option in the picker.
type PickerItem struct {
	Label string
	Desc  string
}

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Index   int
	Aborted bool
}

type pickerModel struct {
	title   string
	items   []PickerItem
	footer  string
	cursor  int
	aborted bool
	styles  styles
}

func newPickerModel(title string, items []PickerItem, footer string, initial int, theme *config.ThemeConfig, which domain.Theme) pickerModel {
	m := pickerModel{
		title:  title,
		items:  items,
		footer: footer,
		styles: newStyles(resolveTheme(theme), which),
	}
	if initial >= 0 && initial < len(items) {
		m.cursor = initial
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := keyMsg.String(); s {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	default:
		// Number keys jump straight to an item.
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(m.items) {
				m.cursor = i
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.styles.title.UnsetMarginBottom().Render("  "+m.title) + "\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			line := m.styles.cursor.Render(fmt.Sprintf("▸ %d %-12s %s", i+1, item.Label, item.Desc))
			b.WriteString("  " + line + "\n")
			continue
		}
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("    %d %-12s %s", i+1, item.Label, item.Desc)) + "\n")
	}

	if m.footer != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.muted.Render("  "+m.footer) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render("  ↑/↓ navigate · enter select · esc cancel") + "\n")
	return b.String()
}

// RunPicker launches an arrow-key picker and returns the selected index.
// initial preselects an item.
func RunPicker(title string, items []PickerItem, footer string, initial int, theme *config.ThemeConfig, which domain.Theme) PickerResult {
	p := tea.NewProgram(newPickerModel(title, items, footer, initial, theme, which))
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(pickerModel)
	if final.aborted {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Index: final.cursor}
}

// ModeItems lists the timer modes with their durations.
func ModeItems(table domain.ModeTable) []PickerItem {
	items := make([]PickerItem, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		items = append(items, PickerItem{
			Label: m.Label(),
			Desc:  domain.FormatClock(table.Seconds(m)),
		})
	}
	return items
}

// AmbientItems lists the ambient sounds.
func AmbientItems() []PickerItem {
	items := make([]PickerItem, 0, len(domain.AmbientKinds))
	for _, k := range domain.AmbientKinds {
		desc := "ambient noise"
		if k == domain.AmbientNone {
			desc = "silence"
		}
		items = append(items, PickerItem{Label: k.Label(), Desc: desc})
	}
	return items
}

// TextPromptResult holds the outcome of a text prompt.
type TextPromptResult struct {
	Value   string
	Aborted bool
}

type textPromptModel struct {
	title   string
	input   textinput.Model
	aborted bool
	styles  styles
}

func newTextPromptModel(title, placeholder string, theme *config.ThemeConfig, which domain.Theme) textPromptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 50
	ti.Focus()

	return textPromptModel{
		title:  title,
		input:  ti,
		styles: newStyles(resolveTheme(theme), which),
	}
}

func (m textPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textPromptModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.title.UnsetMarginBottom().Render("  "+m.title) + " ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.muted.Render("  enter confirm · esc cancel") + "\n")
	return b.String()
}

// RunTextPrompt launches a single-line text prompt.
func RunTextPrompt(title, placeholder string, theme *config.ThemeConfig, which domain.Theme) TextPromptResult {
	p := tea.NewProgram(newTextPromptModel(title, placeholder, theme, which))
	result, err := p.Run()
	if err != nil {
		return TextPromptResult{Aborted: true}
	}

	final := result.(textPromptModel)
	if final.aborted {
		return TextPromptResult{Aborted: true}
	}
	return TextPromptResult{Value: strings.TrimSpace(final.input.Value())}
}
