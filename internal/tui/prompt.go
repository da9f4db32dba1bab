// Package tui implements the interactive identity-resolution prompt on top
// of bubbletea. Non-interactive runs use identity.AutoPrompt instead.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompt asks a human. It satisfies identity.Prompt.
type Prompt struct {
	// DeviceOwner, when set from config or flag, answers the owner question
	// without prompting.
	DeviceOwner string
}

func NewPrompt(deviceOwner string) *Prompt {
	return &Prompt{DeviceOwner: deviceOwner}
}

func (*Prompt) Interactive() bool { return true }

func (*Prompt) ConfirmMapping(candidate, suggestion string) (bool, error) {
	m := confirmModel{
		question: fmt.Sprintf("Is %s the same person as %s?",
			styleName.Render(candidate), styleName.Render(suggestion)),
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return final.(confirmModel).accepted, nil
}

func (*Prompt) RequestManualName(candidate string) (string, error) {
	return runInput(
		fmt.Sprintf("Canonical name for %s", styleName.Render(candidate)),
		"leave empty to keep as a separate participant")
}

func (p *Prompt) RequestDeviceOwnerName() (string, error) {
	if p.DeviceOwner != "" {
		return p.DeviceOwner, nil
	}
	return runInput(
		"Android messages were sent from this device. Whose are they?",
		"leave empty to keep them unattributed")
}

type confirmModel struct {
	question string
	accepted bool
	done     bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		m.accepted = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return styleQuestion.Render(m.question) + " " + styleHint.Render("[y/n]") + "\n"
}

func runInput(question, hint string) (string, error) {
	ti := textinput.New()
	ti.Focus()
	m := inputModel{question: question, hint: hint, input: ti}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("input prompt: %w", err)
	}
	return final.(inputModel).value, nil
}

type inputModel struct {
	question string
	hint     string
	input    textinput.Model
	value    string
	done     bool
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	return styleQuestion.Render(m.question) + "\n" +
		m.input.View() + "\n" +
		styleHint.Render(m.hint) + "\n"
}
