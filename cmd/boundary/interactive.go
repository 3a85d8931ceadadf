package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/boundary/marshal"
	"github.com/wippyai/boundary/tagset"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	inputValue = iota
	inputTags
)

type interactiveModel struct {
	err       error
	marshaler *marshal.Marshaler
	format    string
	result    string
	rules     []marshal.Rule
	inputs    []textinput.Model
	selected  int
	focusIdx  int
	state     modelState
}

type modelState int

const (
	stateSelectRule modelState = iota
	stateInputValue
	stateShowResult
)

type encodeResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(m *marshal.Marshaler, format string) *interactiveModel {
	return &interactiveModel{
		marshaler: m,
		format:    format,
		rules:     m.Registry().Rules(),
		state:     stateSelectRule,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputValue {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectRule && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectRule && m.selected < len(m.rules)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectRule:
				if len(m.rules) == 0 {
					return m, nil
				}
				m.prepareInputs()
				m.state = stateInputValue
				return m, textinput.Blink

			case stateInputValue:
				return m, m.encode

			case stateShowResult:
				m.state = stateSelectRule
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputValue {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputValue:
				m.state = stateSelectRule
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectRule
				m.result = ""
				m.err = nil
			}
		}

	case encodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputValue {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// prepareInputs opens a value field and a tag field preset to the
// selected rule's requirement.
func (m *interactiveModel) prepareInputs() {
	r := m.rules[m.selected]

	value := textinput.New()
	value.Placeholder = "3.14, \"text\", [1, 2], {a: true}, null"
	value.Prompt = "value: "
	value.Width = 40
	value.Focus()

	tags := textinput.New()
	tags.Placeholder = "empty to classify"
	tags.Prompt = "tags:  "
	tags.Width = 40
	tags.SetValue(r.Requires.String())

	m.inputs = []textinput.Model{inputValue: value, inputTags: tags}
	m.focusIdx = inputValue
}

// encode classifies when the tag field is empty, encodes, then decodes the
// bytes back to show the round trip.
func (m *interactiveModel) encode() tea.Msg {
	v, err := parseLiteral(m.inputs[inputValue].Value())
	if err != nil {
		return encodeResultMsg{err: err}
	}
	set, err := tagset.Parse(m.inputs[inputTags].Value())
	if err != nil {
		return encodeResultMsg{err: err}
	}
	if set.IsEmpty() {
		if set, err = m.marshaler.Classify(v); err != nil {
			return encodeResultMsg{err: err}
		}
	}

	data, err := m.marshaler.Encode(v, set)
	if err != nil {
		return encodeResultMsg{err: err}
	}
	decoded, err := m.marshaler.Decode(data, set)
	if err != nil {
		return encodeResultMsg{err: err}
	}
	out, err := renderYAML(decoded)
	if err != nil {
		return encodeResultMsg{err: err}
	}

	rule := "none"
	if r, ok := m.marshaler.Registry().Select(set); ok {
		rule = r.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "tags:    %s\n", set)
	fmt.Fprintf(&b, "rule:    %s\n", rule)
	fmt.Fprintf(&b, "bytes:   %s\n", formatBytes(data, m.format))
	fmt.Fprintf(&b, "decoded: %s", out)
	return encodeResultMsg{result: b.String()}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Boundary"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%d rules", len(m.rules)))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectRule:
		if len(m.rules) == 0 {
			b.WriteString(errorStyle.Render("No rules registered."))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select a rule to try:\n\n")
		for i, r := range m.rules {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatRule(r)))
			} else {
				b.WriteString("  " + m.formatRule(r))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter try • q quit"))

	case stateInputValue:
		r := m.rules[m.selected]
		b.WriteString(fmt.Sprintf("Encoding with %s\n\n", ruleStyle.Render(r.Name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter encode • esc back"))

	case stateShowResult:
		b.WriteString("Result:\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatRule(r marshal.Rule) string {
	return fmt.Sprintf("%s %s %d", ruleStyle.Render(r.Name), tagStyle.Render(r.Requires.String()), r.Specificity())
}

// NewInteractiveCommand creates the interactive command.
func NewInteractiveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "interactive",
		Aliases:       []string{"i"},
		Short:         "Try rules on values in a terminal UI",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("interactive mode needs a terminal")
			}
			return runInteractive(rootOpts)
		},
	}

	return cmd
}

func runInteractive(rootOpts *RootOptions) error {
	model := newInteractiveModel(rootOpts.Marshaler(), rootOpts.ByteFormat())
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
