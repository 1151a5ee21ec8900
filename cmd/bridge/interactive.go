package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
	"github.com/helixlang/bridge/transcode"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historyLimit = 8

type entry struct {
	literal string
	engine  string
	hex     string
	cell    uint32
	bits    uint64
	err     error
}

type interactiveModel struct {
	cx      *script.Context
	tc      *transcode.Transcoder
	build   string
	input   textinput.Model
	history []entry
}

func newInteractiveModel(cx *script.Context, tc *transcode.Transcoder) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "decimal integer, any size"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{cx: cx, tc: tc, build: cx.Build(), input: ti}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			literal := strings.TrimSpace(m.input.Value())
			if literal != "" {
				m.push(m.convert(literal))
				m.input.SetValue("")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) convert(literal string) entry {
	e := entry{literal: literal}

	n, err := managed.ParseInt(literal)
	if err != nil {
		e.err = err
		return e
	}
	defer managed.Decref(n)

	v, err := m.tc.BigIntToScript(n)
	if err != nil {
		e.err = err
		return e
	}
	e.engine = m.cx.DisplayString(v)
	e.cell = v.Cell()

	if e.hex, err = m.cx.BigIntToString(v, 16); err != nil {
		e.err = err
		return e
	}

	back, err := m.tc.BigIntFromScript(v)
	if err != nil {
		e.err = err
		return e
	}
	defer managed.Decref(back)
	if back.Cmp(n) != 0 {
		e.err = fmt.Errorf("round trip mismatch: %s", back)
		return e
	}
	e.bits, _ = back.BitLen()
	return e
}

func (m *interactiveModel) push(e entry) {
	m.history = append(m.history, e)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("BigInt Bridge"))
	b.WriteString(" engine build ")
	b.WriteString(m.build)
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(e.literal)
		b.WriteString("\n")
		if e.err != nil {
			b.WriteString("  " + errorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
		} else {
			b.WriteString("  " + valueStyle.Render(e.engine))
			b.WriteString("\n")
			b.WriteString("  " + detailStyle.Render(fmt.Sprintf("hex %s • %d bits • cell %#x", e.hex, e.bits, e.cell)))
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter convert • esc quit"))
	return b.String()
}

func runInteractive(build string, maxPages uint32) error {
	ctx := context.Background()
	cx, err := script.NewContext(ctx, &script.Config{Build: build, MaxHeapPages: maxPages})
	if err != nil {
		return err
	}
	defer cx.Close(ctx)

	p := tea.NewProgram(newInteractiveModel(cx, transcode.New(cx)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
