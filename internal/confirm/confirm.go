// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"golang.org/x/term"
)

// Token is the literal a teardown confirmation must match exactly. Any other
// input cancels the operation without error.
const Token = "DELETE"

var (
	dangerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Destroy asks the operator to confirm the teardown of the named resources.
// On a terminal it runs an interactive prompt; otherwise it reads one line
// from stdin. Returns true only for an exact Token match.
func Destroy(bucket, table string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Type %s to confirm teardown of bucket %s and table %s: ", Token, bucket, table)
		return ReadToken(os.Stdin)
	}

	out, err := tea.NewProgram(newModel(bucket, table)).Run()
	if err != nil {
		return false, err
	}

	m := out.(model)
	if m.aborted {
		return false, nil
	}
	return m.input.Value() == Token, nil
}

// ReadToken reads a single line and compares it against Token.
func ReadToken(r io.Reader) (bool, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	return strings.TrimSpace(scanner.Text()) == Token, nil
}

type model struct {
	input   textinput.Model
	bucket  string
	table   string
	aborted bool
}

func newModel(bucket, table string) model {
	ti := textinput.New()
	ti.Placeholder = Token
	ti.CharLimit = 16
	ti.Width = 20
	ti.Focus()
	return model{input: ti, bucket: bucket, table: table}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
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

func (m model) View() string {
	s := fmt.Sprintf("About to destroy bucket %s and table %s.\n\n",
		dangerStyle.Render(m.bucket), dangerStyle.Render(m.table))
	s += fmt.Sprintf("Type %s to confirm: %s\n\n", dangerStyle.Render(Token), m.input.View())
	s += dimStyle.Render("ENTER: confirm, ESCAPE: cancel") + "\n"
	return s
}
