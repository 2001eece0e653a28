// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	message  string
	answered bool
	yes      bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.yes):
		m.answered, m.yes = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.no):
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	return boxStyle.Render(m.message+"\n\n"+helpStyle.Render("y yes    n no")) + "\n"
}
