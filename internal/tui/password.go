// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Field is one masked input of a password form.
type Field struct {
	Label string
	// Repeat requires the value to equal the previous field.
	Repeat bool
}

type passwordModel struct {
	title  string
	fields []Field
	inputs []textinput.Model
	focus  int
	errMsg string

	cancelled bool
	submitted bool
}

func newPasswordModel(title string, fields []Field) passwordModel {
	inputs := make([]textinput.Model, len(fields))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Prompt = ""
		inputs[i].EchoMode = textinput.EchoPassword
		inputs[i].EchoCharacter = '*'
		inputs[i].Width = 40
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	return passwordModel{title: title, fields: fields, inputs: inputs}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	switch {
	case key.Matches(keyMsg, keys.cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.next):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(keyMsg, keys.prev):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(keyMsg, keys.submit):
		if m.focus < len(m.inputs)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		if msg := m.validate(); msg != "" {
			m.errMsg = msg
			return m, nil
		}
		m.errMsg = ""
		m.submitted = true
		return m, tea.Quit
	}

	return m.updateFocused(msg)
}

func (m passwordModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *passwordModel) setFocus(i int) {
	n := len(m.inputs)
	if n == 0 {
		return
	}
	i = (i%n + n) % n

	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m passwordModel) validate() string {
	for i, f := range m.fields {
		if m.inputs[i].Value() == "" {
			return f.Label + " must not be empty"
		}
		if f.Repeat && i > 0 && m.inputs[i].Value() != m.inputs[i-1].Value() {
			return ErrPasswordsMismatch.Error()
		}
	}
	return ""
}

func (m passwordModel) values() [][]byte {
	out := make([][]byte, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = []byte(in.Value())
	}
	return out
}

func (m passwordModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, f := range m.fields {
		b.WriteString(labelStyle.Render(f.Label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field  enter submit  esc cancel"))
	b.WriteString("\n")
	return b.String()
}
