// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Prompter runs the interactive prompts on a terminal.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Passwords shows a masked form with one input per field and returns the
// entered values in field order. The caller owns and should wipe them.
func (p *Prompter) Passwords(ctx context.Context, title string, fields ...Field) ([][]byte, error) {
	final, err := p.run(ctx, newPasswordModel(title, fields))
	if err != nil {
		return nil, err
	}

	m, ok := final.(passwordModel)
	if !ok {
		return nil, tea.ErrProgramKilled
	}
	if m.cancelled || !m.submitted {
		return nil, ErrPromptCancelled
	}
	return m.values(), nil
}

// Confirm asks a yes/no question. Anything but an explicit yes is a no.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	final, err := p.run(ctx, confirmModel{message: message})
	if err != nil {
		return false, err
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return m.yes, nil
}

func (p *Prompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	).Run()
	if err != nil {
		return nil, fmt.Errorf("error running prompt: %w", err)
	}
	return final, nil
}
