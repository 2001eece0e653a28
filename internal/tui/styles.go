// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Width(18)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	updatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
