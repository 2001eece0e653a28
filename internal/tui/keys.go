// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	next   key.Binding
	prev   key.Binding
	submit key.Binding
	cancel key.Binding
	yes    key.Binding
	no     key.Binding
}

var keys = keyMap{
	next:   key.NewBinding(key.WithKeys("tab", "down")),
	prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	submit: key.NewBinding(key.WithKeys("enter")),
	cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	yes:    key.NewBinding(key.WithKeys("y", "Y")),
	no:     key.NewBinding(key.WithKeys("n", "N", "esc", "ctrl+c")),
}
