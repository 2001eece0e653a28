// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui holds the terminal pieces of vaultctl: a masked bubbletea
// password form, a y/n confirmation and lipgloss renderers for vault
// listings, metadata changes and errors.
//
// Prompts write to the given output (stderr in vaultctl) so that command
// output on stdout stays pipeable.
package tui
