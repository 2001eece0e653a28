// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-secure-vault/models"
)

const timeLayout = "2006-01-02 15:04:05"

// RenderMetadataTable renders one row per vault.
func RenderMetadataTable(vaults []models.VaultMetadata) string {
	if len(vaults) == 0 {
		return hintStyle.Render("no vaults") + "\n"
	}

	header := []string{"ID", "VERSION", "FORMAT", "UPDATED", "OWNERS"}
	rows := make([][]string, 0, len(vaults))
	for _, v := range vaults {
		rows = append(rows, []string{
			v.ID,
			strconv.Itoa(v.Version),
			valueOrDash(v.BlobFormat),
			formatTime(v.UpdatedAt),
			strconv.Itoa(len(v.Owners)),
		})
	}
	return renderTable(header, rows)
}

// RenderVault renders the metadata of vault followed by its blob.
func RenderVault(vault models.Vault) string {
	var b strings.Builder
	b.WriteString(RenderMetadata(vault.VaultMetadata))
	b.WriteString("\n")
	b.WriteString(string(vault.Blob))
	if !strings.HasSuffix(string(vault.Blob), "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// RenderMetadata renders a single vault's metadata as labelled lines.
func RenderMetadata(meta models.VaultMetadata) string {
	lines := [][2]string{
		{"id", meta.ID},
		{"version", strconv.Itoa(meta.Version)},
		{"owner", valueOrDash(meta.Owner)},
		{"format", valueOrDash(meta.BlobFormat)},
		{"created", formatTime(meta.CreatedAt)},
		{"updated", formatTime(meta.UpdatedAt)},
	}
	for _, o := range meta.Owners {
		lines = append(lines, [2]string{"owned by", o.ID + " (" + o.Issuer + ")"})
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(labelStyle.Render(l[0]))
		b.WriteString(l[1])
		b.WriteString("\n")
	}
	return b.String()
}

// RenderChanges renders one line per added, updated or removed vault.
func RenderChanges(at time.Time, changes models.VaultChanges) string {
	var b strings.Builder
	stamp := helpStyle.Render(at.Format(timeLayout))
	line := func(style lipgloss.Style, mark string, v models.VaultMetadata) {
		fmt.Fprintf(&b, "%s %s %s v%d\n", stamp, style.Render(mark), v.ID, v.Version)
	}

	for _, v := range changes.Added {
		line(addedStyle, "+", v)
	}
	for _, v := range changes.Updated {
		line(updatedStyle, "~", v)
	}
	for _, v := range changes.Removed {
		line(removedStyle, "-", v)
	}
	return b.String()
}

func RenderBuildInfo(info models.AppBuildInfo) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("vaultctl"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("version") + info.BuildVersion() + "\n")
	b.WriteString(labelStyle.Render("date") + info.BuildDate() + "\n")
	b.WriteString(labelStyle.Render("commit") + info.BuildCommit() + "\n")
	return b.String()
}

// RenderError renders err with a hint on how to recover when one is known.
func RenderError(err error) string {
	if err == nil {
		return ""
	}

	out := errorStyle.Render("error: ") + err.Error() + "\n"
	if hint := errorHint(err); hint != "" {
		out += hintStyle.Render(hint) + "\n"
	}
	return out
}

func errorHint(err error) string {
	var vaultErr *models.VaultError
	if !errors.As(err, &vaultErr) {
		return ""
	}

	switch vaultErr.Kind {
	case models.KindNotSignedIn:
		return "no signed-in user: pass --id-token or --id-token-file with a valid ID token"
	case models.KindNotRegistered:
		return "run 'vaultctl register' first"
	case models.KindAlreadyRegistered:
		return "this user already has a vault account"
	case models.KindNotAuthorized:
		return "the vault password is wrong or the session expired"
	case models.KindVersionMismatch:
		return "the vault changed on the service: fetch the current version and retry"
	case models.KindRequestFailed:
		if unreachable(err) {
			return "the service is unreachable: check the network and --api-url"
		}
		return "the request failed and may be retried"
	case models.KindServiceError:
		return "the service failed and the call may be retried"
	case models.KindInvalidConfig:
		return "check the service settings"
	}
	return ""
}

func unreachable(err error) bool {
	s := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"dial tcp",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"context deadline exceeded",
	} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style.Width(widths[i] + 2).Render(cell)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	var b strings.Builder
	b.WriteString(renderRow(header, headerStyle))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(renderRow(row, lipgloss.NewStyle()))
		b.WriteString("\n")
	}
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
