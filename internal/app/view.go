package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"segedit/internal/ui"
	"segedit/internal/wave"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderWaveLane()...)
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderTable()...)

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("SEGEDIT")

	var project string
	if m.projectName != "" {
		project = ui.DimStyle.Render(" — " + m.projectName)
	}

	var chunk string
	if len(m.chunks) > 0 {
		chunk = ui.DimStyle.Render(fmt.Sprintf("  chunk %d/%d", m.chunkIdx+1, len(m.chunks)))
	}

	var unsaved string
	if m.coord.Unsaved() {
		unsaved = "  " + ui.UnsavedBadgeStyle.Render("● unsaved")
	}

	return title + project + chunk + unsaved
}

func (m Model) renderStatusBar() string {
	var parts []string

	switch m.saveState {
	case SaveSaving:
		parts = append(parts, ui.SavingStyle.Render("saving..."))
	case SaveSaved:
		parts = append(parts, ui.SavedStyle.Render("saved"))
	case SaveError:
		parts = append(parts, ui.ErrorTextStyle.Render("save failed: "+m.saveDetail))
	}

	if m.coord.PendingCount() > 0 {
		parts = append(parts, ui.DimStyle.Render(
			fmt.Sprintf("%d pending deletion(s)", m.coord.PendingCount())))
	}

	if m.statusText != "" {
		parts = append(parts, ui.DimStyle.Render(m.statusText))
	}

	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, "  ")
}

// renderWaveLane draws the waveform with region coloring plus a boundary
// row marking region edges.
func (m Model) renderWaveLane() []string {
	width := m.laneWidth()
	cols := wave.Columns(m.peaks, m.regions, m.duration, width, m.zoom, m.scroll)

	var waveRow, markRow strings.Builder
	waveRow.WriteString(" ")
	markRow.WriteString(" ")
	for _, col := range cols {
		glyph := string(wave.Glyph(col.Amp))
		if len(m.peaks) == 0 && col.InRegion {
			glyph = "─" // no decoded audio: draw regions over a flat line
		}
		waveRow.WriteString(m.waveStyle(col.Kind, col.InRegion).Render(glyph))

		switch {
		case col.Boundary:
			markRow.WriteString(ui.BoundaryStyle.Render("│"))
		case col.InRegion:
			markRow.WriteString(m.waveStyle(col.Kind, true).Render("·"))
		default:
			markRow.WriteString(" ")
		}
	}
	return []string{waveRow.String(), markRow.String()}
}

func (m Model) waveStyle(kind wave.RegionKind, inRegion bool) lipgloss.Style {
	if !inRegion {
		return ui.DimStyle
	}
	switch kind {
	case wave.KindSelected:
		return ui.WaveSelectedStyle
	case wave.KindGap:
		return ui.WaveGapStyle
	case wave.KindDeleted:
		return ui.WaveDeletedStyle
	}
	return ui.WaveStyle
}

// renderTable draws the segment table, keeping the selected row in view.
// Times are global-timeline seconds, matching what gets persisted.
func (m Model) renderTable() []string {
	height := m.tableHeight()

	lines := []string{ui.TableHeaderStyle.Render(
		fmt.Sprintf("   %-6s %-9s %-9s %s", "ID", "START", "END", "TEXT"))}

	if m.loading {
		lines = append(lines, ui.DimStyle.Render("  loading..."))
		return padLines(lines, height)
	}
	if m.store.Len() == 0 {
		lines = append(lines, ui.DimStyle.Render("  no segments"))
		return padLines(lines, height)
	}

	selIdx := m.sel.Index(m.store)
	start := tableWindowStart(selIdx, m.store.Len(), height-1)

	for i := start; i < m.store.Len() && i-start < height-1; i++ {
		lines = append(lines, m.renderRow(i, i == selIdx))
	}
	return padLines(lines, height)
}

// renderRow formats one segment row with its visual treatment.
func (m Model) renderRow(i int, selected bool) string {
	seg := m.store.At(i)

	marker := "  "
	if selected {
		marker = "> "
	}

	startCell := formatSec(seg.StartSec)
	endCell := formatSec(seg.EndSec)
	textCell := seg.Text
	if seg.IsGap() && textCell == "" {
		textCell = "[" + seg.GapType + "]"
	}

	if selected {
		switch m.mode {
		case ModeResize:
			// Live values during a resize; the store is untouched until commit.
			startCell = formatSec(m.resizeStart)
			endCell = formatSec(m.resizeEnd)
		case ModeEdit:
			cell := ui.EditingCellStyle.Render(m.input.View())
			switch m.editField {
			case FieldText:
				textCell = cell
			case FieldStart:
				startCell = cell
			case FieldEnd:
				endCell = cell
			}
		}
	}

	var mark string
	if seg.MarkedForDeletion {
		mark = " DEL"
	}

	row := fmt.Sprintf("%s %-6d %-9s %-9s %s%s", marker, int(seg.ID), startCell, endCell, textCell, mark)

	style := ui.NormalStyle
	switch {
	case seg.MarkedForDeletion:
		style = ui.DeletedStyle
	case selected:
		style = ui.SelectedStyle
	case seg.IsGap():
		style = ui.GapStyle
	}
	if m.mode == ModeEdit && selected {
		// The input carries its own styling; avoid double-wrapping it.
		return truncateToWidth(row, m.width)
	}
	return style.Render(truncateToWidth(row, m.width))
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	switch m.mode {
	case ModeConfirmQuit:
		return ui.ErrorTextStyle.Render("Unsaved changes — quit anyway? ") +
			key("y", "yes") + "  " + key("n", "no")
	case ModeResize:
		return strings.Join([]string{
			key("←/→", "start"), key("↑/↓", "end"), key("shift", "coarse"),
			key("Enter", "commit"), key("Esc", "cancel"),
		}, "  ")
	case ModeEdit:
		return strings.Join([]string{key("Enter", "commit"), key("Esc", "cancel")}, "  ")
	}

	return strings.Join([]string{
		key("j/k", "segment"), key("n/p", "chunk"), key("Space", "play"),
		key("r", "resize"), key("t/s/e", "edit"), key("x", "delete"),
		key("u", "undo"), key("w", "save all"), key("q", "quit"),
	}, "  ")
}

func (m Model) tableHeight() int {
	if m.height == 0 {
		return 12
	}
	// header + status + two dividers + two lane rows + footer + error slack
	reserved := 8
	return max(4, m.height-reserved)
}

// tableWindowStart picks the first visible row so the selection stays in
// view, centered where possible.
func tableWindowStart(selIdx, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	if selIdx < 0 {
		return 0
	}
	start := selIdx - visible/2
	if start < 0 {
		start = 0
	}
	if start > total-visible {
		start = total - visible
	}
	return start
}

func padLines(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

// truncateToWidth clips a row to the terminal width counting visible cells,
// so styled content keeps its escape sequences intact.
func truncateToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
