package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/filepilot/filepilot/internal/explorer"
	"github.com/filepilot/filepilot/internal/search"
	"github.com/filepilot/filepilot/internal/session"
)

const (
	minWidth  = 40
	minHeight = 10

	previewLines = 12
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width > 0 && (m.width < minWidth || m.height < minHeight) {
		return "Terminal too small"
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch m.session.Mode() {
	case session.Typing, session.ViewingResults:
		b.WriteString(m.viewResults())
	default:
		b.WriteString(m.viewBrowser())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	title := m.styles.Header.Render("FilePilot")
	path := m.styles.Dim.Render(m.explorer.CurrentPath())
	strategy := m.styles.Dim.Render("[" + m.session.Strategy().String() + "]")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", path, "  ", strategy)
}

// viewBrowser renders the directory listing next to a preview of the
// selected entry.
func (m Model) viewBrowser() string {
	entries := m.explorer.Entries()
	selected, hasSelection := m.session.Selection()
	rows := m.listHeight()

	var list strings.Builder
	if len(entries) == 0 {
		list.WriteString(m.styles.Dim.Render("(empty directory)"))
	} else {
		start := windowStart(selected, len(entries), rows)
		for i := start; i < len(entries) && i < start+rows; i++ {
			list.WriteString(m.renderEntry(entries[i], hasSelection && i == selected))
			list.WriteString("\n")
		}
	}

	listPanel := m.styles.Panel.Width(m.listWidth()).Height(rows).Render(strings.TrimRight(list.String(), "\n"))
	if m.width < 80 {
		return listPanel
	}

	var preview string
	if entry, ok := m.session.SelectedEntry(); ok {
		preview = strings.Join(explorer.Preview(entry, previewLines), "\n")
	}
	previewPanel := m.styles.Panel.Width(m.width - m.listWidth() - 6).Height(rows).Render(preview)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
}

// viewResults renders the ranked result list, with the query input on top
// while typing.
func (m Model) viewResults() string {
	var b strings.Builder

	if m.session.Mode() == session.Typing {
		query := m.session.Query() + "█"
		b.WriteString(m.styles.Input.Width(m.contentWidth()).Render("Search: " + query))
		b.WriteString("\n")
	}

	results := m.session.Results()
	selected, hasSelection := m.session.Selection()
	rows := m.listHeight() - 3

	var list strings.Builder
	if len(results) == 0 {
		if m.searching {
			list.WriteString(m.spinner.View() + " searching...")
		} else if m.session.Query() == "" {
			list.WriteString(m.styles.Dim.Render("Type to search"))
		} else {
			list.WriteString(m.styles.Dim.Render("No results"))
		}
	} else {
		start := windowStart(selected, len(results), rows)
		for i := start; i < len(results) && i < start+rows; i++ {
			list.WriteString(m.renderResult(results[i], hasSelection && i == selected))
			list.WriteString("\n")
		}
		if len(results) > rows {
			list.WriteString(m.styles.Dim.Render(fmt.Sprintf("%d of %d results", min(start+rows, len(results)), len(results))))
		}
	}

	b.WriteString(m.styles.Panel.Width(m.contentWidth()).Height(rows).Render(strings.TrimRight(list.String(), "\n")))
	return b.String()
}

func (m Model) renderEntry(entry explorer.Entry, selected bool) string {
	name := entry.Name
	style := m.styles.File
	if entry.IsDir {
		name += "/"
		style = m.styles.Dir
	}

	size := ""
	if !entry.IsDir {
		size = humanize.Bytes(uint64(entry.Size))
	}
	line := fmt.Sprintf("%-*s %10s", m.listWidth()-16, truncate(name, m.listWidth()-17), size)

	if selected {
		return m.styles.Selected.Render(line)
	}
	return style.Render(line)
}

func (m Model) renderResult(r search.Result, selected bool) string {
	marker := m.styles.PathMatch.Render("p")
	if r.Kind == search.ByName {
		marker = m.styles.NameMatch.Render("n")
	}

	name := r.Entry.Name
	if r.Entry.IsDir {
		name += "/"
	}
	line := fmt.Sprintf("%s %-30s %s  %s",
		marker,
		truncate(name, 30),
		m.styles.Dim.Render(fmt.Sprintf("%4d", r.Score)),
		m.styles.Dim.Render(truncate(r.Entry.Path, m.contentWidth()-44)),
	)

	if selected {
		return m.styles.Selected.Render(fmt.Sprintf("> %s %d  %s", truncate(name, 30), r.Score, truncate(r.Entry.Path, m.contentWidth()-44)))
	}
	return line
}

func (m Model) viewFooter() string {
	status := m.session.Status()
	var styled string
	switch status.Level {
	case session.Error:
		styled = m.styles.Error.Render(status.Text)
	case session.Warning:
		styled = m.styles.Warning.Render(status.Text)
	default:
		styled = m.styles.Info.Render(status.Text)
	}

	hints := m.hints()
	return styled + "\n" + m.styles.Dim.Render(hints)
}

func (m Model) hints() string {
	switch m.session.Mode() {
	case session.Typing:
		return "enter/esc: done  tab: strategy  ↑/↓: select"
	case session.ViewingResults:
		return "enter: navigate  o: open  r: reveal  esc: back  /: search  q: quit"
	default:
		return "/: search  enter: navigate  ←: parent  o: open  r: reveal  tab: strategy  q: quit"
	}
}

func (m Model) listWidth() int {
	if m.width >= 80 {
		return m.width / 2
	}
	return max(m.width-4, minWidth-4)
}

func (m Model) contentWidth() int {
	return max(m.width-4, minWidth-4)
}

func (m Model) listHeight() int {
	return max(m.height-6, 4)
}

// windowStart picks the first visible row so the selection stays in view.
func windowStart(selected, length, rows int) int {
	if length <= rows || selected < rows/2 {
		return 0
	}
	start := selected - rows/2
	if start > length-rows {
		start = length - rows
	}
	return start
}

func truncate(s string, limit int) string {
	if limit <= 3 {
		return s
	}
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
