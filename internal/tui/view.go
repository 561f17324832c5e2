package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 34

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0c060"))
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8899aa"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#334455"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#88cc88"))
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6666")).Bold(true)
	panelStyle    = lipgloss.NewStyle().Width(panelWidth).PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(lipgloss.Color("#444444"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.focus == focusPicker {
		return titleStyle.Render("Open model (.glb, .gltf)") + "\n\n" + m.picker.View() + "\n" +
			dimStyle.Render("enter select · esc back")
	}

	footer := m.footer()
	rows := m.height - lipgloss.Height(footer)
	cols := m.width - panelWidth - 2
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		renderViewport(m.rt, cols, rows),
		panelStyle.Height(rows).Render(m.panel()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m Model) panel() string {
	var b strings.Builder

	name := "no model"
	switch {
	case m.loading != "":
		name = "loading " + m.loading + "…"
	case m.modelPath != "":
		name = filepath.Base(m.modelPath)
	}
	b.WriteString(titleStyle.Render(name) + "\n")

	state := m.ctl.State().String()
	b.WriteString(fmt.Sprintf("camera %s %s\n", m.cameraTitle(), dimStyle.Render("("+state+")")))
	b.WriteString(fmt.Sprintf("grid   %s\n", m.gridTitle()))
	bg := "default"
	if m.rt.Scene.Background.Custom {
		bg = "custom"
	}
	b.WriteString(fmt.Sprintf("bg     %s  %s\n", bg, dimStyle.Render(m.rt.Camera.Projection.String())))

	group := ""
	for i, s := range m.controls {
		if s.group != group {
			group = s.group
			b.WriteString("\n" + groupStyle.Render(group) + "\n")
		}
		v := s.value(m.rt)
		line := fmt.Sprintf("%-10s %s %7s", s.label, s.bar(v, 10), s.format(v))
		if i == m.selected && m.focus == focusControls {
			if m.editing {
				line = fmt.Sprintf("%-10s %s", s.label, m.entry.View())
			}
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) footer() string {
	st := statusStyle.Render(m.status.text)
	if m.status.err {
		st = alertStyle.Render("! " + m.status.text)
	}
	return st + "\n" + m.help.View(m.keys)
}
