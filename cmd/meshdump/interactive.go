package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
)

const previewRows = 12

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectShape modelState = iota
	stateShowTable
	stateEditDetail
)

type interactiveModel struct {
	err      error
	sess     *session
	rows     []shapeRow
	table    [][]float32
	input    textinput.Model
	selected int
	state    modelState
}

type tableMsg struct {
	err   error
	table [][]float32
}

type detailMsg struct {
	err error
}

func newInteractiveModel(sess *session) *interactiveModel {
	return &interactiveModel{
		sess:  sess,
		rows:  sess.shapeRows(),
		state: stateSelectShape,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateEditDetail {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectShape && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectShape && m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "d":
			if m.state == stateSelectShape {
				m.prepareInput()
				m.state = stateEditDetail
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectShape:
				if len(m.rows) > 0 {
					return m, m.loadTable
				}
			case stateShowTable:
				m.state = stateSelectShape
				m.table = nil
				m.err = nil
			case stateEditDetail:
				return m, m.applyDetail
			}

		case "esc":
			m.state = stateSelectShape
			m.table = nil
			m.err = nil
		}

	case tableMsg:
		m.table = msg.table
		m.err = msg.err
		m.state = stateShowTable

	case detailMsg:
		m.err = msg.err
		if msg.err == nil {
			m.rows = m.sess.shapeRows()
			m.state = stateSelectShape
		}
	}

	if m.state == stateEditDetail {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Prompt = "slices segments: "
	ti.Placeholder = fmt.Sprintf("%d %d", m.sess.detail.Slices, m.sess.detail.Segments)
	ti.Width = 20
	ti.Focus()
	m.input = ti
	m.err = nil
}

func (m *interactiveModel) loadTable() tea.Msg {
	name := m.rows[m.selected].name
	table, err := m.sess.rt.Table(m.sess.built.Shapes[name], m.sess.detail)
	return tableMsg{table: table, err: err}
}

func (m *interactiveModel) applyDetail() tea.Msg {
	d, err := parseDetail(m.input.Value())
	if err != nil {
		return detailMsg{err: err}
	}
	return detailMsg{err: m.sess.setDetail(d)}
}

// parseDetail reads "slices segments"; zero keeps the package default.
func parseDetail(s string) (geometry.Detail, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return geometry.Detail{}, fmt.Errorf("expected two numbers, got %q", s)
	}
	var n [2]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return geometry.Detail{}, fmt.Errorf("invalid count %q", f)
		}
		n[i] = v
	}
	return geometry.Detail{Slices: n[0], Segments: n[1]}, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Mesh Dump"))
	b.WriteString(" ")
	b.WriteString(m.sess.name)
	b.WriteString(helpStyle.Render(fmt.Sprintf("  detail %d×%d", m.sess.detail.Slices, m.sess.detail.Segments)))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectShape:
		if len(m.rows) == 0 {
			b.WriteString("Scene has no shapes.\n")
		}
		for i, r := range m.rows {
			line := fmt.Sprintf("%-16s %-8s %12s", r.name, r.kind, r.faces)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + nameStyle.Render(fmt.Sprintf("%-16s", r.name)) + " " +
					kindStyle.Render(fmt.Sprintf("%-8s", r.kind)) + " " + fmt.Sprintf("%12s", r.faces))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter faces • d detail • q quit"))

	case stateShowTable:
		r := m.rows[m.selected]
		b.WriteString(fmt.Sprintf("Faces of %s\n\n", nameStyle.Render(r.name)))
		switch {
		case errors.Is(m.err, errors.ErrUnsupportedGeometry):
			b.WriteString(errorStyle.Render(r.kind + " has no tessellation"))
		case m.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		default:
			for i, row := range m.table {
				if i == previewRows {
					b.WriteString(helpStyle.Render(fmt.Sprintf("… %d more", len(m.table)-previewRows)))
					b.WriteString("\n")
					break
				}
				b.WriteString(rowStyle.Render(formatRow(row)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))

	case stateEditDetail:
		b.WriteString("Tessellation detail\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter apply • esc back"))
	}

	return b.String()
}

func runInteractive(sess *session) error {
	p := tea.NewProgram(newInteractiveModel(sess), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
