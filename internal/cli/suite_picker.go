package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
	"github.com/mbelozerov/caseline/internal/domain"
)

// runSuitePicker loads the suite tree and lets the user walk it with
// expand/collapse. It returns nil when the picker is cancelled.
func runSuitePicker(app *App, project string, planID int64) (*domain.SuiteNode, error) {
	m := newSuitePickerModel(app, project, planID)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	picker := final.(suitePickerModel)
	if picker.err != nil {
		return nil, picker.err
	}
	return picker.picked, nil
}

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Select key.Binding
	Quit   key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Toggle: key.NewBinding(key.WithKeys(" ", "right", "left")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

type treeLoadedMsg struct {
	root *domain.SuiteNode
	err  error
}

// pickerRow is one visible line of the collapsed tree.
type pickerRow struct {
	node  *domain.SuiteNode
	depth int
}

type suitePickerModel struct {
	app     *App
	project string
	planID  int64

	loading bool
	spin    spinner.Model
	root    *domain.SuiteNode

	rows      []pickerRow
	collapsed map[int64]bool
	cursor    int

	picked *domain.SuiteNode
	err    error
}

func newSuitePickerModel(app *App, project string, planID int64) suitePickerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(formatter.ColorPurple)

	return suitePickerModel{
		app:       app,
		project:   project,
		planID:    planID,
		loading:   true,
		spin:      sp,
		collapsed: map[int64]bool{},
	}
}

func (m suitePickerModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadTree())
}

func (m suitePickerModel) loadTree() tea.Cmd {
	return func() tea.Msg {
		root, err := m.app.Suites.Tree(context.Background(), m.project, m.planID)
		return treeLoadedMsg{root: root, err: err}
	}
}

func (m suitePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case treeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.root = msg.root
		m.rows = flattenSuites(m.root, m.collapsed)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m suitePickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, pickerKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, pickerKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, pickerKeys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, pickerKeys.Toggle):
		if row := m.currentRow(); row != nil && len(row.node.Children) > 0 {
			m.collapsed[row.node.ID] = !m.collapsed[row.node.ID]
			m.rows = flattenSuites(m.root, m.collapsed)
			if m.cursor >= len(m.rows) {
				m.cursor = len(m.rows) - 1
			}
		}

	case key.Matches(msg, pickerKeys.Select):
		if row := m.currentRow(); row != nil && !row.node.Synthetic {
			m.picked = row.node
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *suitePickerModel) currentRow() *pickerRow {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m suitePickerModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s %s\n", m.spin.View(), formatter.Dim("Loading suites..."))
	}
	if m.err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, row := range m.rows {
		marker := "  "
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("❯ ")
		}

		indicator := "  "
		if len(row.node.Children) > 0 {
			if m.collapsed[row.node.ID] {
				indicator = formatter.Dim("▸ ")
			} else {
				indicator = formatter.Dim("▾ ")
			}
		}

		label := row.node.Name
		if row.node.Synthetic {
			label = formatter.Dim(label)
		} else if i == m.cursor {
			label = formatter.StyleBold.Render(label)
		}

		b.WriteString(fmt.Sprintf("%s%s%s%s\n",
			marker, strings.Repeat("  ", row.depth), indicator, label))
	}
	b.WriteString("\n" + formatter.Dim("  ↑/↓ move · space fold · enter select · q cancel") + "\n")
	return b.String()
}

// flattenSuites lists the visible rows of the tree, skipping the subtrees of
// collapsed nodes.
func flattenSuites(root *domain.SuiteNode, collapsed map[int64]bool) []pickerRow {
	var rows []pickerRow
	var walk func(n *domain.SuiteNode, depth int)
	walk = func(n *domain.SuiteNode, depth int) {
		rows = append(rows, pickerRow{node: n, depth: depth})
		if collapsed[n.ID] {
			return
		}
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return rows
}
