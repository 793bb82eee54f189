package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/drake/chartform/catalog"
	"github.com/drake/chartform/event"
	"github.com/drake/chartform/form"
	"github.com/drake/chartform/session"
	"github.com/drake/chartform/ui/components/input"
	"github.com/drake/chartform/ui/style"
)

const datasetYAMLExample = `- variable: my_data
  columns: [{name: a}, {name: b}]`

// Submitter receives the intents the form produces.
// *session.Session satisfies it.
type Submitter interface {
	Submit(in event.Intent)
}

// Model is the Bubble Tea model for the chart form.
// It never edits form state itself: keystrokes become intents, and the
// committed state comes back as a SnapshotMsg.
type Model struct {
	snap     session.Snapshot
	controls []form.Control
	focus    int

	// Editor for the focused text or number control
	editor     input.Model
	editTarget form.Target
	editing    bool
	dirty      bool // typed since the last commit

	sink   Submitter
	styles style.Styles
	keys   KeyMap
	help   help.Model

	status   string
	width    int
	height   int
	quitting bool
}

// NewModel creates a form model showing snap and reporting to sink.
func NewModel(snap session.Snapshot, sink Submitter) Model {
	m := Model{
		editor: input.New(),
		sink:   sink,
		styles: style.DefaultStyles(),
		keys:   DefaultKeyMap,
		help:   help.New(),
	}
	m.editor.SetWidth(m.valueWidth())
	m.setSnapshot(snap)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(m.valueWidth())
		return m, nil

	case SnapshotMsg:
		m.setSnapshot(session.Snapshot(msg))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// Focused returns the focused control.
func (m Model) Focused() (form.Control, bool) {
	if m.focus < 0 || m.focus >= len(m.controls) {
		return form.Control{}, false
	}
	return m.controls[m.focus], true
}

// EditorValue returns the text in the editor.
func (m Model) EditorValue() string {
	return m.editor.Value()
}

func (m *Model) setSnapshot(s session.Snapshot) {
	prev, hadFocus := m.Focused()
	m.snap = s
	m.controls = s.View.Controls()

	if hadFocus {
		for i, c := range m.controls {
			if c.Target == prev.Target {
				m.focus = i
				break
			}
		}
	}
	if m.focus >= len(m.controls) {
		m.focus = len(m.controls) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	m.bindEditor()
}

// bindEditor points the editor at the focused control. A value the user is
// still typing survives snapshots; anything else follows the model.
func (m *Model) bindEditor() {
	c, ok := m.Focused()
	if !ok || c.Kind == form.KindSelect {
		m.editing = false
		m.dirty = false
		m.editor.Blur()
		return
	}

	if !m.editing || m.editTarget != c.Target {
		m.editing = true
		m.editTarget = c.Target
		m.dirty = false
		m.editor.SetNumeric(c.Kind == form.KindNumber)
		if c.Target.Field == form.FieldChartTitle {
			m.editor.SetPlaceholder("Title")
		} else {
			m.editor.SetPlaceholder("")
		}
		m.editor.SetValue(c.Value)
	} else if !m.dirty && m.editor.Value() != c.Value {
		m.editor.SetValue(c.Value)
	}

	if c.Disabled {
		m.editor.Blur()
	} else {
		m.editor.Focus()
	}
}

func (m *Model) submit(in event.Intent) {
	if m.sink != nil {
		m.sink.Submit(in)
	}
}

// leave commits whatever the editor holds before focus moves away.
func (m *Model) leave() {
	if m.editing && m.dirty {
		m.submit(event.Blur())
	}
	m.dirty = false
}

func (m *Model) move(delta int) {
	if len(m.controls) == 0 {
		return
	}
	m.leave()
	m.focus = (m.focus + delta + len(m.controls)) % len(m.controls)
	m.bindEditor()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.leave()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.move(1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.AddLayer):
		if !m.snap.View.CanAddLayer {
			m.status = describeError(session.ErrFormDisabled)
			return m, nil
		}
		m.leave()
		m.submit(event.AddLayerIntent())
		return m, nil

	case key.Matches(msg, m.keys.RemoveLayer):
		c, ok := m.Focused()
		if !ok || c.Target.IsRoot() {
			return m, nil
		}
		if !m.layerRemovable(c.Target.Layer) {
			m.status = describeError(form.ErrLastLayer)
			return m, nil
		}
		m.leave()
		m.submit(event.RemoveLayerIntent(c.Target.Layer))
		return m, nil
	}

	c, ok := m.Focused()
	if !ok || c.Disabled {
		return m, nil
	}

	if c.Kind == form.KindSelect {
		switch {
		case key.Matches(msg, m.keys.OptionNext):
			m.cycle(c, 1)
		case key.Matches(msg, m.keys.OptionPrev):
			m.cycle(c, -1)
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Commit) {
		m.submit(event.Change(c.Target, m.editor.Value()))
		m.dirty = false
		return m, nil
	}

	before := m.editor.Value()
	_, cmd := m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.dirty = true
		m.submit(event.Input(c.Target, after))
	}
	return m, cmd
}

func (m Model) layerRemovable(i int) bool {
	for _, l := range m.snap.View.Layers {
		if l.Index == i {
			return l.Removable
		}
	}
	return false
}

// cycle moves a select to the next selectable option. A stale value is not
// selectable; from it the cycle starts at either end.
func (m *Model) cycle(c form.Control, dir int) {
	var values []string
	for _, o := range c.Options {
		if !o.Unavailable {
			values = append(values, o.Value)
		}
	}
	if len(values) == 0 {
		return
	}

	idx := -1
	for i, v := range values {
		if v == c.Value {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx < 0 && dir > 0:
		next = 0
	case idx < 0:
		next = len(values) - 1
	default:
		next = (idx + dir + len(values)) % len(values)
	}
	if values[next] == c.Value {
		return
	}
	m.submit(event.Change(c.Target, values[next]))
}

func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrFormDisabled):
		return "no dataset available"
	case errors.Is(err, form.ErrLastLayer):
		return "cannot remove the last layer"
	}
	return err.Error()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	v := m.snap.View

	if v.MissingDep != "" {
		b.WriteString(m.styles.Banner.Render(
			m.wrap("To successfully build charts, you need to add the following dependency:") + "\n" +
				m.styles.BannerCode.Render(v.MissingDep)))
		b.WriteString("\n")
	}
	if v.NoDataset {
		b.WriteString(m.styles.Banner.Render(strings.Join([]string{
			m.wrap("To successfully plot graphs, you need at least one dataset available."),
			m.wrap("A dataset can be a list of columns in a YAML file, for example:"),
			m.styles.BannerCode.Render(datasetYAMLExample),
			m.wrap("Or a sheet of an .xlsx workbook, header row first:"),
			m.styles.BannerCode.Render("chartform --data iris.xlsx"),
		}, "\n")))
		b.WriteString("\n")
	}

	idx := 0
	var root []string
	for _, c := range v.Root {
		root = append(root, m.renderControl(idx, c))
		idx++
	}
	b.WriteString(m.styles.Root.Render(strings.Join(root, "\n")))
	b.WriteString("\n")

	for _, l := range v.Layers {
		lines := []string{
			m.styles.LayerTitle.Render(l.Title) + m.styles.LayerSub.Render(l.Subtitle),
		}
		for _, c := range l.Controls {
			lines = append(lines, m.renderControl(idx, c))
			idx++
		}
		b.WriteString(m.styles.Layer.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return m.styles.App.Render(b.String())
}

func (m Model) renderControl(idx int, c form.Control) string {
	focused := idx == m.focus
	label := c.Label
	if strings.HasSuffix(c.Target.Field, "_field_type") || strings.HasSuffix(c.Target.Field, "_field_aggregate") {
		label = "  " + label
	}

	var value string
	switch {
	case focused && c.Kind != form.KindSelect && m.editing:
		value = m.editor.View()
	case c.Kind == form.KindSelect:
		value = runewidth.Truncate(catalog.Label(c.Value), m.valueWidth(), "…")
		if value == "" {
			value = m.styles.Placeholder.Render("none")
		}
		if focused && !c.Disabled {
			value = "‹ " + value + " ›"
		}
	default:
		value = runewidth.Truncate(c.Value, m.valueWidth(), "…")
	}

	switch {
	case c.Unavailable:
		value = m.styles.Unavailable.Render(value) + m.styles.Muted.Render(" (unavailable)")
	case c.Disabled:
		value = m.styles.Disabled.Render(value)
	default:
		value = m.styles.Value.Render(value)
	}

	prefix := "  "
	labelStyle := m.styles.Label
	if focused {
		prefix = "> "
		labelStyle = labelStyle.Inherit(m.styles.Focused)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, prefix, labelStyle.Render(label), " ", value)
}

// wrap breaks banner text to the window, leaving room for the border.
func (m Model) wrap(text string) string {
	if m.width <= 4 {
		return text
	}
	return wordwrap.String(text, m.width-4)
}

// valueWidth is the room left for a value after the cursor, label and border.
func (m Model) valueWidth() int {
	const minWidth = 12
	w := m.width - 2 - m.styles.Label.GetWidth() - 1 - 6
	if w < minWidth {
		if m.width == 0 {
			return 40
		}
		return minWidth
	}
	return w
}

func (m Model) renderFooter() string {
	state := m.styles.SyncIdle.Render(m.snap.State.String())
	if m.snap.State == session.Edited {
		state = m.styles.SyncEdited.Render(m.snap.State.String())
	}
	line := fmt.Sprintf("%s  %s", state, m.help.ShortHelpView(m.keys.ShortHelp()))
	if m.status != "" {
		line += "\n" + m.styles.StatusError.Render(m.status)
	}
	return line
}
