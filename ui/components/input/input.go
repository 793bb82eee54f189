package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the single-line editor shown for the focused text or number
// control. It knows nothing about the form; the parent decides when a
// value is typed, committed or abandoned.
type Model struct {
	textinput textinput.Model
	numeric   bool
}

// New creates a new input model.
func New() Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0 // No limit
	ti.Width = 30

	return Model{
		textinput: ti,
	}
}

// SetWidth sets how many cells of the value are shown.
func (m *Model) SetWidth(w int) {
	m.textinput.Width = w
	m.textinput.SetCursor(m.textinput.Position())
}

// SetNumeric restricts typed runes to those a number can contain.
func (m *Model) SetNumeric(numeric bool) {
	m.numeric = numeric
}

// SetPlaceholder sets the text shown while the editor is empty.
func (m *Model) SetPlaceholder(s string) {
	m.textinput.Placeholder = s
}

// Focus gives focus to the input.
func (m *Model) Focus() {
	m.textinput.Focus()
}

// Blur removes focus from the input.
func (m *Model) Blur() {
	m.textinput.Blur()
}

// Value returns the current input text.
func (m *Model) Value() string {
	return m.textinput.Value()
}

// SetValue sets the input text and moves the cursor to the end.
func (m *Model) SetValue(s string) {
	m.textinput.SetValue(s)
	m.textinput.CursorEnd()
}

// Update handles tea messages for the input.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && m.numeric && k.Type == tea.KeyRunes {
		if validateNumber(string(k.Runes)) != nil {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// View renders the input line.
func (m *Model) View() string {
	return m.textinput.View()
}

func validateNumber(s string) error {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
		default:
			return errNotNumeric
		}
	}
	return nil
}
