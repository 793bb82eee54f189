package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func typeRunes(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestTyping(t *testing.T) {
	m := New()
	m.Focus()
	typeRunes(&m, "Iris")
	require.Equal(t, "Iris", m.Value())
}

func TestNumericRejectsLetters(t *testing.T) {
	m := New()
	m.SetNumeric(true)
	m.Focus()
	typeRunes(&m, "4x2")
	require.Equal(t, "42", m.Value())

	typeRunes(&m, "px")
	require.Equal(t, "42", m.Value())
}

func TestSetWidthLimitsView(t *testing.T) {
	m := New()
	m.Focus()
	m.SetValue("0123456789")

	m.SetWidth(4)
	require.NotContains(t, m.View(), "0123456789")

	m.SetWidth(20)
	require.Contains(t, m.View(), "0123456789")
}

func TestValidateNumber(t *testing.T) {
	require.NoError(t, validateNumber("-1.5e3"))
	require.NoError(t, validateNumber(""))
	require.Error(t, validateNumber("12px"))
}
