package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liveframe/internal/mode"
)

func TestChromeFor(t *testing.T) {
	tests := []struct {
		mode   mode.Visible
		findMe bool
		want   Chrome
	}{
		{mode.Edit, true, Chrome{Border: BorderResizable, Opacity: 0.5, ShowInTaskbar: true, Title: Caption, EditBadge: true}},
		{mode.Edit, false, Chrome{Border: BorderResizable, Opacity: 0.5, EditBadge: true}},
		{mode.Live, true, Chrome{Border: BorderNone, Opacity: 0, ShowInTaskbar: true, Title: Caption}},
		{mode.Live, false, Chrome{Border: BorderNone, Opacity: 0, BeRightBack: true}},
		{mode.Blindfold, true, Chrome{Border: BorderNone, Opacity: 0, ShowInTaskbar: true, Title: Caption, BeRightBack: true}},
		{mode.Blindfold, false, Chrome{Border: BorderNone, Opacity: 1, BeRightBack: true}},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, ChromeFor(tc.mode, tc.findMe))
		})
	}
}

func TestMachine_ToggleBlindfoldIgnoredInEdit(t *testing.T) {
	m := New(true)
	before := m.Chrome()

	tr := m.ToggleBlindfold()

	assert.False(t, tr.Changed)
	assert.Equal(t, mode.Edit, m.Mode())
	assert.Equal(t, before, m.Chrome())
}

func TestMachine_Toggles(t *testing.T) {
	m := New(true)

	tr := m.ToggleEdit()
	assert.Equal(t, mode.Live, tr.To)
	assert.True(t, tr.Reassert)
	assert.False(t, tr.StopCapture)

	tr = m.ToggleBlindfold()
	assert.Equal(t, mode.Blindfold, tr.To)
	assert.Equal(t, 0.0, tr.Chrome.Opacity)

	tr = m.ToggleBlindfold()
	assert.Equal(t, mode.Live, tr.To)

	m.ToggleBlindfold()
	tr = m.ToggleEdit()
	assert.Equal(t, mode.Blindfold, tr.From)
	assert.Equal(t, mode.Edit, tr.To)
	assert.True(t, tr.StopCapture)
}

func TestMachine_SetFindMe(t *testing.T) {
	m := New(true)
	m.ToggleEdit()
	m.ToggleBlindfold()

	tr := m.SetFindMe(false)

	assert.True(t, tr.Reassert)
	assert.Equal(t, mode.Blindfold, m.Mode())
	assert.Equal(t, 1.0, tr.Chrome.Opacity)
	assert.Empty(t, tr.Chrome.Title)
	assert.False(t, tr.Chrome.ShowInTaskbar)
}
