package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/service"
	"github.com/mbelozerov/caseline/internal/teatest"
	"github.com/mbelozerov/caseline/internal/testsvc"
	"github.com/mbelozerov/caseline/internal/testutil"
)

// pickerApp wires a picker against an in-memory remote with one plan:
//
//	Root
//	├── Checkout
//	│   ├── Payments
//	│   └── Shipping
//	└── Accounts
func pickerApp() *App {
	remote := testutil.NewFakeTestService()
	remote.Suites["Webshop"] = []domain.SuiteRecord{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Checkout", ParentID: ref(1)},
		{ID: 4, Name: "Payments", ParentID: ref(2)},
		{ID: 5, Name: "Shipping", ParentID: ref(2)},
		{ID: 3, Name: "Accounts", ParentID: ref(1)},
	}

	session := service.NewSession()
	return &App{
		Suites:  service.NewSuiteService(remote, session, testsvc.DefaultConfig()),
		Session: session,
	}
}

func ref(v int64) *int64 { return &v }

func startPicker(t *testing.T) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newSuitePickerModel(pickerApp(), "Webshop", 7))
	d.DrainInit()

	m := d.Model.(suitePickerModel)
	require.False(t, m.loading)
	require.NoError(t, m.err)
	return d
}

func picker(d *teatest.Driver) suitePickerModel {
	return d.Model.(suitePickerModel)
}

func TestSuitePicker_FlattenSkipsCollapsed(t *testing.T) {
	root := picker(startPicker(t)).root

	rows := flattenSuites(root, map[int64]bool{})
	require.Len(t, rows, 5)
	assert.Equal(t, "Root", rows[0].node.Name)
	assert.Equal(t, 1, rows[1].depth)
	assert.Equal(t, 2, rows[2].depth)

	rows = flattenSuites(root, map[int64]bool{2: true})
	require.Len(t, rows, 3)
	assert.Equal(t, "Accounts", rows[2].node.Name)
}

func TestSuitePicker_Navigation(t *testing.T) {
	d := startPicker(t)
	assert.Equal(t, 0, picker(d).cursor)

	d.Press("j", "j")
	assert.Equal(t, 2, picker(d).cursor)

	d.Press("up")
	assert.Equal(t, 1, picker(d).cursor)

	// The cursor stays inside the list at both ends.
	d.Press("k", "k", "k")
	assert.Equal(t, 0, picker(d).cursor)
	d.Press("j", "j", "j", "j", "j", "j")
	assert.Equal(t, 4, picker(d).cursor)
}

func TestSuitePicker_CollapseAndExpand(t *testing.T) {
	d := startPicker(t)
	require.Len(t, picker(d).rows, 5)

	// Collapse "Checkout": its two children disappear from view.
	d.Press("down", "space")
	require.Len(t, picker(d).rows, 3)
	assert.True(t, picker(d).collapsed[2])

	d.Press("space")
	assert.Len(t, picker(d).rows, 5)
	assert.Contains(t, d.View(), "Payments")
}

func TestSuitePicker_SelectLeaf(t *testing.T) {
	d := startPicker(t)

	d.Press("down", "down", "enter")
	m := picker(d)
	require.NotNil(t, m.picked)
	assert.Equal(t, int64(4), m.picked.ID)
	assert.Equal(t, "Payments", m.picked.Name)
	assert.True(t, d.Quitting)
}

func TestSuitePicker_RootSelectable(t *testing.T) {
	// A plan with a real root has no synthetic wrapper, so the top row is a
	// legitimate pick.
	d := startPicker(t)

	d.Press("enter")
	m := picker(d)
	require.NotNil(t, m.picked)
	assert.Equal(t, int64(1), m.picked.ID)
}

func TestSuitePicker_SyntheticRootNotSelectable(t *testing.T) {
	m := newSuitePickerModel(&App{}, "Webshop", 7)
	root := domain.NewSyntheticRoot([]*domain.SuiteNode{
		{ID: 2, Name: "Orphan A"},
		{ID: 3, Name: "Orphan B"},
	})

	d := teatest.New(t, m)
	d.Send(treeLoadedMsg{root: root})

	d.Press("enter")
	assert.Nil(t, picker(d).picked)

	d.Press("down", "enter")
	got := picker(d)
	require.NotNil(t, got.picked)
	assert.Equal(t, "Orphan A", got.picked.Name)
}

func TestSuitePicker_QuitWithoutPick(t *testing.T) {
	d := startPicker(t)

	d.Press("q")
	assert.True(t, d.Quitting)
	assert.Nil(t, picker(d).picked)
}
