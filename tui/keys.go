package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskdeck/internal/infrastructure/config"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Drag     key.Binding
	Drop     key.Binding
	Cancel   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Trash    key.Binding
	Restore  key.Binding
	Search   key.Binding
	Priority key.Binding
	Theme    key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// Modal keys are fixed; letters there belong to the text inputs
type modalKeyMap struct {
	NextField     key.Binding
	PrevField     key.Binding
	Save          key.Binding
	Cancel        key.Binding
	CyclePriority key.Binding
	CycleStatus   key.Binding
	ToggleSubtask key.Binding
	RemoveSubtask key.Binding
	SubtaskUp     key.Binding
	SubtaskDown   key.Binding
	Confirm       key.Binding
}

func newKeyMap(kb config.KeybindingsConfig) keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys(kb.Up...)),
		Down:     key.NewBinding(key.WithKeys(kb.Down...)),
		Left:     key.NewBinding(key.WithKeys(kb.Left...)),
		Right:    key.NewBinding(key.WithKeys(kb.Right...)),
		Drag:     key.NewBinding(key.WithKeys(kb.Drag...)),
		Drop:     key.NewBinding(key.WithKeys(kb.Drop...)),
		Cancel:   key.NewBinding(key.WithKeys(kb.Cancel...)),
		Add:      key.NewBinding(key.WithKeys(kb.Add...)),
		Edit:     key.NewBinding(key.WithKeys(kb.Edit...)),
		Delete:   key.NewBinding(key.WithKeys(kb.Delete...)),
		Trash:    key.NewBinding(key.WithKeys(kb.Trash...)),
		Restore:  key.NewBinding(key.WithKeys(kb.Restore...)),
		Search:   key.NewBinding(key.WithKeys(kb.Search...)),
		Priority: key.NewBinding(key.WithKeys(kb.Priority...)),
		Theme:    key.NewBinding(key.WithKeys(kb.Theme...)),
		Refresh:  key.NewBinding(key.WithKeys(kb.Refresh...)),
		Quit:     key.NewBinding(key.WithKeys(kb.Quit...)),
	}
}

var modalKeys = modalKeyMap{
	NextField:     key.NewBinding(key.WithKeys("tab")),
	PrevField:     key.NewBinding(key.WithKeys("shift+tab")),
	Save:          key.NewBinding(key.WithKeys("ctrl+s")),
	Cancel:        key.NewBinding(key.WithKeys("esc")),
	CyclePriority: key.NewBinding(key.WithKeys("ctrl+p")),
	CycleStatus:   key.NewBinding(key.WithKeys("ctrl+o")),
	ToggleSubtask: key.NewBinding(key.WithKeys("ctrl+t")),
	RemoveSubtask: key.NewBinding(key.WithKeys("ctrl+d")),
	SubtaskUp:     key.NewBinding(key.WithKeys("up")),
	SubtaskDown:   key.NewBinding(key.WithKeys("down")),
	Confirm:       key.NewBinding(key.WithKeys("enter")),
}
