package notes

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	toggle     key.Binding
	edit       key.Binding
	revert     key.Binding
	create     key.Binding
	discard    key.Binding
	preview    key.Binding
	save       key.Binding
	reload     key.Binding
	copy       key.Binding
	focus      key.Binding
	todos      key.Binding
	tags       key.Binding
	tagLeft    key.Binding
	tagRight   key.Binding
	tagOnly    key.Binding
	tagAll     key.Binding
	tagNone    key.Binding
	dismiss    key.Binding
	toggleHelp key.Binding
	quit       key.Binding
	confirm    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		revert: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "revert"),
		),
		create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new note"),
		),
		discard: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "discard new note"),
		),
		preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		save: key.NewBinding(
			key.WithKeys("ctrl+s", "s"),
			key.WithHelp("s", "save"),
		),
		reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		copy: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy source"),
		),
		focus: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to note"),
		),
		todos: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "show/hide todos"),
		),
		tags: key.NewBinding(
			key.WithKeys("t", "tab"),
			key.WithHelp("t", "tags"),
		),
		tagLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous tag"),
		),
		tagRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next tag"),
		),
		tagOnly: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "only this tag"),
		),
		tagAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all tags"),
		),
		tagNone: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "no tags"),
		),
		dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.edit, k.create, k.save, k.tags, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle, k.focus},
		{k.edit, k.revert, k.create, k.discard},
		{k.preview, k.copy, k.save, k.reload},
		{k.tags, k.tagLeft, k.tagRight, k.tagOnly, k.tagAll, k.tagNone},
		{k.todos, k.dismiss, k.toggleHelp, k.quit},
	}
}
