package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Confirm    key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding

	// Login form
	TogglePassword key.Binding
	ToggleRemember key.Binding
	ClearField     key.Binding

	// Products
	Search     key.Binding
	Refresh    key.Binding
	AddProduct key.Binding
	Activity   key.Binding
	Logout     key.Binding
	SortTitle  key.Binding
	SortBrand  key.Binding
	SortRating key.Binding
	SortPrice  key.Binding
	ClearSort  key.Binding

	// Navigation
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),

		// Login form
		TogglePassword: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Show/hide password"),
		),
		ToggleRemember: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle remember me"),
		),
		ClearField: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Clear field"),
		),

		// Products
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		AddProduct: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add product"),
		),
		Activity: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Activity log"),
		),
		Logout: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Log out"),
		),
		SortTitle: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Sort by name"),
		),
		SortBrand: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Sort by vendor"),
		),
		SortRating: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Sort by rating"),
		),
		SortPrice: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Sort by price"),
		),
		ClearSort: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "Server order"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/left", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/right", "Next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last page"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.FirstPage, k.LastPage},
		{k.SortTitle, k.SortBrand, k.SortRating, k.SortPrice, k.ClearSort},
		{k.Search, k.Refresh, k.AddProduct, k.Activity, k.Logout},
		{k.Tab, k.TogglePassword, k.ToggleRemember, k.ClearField, k.Confirm},
		{k.CycleTheme, k.Help, k.Escape, k.Quit, k.ForceQuit},
	}
}
