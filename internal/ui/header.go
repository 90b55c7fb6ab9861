package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the status bar: logo, user and listing state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("stockroom", styles.Logo)}

	if sess, ok := m.currentSession(); ok {
		name := sess.DisplayName
		if name == "" {
			name = sess.Username
		}
		user := bg.Render("●", styles.SuccessText) + bg.Space() + bg.Render(truncate(name, 24), styles.Text)
		if sess.Remembered {
			user += bg.Space() + bg.Render("(remembered)", styles.FaintText)
		}
		parts = append(parts, user)
	}

	snap := m.snapshot
	if m.screen != screenLogin {
		switch {
		case snap.Loading:
			parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Loading", styles.WarningText))
		case snap.Error != "":
			parts = append(parts, bg.Render("Load failed", styles.DangerText))
		default:
			parts = append(parts,
				bg.Render("Products:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", snap.Total), styles.Text))
		}
		if pages := snap.TotalPages(); pages > 0 {
			parts = append(parts,
				bg.Render("Page:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d/%d", snap.Query.Page, pages), styles.Text))
		}
		if !snap.LastUpdated.IsZero() {
			parts = append(parts, bg.Render("Updated "+snap.LastUpdated.Format("15:04:05"), styles.FaintText))
		}
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.modal != nil:
		commands = []cmd{
			{"Tab", "Next"},
			{"Ctrl+S", "Save"},
			{"Esc", "Cancel"},
		}
	case m.screen == screenActivity:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"Esc", "Products"},
		}
	case m.search.Focused():
		commands = []cmd{
			{"Enter", "Search now"},
			{"Esc", "Done"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"1-4", "Sort"},
			{"h/l", "Page"},
			{"r", "Refresh"},
			{"a", "Add"},
			{"L", "Activity"},
			{"O", "Logout"},
		}
	}
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		commands = append(commands, cmd{h.Key, h.Desc})
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("Ctrl+T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
