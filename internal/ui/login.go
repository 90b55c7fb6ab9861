package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/forms"
)

type loginFocus int

const (
	focusUsername loginFocus = iota
	focusPassword
	focusRemember
	loginFocusCount
)

// loginForm is the sign-in screen state.
type loginForm struct {
	username     textinput.Model
	password     textinput.Model
	focus        loginFocus
	remember     bool
	showPassword bool
	errs         forms.FieldErrors
	serverErr    string
	submitting   bool
}

func newLoginForm() loginForm {
	user := textinput.New()
	user.Placeholder = "Login"
	user.CharLimit = 64
	user.Width = 30
	user.Prompt = ""

	pass := textinput.New()
	pass.Placeholder = "Password"
	pass.CharLimit = 128
	pass.Width = 30
	pass.Prompt = ""
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	f := loginForm{username: user, password: pass}
	f.setFocus(focusUsername)
	return f
}

func (f *loginForm) setFocus(target loginFocus) tea.Cmd {
	f.focus = target
	f.username.Blur()
	f.password.Blur()
	switch target {
	case focusUsername:
		return f.username.Focus()
	case focusPassword:
		return f.password.Focus()
	}
	return nil
}

// Update handles a key on the login screen. When the user submits a valid
// form it returns the request to send.
func (f loginForm) Update(msg tea.KeyMsg, keys keyMap) (loginForm, tea.Cmd, *catalog.LoginRequest) {
	if f.submitting {
		return f, nil, nil
	}
	switch {
	case key.Matches(msg, keys.Tab), msg.Type == tea.KeyDown:
		return f, f.setFocus((f.focus + 1) % loginFocusCount), nil
	case key.Matches(msg, keys.ShiftTab), msg.Type == tea.KeyUp:
		return f, f.setFocus((f.focus + loginFocusCount - 1) % loginFocusCount), nil
	case key.Matches(msg, keys.TogglePassword):
		f.showPassword = !f.showPassword
		if f.showPassword {
			f.password.EchoMode = textinput.EchoNormal
		} else {
			f.password.EchoMode = textinput.EchoPassword
		}
		return f, nil, nil
	case key.Matches(msg, keys.ClearField):
		switch f.focus {
		case focusUsername:
			f.username.SetValue("")
		case focusPassword:
			f.password.SetValue("")
		}
		return f, nil, nil
	case key.Matches(msg, keys.Confirm):
		return f.submit()
	}

	if f.focus == focusRemember {
		if key.Matches(msg, keys.ToggleRemember) {
			f.remember = !f.remember
		}
		return f, nil, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusUsername:
		f.username, cmd = f.username.Update(msg)
		delete(f.errs, forms.FieldUsername)
	case focusPassword:
		f.password, cmd = f.password.Update(msg)
		delete(f.errs, forms.FieldPassword)
	}
	return f, cmd, nil
}

func (f loginForm) submit() (loginForm, tea.Cmd, *catalog.LoginRequest) {
	req, errs := forms.ValidateLogin(f.username.Value(), f.password.Value())
	f.errs = errs
	f.serverErr = ""
	if errs != nil {
		var cmd tea.Cmd
		if errs.Get(forms.FieldUsername) != "" {
			cmd = f.setFocus(focusUsername)
		} else {
			cmd = f.setFocus(focusPassword)
		}
		return f, cmd, nil
	}
	f.submitting = true
	return f, nil, &req
}

// failed records a rejected login.
func (f *loginForm) failed(message string) {
	f.submitting = false
	f.serverErr = message
}

// reset clears the form for a fresh sign-in, keeping the remember choice.
func (f *loginForm) reset() tea.Cmd {
	f.password.SetValue("")
	f.errs = nil
	f.serverErr = ""
	f.submitting = false
	return f.setFocus(focusUsername)
}

// Messages

type loginResultMsg struct {
	resp     *catalog.LoginResponse
	remember bool
	err      error
}

func loginCmd(ctx context.Context, api catalog.API, timeout time.Duration, req catalog.LoginRequest, remember bool) tea.Cmd {
	return func() tea.Msg {
		if api == nil {
			return loginResultMsg{err: errNoAPI}
		}
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		resp, err := api.Login(callCtx, req)
		return loginResultMsg{resp: resp, remember: remember, err: err}
	}
}

// renderLogin renders the centred sign-in card.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	f := m.login

	var b strings.Builder
	b.WriteString(styles.Logo.Render("stockroom"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Sign in to manage the catalog"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 36)))
	b.WriteString("\n\n")

	b.WriteString(m.renderFormField("Login", f.username.View(), f.focus == focusUsername, f.errs.Get(forms.FieldUsername)))
	b.WriteString(m.renderFormField("Password", f.password.View(), f.focus == focusPassword, f.errs.Get(forms.FieldPassword)))

	box := "[ ]"
	if f.remember {
		box = "[x]"
	}
	rememberStyle := styles.MutedText
	if f.focus == focusRemember {
		rememberStyle = styles.AccentText
	}
	b.WriteString(rememberStyle.Render(box + " Remember me"))
	b.WriteString("\n\n")

	switch {
	case f.submitting:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Signing in..."))
	case f.serverErr != "":
		b.WriteString(styles.DangerText.Render(f.serverErr))
	default:
		b.WriteString(styles.FaintText.Render("Enter: Sign in  •  Tab: Next  •  Ctrl+P: Show password"))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 3).
		Width(46).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		card,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// renderFormField renders a label, input and optional inline error.
func (m Model) renderFormField(label, input string, focused bool, errMsg string) string {
	styles := m.theme.Styles()
	labelStyle := styles.MutedText
	if focused {
		labelStyle = styles.AccentText
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(padRight(label, 10)))
	b.WriteString(input)
	b.WriteString("\n")
	if errMsg != "" {
		b.WriteString(padRight("", 10))
		b.WriteString(styles.DangerText.Render(errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
