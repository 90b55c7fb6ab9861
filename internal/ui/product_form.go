package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/forms"
)

// productAddedMsg carries a validated product out of the add-product modal.
type productAddedMsg struct {
	product catalog.Product
}

type productField struct {
	name  string // forms field key
	label string
	input textinput.Model
}

// productForm is the add-product modal.
type productForm struct {
	fields []productField
	focus  int
	errs   forms.FieldErrors
}

var _ Modal = (*productForm)(nil)

func newProductForm() *productForm {
	mk := func(name, label, placeholder string, limit int) productField {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 30
		ti.Prompt = ""
		return productField{name: name, label: label, input: ti}
	}
	return &productForm{
		fields: []productField{
			mk(forms.FieldTitle, "Title", "e.g. Desk lamp", 120),
			mk(forms.FieldPrice, "Price", "e.g. 19.99", 16),
			mk(forms.FieldBrand, "Vendor", "e.g. Lumen", 60),
			mk(forms.FieldSKU, "SKU", "e.g. LMP-001", 40),
		},
	}
}

func (f *productForm) Init() tea.Cmd {
	return f.setFocus(0)
}

func (f *productForm) setFocus(idx int) tea.Cmd {
	f.focus = (idx + len(f.fields)) % len(f.fields)
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

func (f *productForm) draft() forms.ProductDraft {
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		values[field.name] = field.input.Value()
	}
	return forms.ProductDraft{
		Title: values[forms.FieldTitle],
		Price: values[forms.FieldPrice],
		Brand: values[forms.FieldBrand],
		SKU:   values[forms.FieldSKU],
	}
}

func (f *productForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
		return f, cmd, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true
	case key.Matches(keyMsg, keys.Tab), keyMsg.Type == tea.KeyDown:
		return f, f.setFocus(f.focus + 1), false
	case key.Matches(keyMsg, keys.ShiftTab), keyMsg.Type == tea.KeyUp:
		return f, f.setFocus(f.focus - 1), false
	case key.Matches(keyMsg, keys.Confirm):
		if f.focus < len(f.fields)-1 {
			return f, f.setFocus(f.focus + 1), false
		}
		return f.submit()
	case keyMsg.String() == "ctrl+s":
		return f.submit()
	}

	var cmd tea.Cmd
	field := &f.fields[f.focus]
	field.input, cmd = field.input.Update(keyMsg)
	delete(f.errs, field.name)
	return f, cmd, false
}

func (f *productForm) submit() (Modal, tea.Cmd, bool) {
	d := f.draft()
	if errs := d.Validate(); errs != nil {
		f.errs = errs
		for i, field := range f.fields {
			if errs.Get(field.name) != "" {
				return f, f.setFocus(i), false
			}
		}
		return f, nil, false
	}
	product, err := d.Product()
	if err != nil {
		f.errs = forms.FieldErrors{forms.FieldPrice: "Enter a valid price"}
		return f, nil, false
	}
	return f, func() tea.Msg { return productAddedMsg{product: product} }, true
}

func (f *productForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Add product"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText
		}
		b.WriteString(labelStyle.Render(padRight(field.label+":", 9)))
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msg := f.errs.Get(field.name); msg != "" {
			b.WriteString(padRight("", 9))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.FaintText.Render("Enter: Next/Save  •  Ctrl+S: Save  •  Esc: Cancel"))
	return renderModalFrame(theme, b.String(), 54, width, height)
}
