package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/stats"
	"github.com/sadopc/focus/internal/store"
)

type categoriesModel struct {
	store  *store.Store
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "add", "remove"

	// Form field pointers (survive value copies)
	formName    *string
	formColor   *string
	formConfirm *bool
	removing    string
}

func newCategoriesModel(s *store.Store) categoriesModel {
	name, color, confirm := "", model.Palette[0], false
	return categoriesModel{
		store:       s,
		formName:    &name,
		formColor:   &color,
		formConfirm: &confirm,
	}
}

func (c *categoriesModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c categoriesModel) categories() []model.Category {
	return c.store.State().Categories
}

func (c categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cats := c.categories()
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(cats)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(cats) > 0 {
				name := cats[c.cursor].Name
				if err := c.store.SelectCategory(name); err != nil {
					return c, statusCmd("Error: "+err.Error(), true)
				}
				return c, statusCmd("Category: "+name, false)
			}
		case key.Matches(msg, keys.New):
			return c.showAddForm()
		case key.Matches(msg, keys.Delete):
			if len(cats) > 0 {
				return c.showRemoveForm(cats[c.cursor].Name)
			}
		}
	}
	return c, nil
}

func (c categoriesModel) showAddForm() (categoriesModel, tea.Cmd) {
	*c.formName = ""
	*c.formColor = model.PaletteColor(len(c.categories()))
	c.formType = "add"

	colorOptions := make([]huh.Option[string], len(model.Palette))
	for i, hex := range model.Palette {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot(hex), hex), hex)
	}

	st := c.store.State()
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category Name").Value(c.formName).
				Validate(func(s string) error {
					name, err := model.CleanCategoryName(s)
					if err != nil {
						return err
					}
					if st.CategoryIndex(name) >= 0 {
						return store.ErrCategoryExists
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(c.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c categoriesModel) showRemoveForm(name string) (categoriesModel, tea.Cmd) {
	*c.formConfirm = false
	c.formType = "remove"
	c.removing = name

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove %q?", name)).
				Description("Recorded sessions are kept and still count in stats.").
				Affirmative("Remove").
				Negative("Cancel").
				Value(c.formConfirm),
		),
	).WithShowHelp(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c categoriesModel) updateForm(msg tea.Msg) (categoriesModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		c.form = nil
		switch c.formType {
		case "add":
			cat, err := c.store.AddCategory(*c.formName, *c.formColor)
			if err != nil {
				return c, statusCmd("Error: "+err.Error(), true)
			}
			c.cursor = len(c.categories()) - 1
			return c, statusCmd("Added "+cat.Name, false)
		case "remove":
			if !*c.formConfirm {
				return c, nil
			}
			if err := c.store.RemoveCategory(c.removing); err != nil {
				return c, statusCmd("Error: "+err.Error(), true)
			}
			if c.cursor >= len(c.categories()) {
				c.cursor = max(0, len(c.categories())-1)
			}
			return c, statusCmd("Removed "+c.removing, false)
		}
	}

	return c, cmd
}

func (c categoriesModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Category")
		if c.formType == "remove" {
			title = titleStyle.Render("Remove Category")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Categories")
	cats := c.categories()
	if len(cats) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No categories yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	totals := stats.New(c.store.State()).CategoryTotals()
	selected, _ := c.store.SelectedCategory()

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s %s", "", "Name", "Color", "Total")))

	for i, cat := range cats {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := " "
		if cat.Name == selected.Name {
			marker = "*"
		}
		row := style.Render(fmt.Sprintf("%s%s%s %-24s %-10s %s",
			cursor, marker, dot(cat.Color), cat.Name, cat.Color, stats.FormatDuration(totals[cat.Name])))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: remove  enter: use for timer  * current"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
