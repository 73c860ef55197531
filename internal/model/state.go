package model

// Palette is the fixed color cycle used for categories without an explicit color.
var Palette = []string{"#79f5b0", "#65f7a1", "#9feacb", "#ffb86b", "#ff8c42", "#a29bfe"}

// DefaultCategoryColor is used when a category is added without a color.
const DefaultCategoryColor = "#65f7a1"

const (
	DefaultWorkMinutes  = 30
	DefaultBreakMinutes = 10
)

// PaletteColor returns the palette entry for position i, wrapping around.
func PaletteColor(i int) string {
	i %= len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// DefaultState returns the state used on first run or when loading fails.
func DefaultState() *AppState {
	return &AppState{
		Categories: []Category{
			{Name: "English", Color: "#79f5b0"},
			{Name: "Coding", Color: "#65f7a1"},
			{Name: "AI", Color: "#9feacb"},
			{Name: "Math", Color: "#ffb86b"},
		},
		Sessions:             []Session{},
		Theme:                ThemeDark,
		PomodoroWorkMinutes:  DefaultWorkMinutes,
		PomodoroBreakMinutes: DefaultBreakMinutes,
	}
}

// Normalize repairs fields a hand-edited or partial state file may leave
// unusable. It never touches sessions beyond replacing a nil slice.
func (s *AppState) Normalize() {
	if s.Categories == nil {
		s.Categories = []Category{}
	}
	if s.Sessions == nil {
		s.Sessions = []Session{}
	}
	if s.Streak < 0 {
		s.Streak = 0
	}
	if !s.Theme.Valid() {
		s.Theme = ThemeDark
	}
	if ValidateWorkMinutes(s.PomodoroWorkMinutes) != nil {
		s.PomodoroWorkMinutes = DefaultWorkMinutes
	}
	if ValidateBreakMinutes(s.PomodoroBreakMinutes) != nil {
		s.PomodoroBreakMinutes = DefaultBreakMinutes
	}
}

// CategoryIndex returns the position of the named category or -1.
func (s *AppState) CategoryIndex(name string) int {
	for i, c := range s.Categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Category looks up a category by name.
func (s *AppState) Category(name string) (Category, bool) {
	if i := s.CategoryIndex(name); i >= 0 {
		return s.Categories[i], true
	}
	return Category{}, false
}

// ColorOf returns the category's color, or a palette color for names that
// only survive in historical sessions.
func (s *AppState) ColorOf(name string) string {
	if c, ok := s.Category(name); ok {
		return c.Color
	}
	var h uint32
	for _, r := range name {
		h = h*31 + uint32(r)
	}
	return PaletteColor(int(h % uint32(len(Palette))))
}
