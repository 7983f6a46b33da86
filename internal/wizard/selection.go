package wizard

// Group is a single-select set of options. At most one option is selected;
// selecting another clears the previous one.
type Group struct {
	ids      []string
	selected int
}

func newGroup(ids []string) *Group {
	return &Group{ids: ids, selected: -1}
}

// Select marks id as the only selected option. It returns false, leaving
// the group unchanged, when id is not one of the group's options.
func (g *Group) Select(id string) bool {
	for i, candidate := range g.ids {
		if candidate == id {
			g.selected = i
			return true
		}
	}
	return false
}

// Selected returns the selected option ID, or "" when nothing is selected.
func (g *Group) Selected() string {
	if g.selected < 0 {
		return ""
	}
	return g.ids[g.selected]
}

// IsSelected reports whether id is the selected option.
func (g *Group) IsSelected(id string) bool {
	return g.selected >= 0 && g.ids[g.selected] == id
}

func (g *Group) clear() {
	g.selected = -1
}
