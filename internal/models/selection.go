package models

// Selection maps a category ID to the option IDs currently selected in it,
// e.g. {"sauce": ["tomato"], "toppings": ["olives", "redPeppers"]}.
// The UI rebuilds it from scratch on every change.
type Selection map[string][]string

// Has reports whether optionID is selected in categoryID.
func (s Selection) Has(categoryID, optionID string) bool {
	for _, id := range s[categoryID] {
		if id == optionID {
			return true
		}
	}
	return false
}

// DefaultSelection returns the selection with exactly the default options checked.
func DefaultSelection(p *Product) Selection {
	sel := make(Selection, len(p.Categories))
	for _, c := range p.Categories {
		ids := []string{}
		for _, o := range c.Options {
			if o.Default {
				ids = append(ids, o.ID)
			}
		}
		sel[c.ID] = ids
	}
	return sel
}
