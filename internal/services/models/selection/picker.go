package selection

import (
	"slices"

	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/naming"
	"github.com/louisbranch/herowiki/internal/services/models/parts"
)

// PickerState is the expanded state of a variant picker.
type PickerState int

const (
	PickerClosed PickerState = iota
	PickerOpen
)

// String returns a stable label for the state.
func (s PickerState) String() string {
	if s == PickerOpen {
		return "open"
	}
	return "closed"
}

// Picker tracks whether the option list is expanded. The zero value is
// closed.
type Picker struct {
	state PickerState
}

// State returns the current state.
func (p *Picker) State() PickerState {
	return p.state
}

// IsOpen reports whether the option list is expanded.
func (p *Picker) IsOpen() bool {
	return p.state == PickerOpen
}

// Activate opens a closed picker. It reports whether the state changed.
func (p *Picker) Activate() bool {
	if p.state == PickerOpen {
		return false
	}
	p.state = PickerOpen
	return true
}

// Dismiss closes an open picker without selecting anything.
func (p *Picker) Dismiss() bool {
	if p.state == PickerClosed {
		return false
	}
	p.state = PickerClosed
	return true
}

// Choose hands key to set and closes the picker. Choosing while closed does
// nothing.
func (p *Picker) Choose(key string, set func(string)) bool {
	if p.state != PickerOpen {
		return false
	}
	if set != nil {
		set(key)
	}
	p.state = PickerClosed
	return true
}

// Reset returns the picker to closed, used when a new entity loads.
func (p *Picker) Reset() {
	p.state = PickerClosed
}

// Selection is the presentation-owned selection state read by the picker.
type Selection struct {
	Key     string
	Open    bool
	Loading bool
}

// Props parameterize one picker. Hero and boss pickers differ only in the
// catalog and formatter they pass.
type Props struct {
	Keys     []string
	Selected string
	OnSelect func(key string)
	Models   *catalog.Catalog
	Loading  bool
	Open     bool
	Format   naming.Formatter
}

// Item is one rendered picker entry.
type Item struct {
	Key       string
	Label     string
	Selected  bool
	PartCount int
	// Weapons lists the distinct equipment part types in render order.
	Weapons []parts.Type
}

// View is the render-ready picker state.
type View struct {
	Label   string
	Current string
	Open    bool
	Loading bool
	Items   []Item
}

// HeroCostumeProps builds picker props for a hero's costumes.
func HeroCostumeProps(c *catalog.Catalog, sel Selection, onSelect func(string)) Props {
	return newProps(c, sel, onSelect, catalog.DisplayNameFunc(c, naming.HeroCostume))
}

// BossModelProps builds picker props for a boss's forms.
func BossModelProps(c *catalog.Catalog, sel Selection, onSelect func(string)) Props {
	return newProps(c, sel, onSelect, catalog.DisplayNameFunc(c, naming.BossModel))
}

func newProps(c *catalog.Catalog, sel Selection, onSelect func(string), format naming.Formatter) Props {
	return Props{
		Keys:     c.Keys(),
		Selected: sel.Key,
		OnSelect: onSelect,
		Models:   c,
		Loading:  sel.Loading,
		Open:     sel.Open,
		Format:   format,
	}
}

// Pick forwards a choice to picker when key is one of the options.
func (p Props) Pick(picker *Picker, key string) bool {
	if picker == nil || !slices.Contains(p.Keys, key) {
		return false
	}
	return picker.Choose(key, p.OnSelect)
}

// View computes the render-ready picker. The highlighted entry is the variant
// that actually renders, so a stale selection highlights the fallback.
func (p Props) View() View {
	format := p.Format
	if format == nil {
		format = naming.Normalize
	}
	view := View{Open: p.Open, Loading: p.Loading, Items: make([]Item, 0, len(p.Keys))}
	if p.Loading {
		return view
	}

	current := p.Selected
	if p.Models != nil {
		if resolved, ok := FallbackToFirstKey(p.Models, p.Selected); ok {
			current = resolved
		}
	}
	if current != "" {
		view.Current = current
		view.Label = format(current)
	}

	for _, key := range p.Keys {
		item := Item{Key: key, Label: format(key), Selected: key == current}
		if variant, ok := p.Models.Lookup(key); ok {
			item.PartCount = len(variant.Parts)
			item.Weapons = weaponTypes(variant.Parts)
		}
		view.Items = append(view.Items, item)
	}
	return view
}

func weaponTypes(models []catalog.ModelWithTextures) []parts.Type {
	var out []parts.Type
	for _, model := range models {
		if model.Type.IsWeapon() && !slices.Contains(out, model.Type) {
			out = append(out, model.Type)
		}
	}
	return out
}
