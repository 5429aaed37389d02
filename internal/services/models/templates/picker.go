// Package templates renders the variant picker widget.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/herowiki/internal/services/models/selection"
	"github.com/louisbranch/herowiki/internal/services/shared/htmx"
)

// PickerID is the element id htmx swaps when the picker changes.
const PickerID = "variant-picker"

// PickerProps parameterize the picker widget.
type PickerProps struct {
	// Endpoint is the picker route, for example "/hero/aria/picker".
	Endpoint string
	// Noun names the variants, "costume" or "model".
	Noun string
	View selection.View
}

// Picker renders the collapsed or expanded picker for props.View.
func Picker(props PickerProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		view := props.View
		state := selection.PickerClosed
		if view.Open {
			state = selection.PickerOpen
		}
		fmt.Fprintf(&b, `<section id="%s" class="variant-picker" data-state="%s"`, PickerID, state)
		if view.Loading {
			b.WriteString(` aria-busy="true"`)
		}
		b.WriteString(">")

		if view.Loading {
			fmt.Fprintf(&b, `<p class="variant-picker__loading">Loading %ss…</p>`, templ.EscapeString(props.Noun))
			b.WriteString("</section>")
			_, err := io.WriteString(w, b.String())
			return err
		}

		label := view.Label
		if label == "" {
			label = "No " + props.Noun + "s"
		}
		toggle := pickerURL(props.Endpoint, view.Current, !view.Open)
		fmt.Fprintf(&b,
			`<button type="button" class="variant-picker__toggle" aria-expanded="%t" hx-get="%s" hx-target="#%s" hx-swap="outerHTML">%s</button>`,
			view.Open, templ.EscapeString(toggle), PickerID, templ.EscapeString(label),
		)

		if view.Open {
			b.WriteString(`<ul class="variant-picker__options" role="listbox">`)
			for _, item := range view.Items {
				writeItem(&b, props.Endpoint, item)
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</section>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeItem(b *strings.Builder, endpoint string, item selection.Item) {
	fmt.Fprintf(b, `<li role="option" aria-selected="%t" data-key="%s">`, item.Selected, templ.EscapeString(item.Key))
	fmt.Fprintf(b,
		`<a href="%s" hx-get="%s" hx-target="#%s" hx-swap="outerHTML">%s</a>`,
		templ.EscapeString(pickerURL(endpoint, item.Key, false)),
		templ.EscapeString(pickerURL(endpoint, item.Key, false)),
		PickerID,
		templ.EscapeString(item.Label),
	)
	fmt.Fprintf(b, ` <span class="variant-picker__parts">%d parts</span>`, item.PartCount)
	if len(item.Weapons) > 0 {
		names := make([]string, 0, len(item.Weapons))
		for _, weapon := range item.Weapons {
			names = append(names, weapon.String())
		}
		fmt.Fprintf(b, ` <span class="variant-picker__weapons">%s</span>`, templ.EscapeString(strings.Join(names, ", ")))
	}
	b.WriteString("</li>")
}

func pickerURL(endpoint, key string, open bool) string {
	query := url.Values{}
	if key != "" {
		query.Set("variant", key)
	}
	if open {
		query.Set("open", "1")
	}
	if len(query) == 0 {
		return endpoint
	}
	return endpoint + "?" + query.Encode()
}

// htmxScript pins the htmx build by subresource integrity.
const htmxScript = `<script src="https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js" ` +
	`integrity="sha384-HGfztofotfshcF7+8n44JQL2oJmowVChPTg48S+jvZoztPfvwD79OC/LTtG6dMp+" ` +
	`crossorigin="anonymous"></script>`

// Page wraps body in a minimal standalone document.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			htmx.TitleTag(title) + htmxScript + `</head><body><main>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}
