package variants

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// printer keeps the first write error so command code can print freely.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// table writes rows in columns aligned by display width, so wide labels
// such as CJK names line up.
func (p *printer) table(rows [][]string) {
	var widths []int
	for _, row := range rows {
		for j, cell := range row {
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.Reset()
		for j, cell := range row {
			if j == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[j]))
			b.WriteString("  ")
		}
		p.printf("%s\n", strings.TrimRight(b.String(), " "))
	}
}
