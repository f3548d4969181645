package export

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shanehull/shopfinder/internal/model"
)

const snippetWidth = 60

// RenderTable prints leads as a bordered text table.
func RenderTable(w io.Writer, leads []model.Lead) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Columns)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	for _, l := range leads {
		r := row(l)
		r[2] = truncate(r[2], snippetWidth)
		table.Append(r)
	}
	table.Render()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
