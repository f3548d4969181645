package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestReporterMessages(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := New(&buf)

	r.Warning("Please enter both categories and a location.")
	r.QueryError("beads supplier in Durban", errors.New("timeout"))
	r.Success(4)
	r.Empty()
	r.Info("Saved %s", "leads.xlsx")

	assert.Equal(t,
		"⚠ Please enter both categories and a location.\n"+
			"✖ Search failed for \"beads supplier in Durban\": timeout\n"+
			"✅ Found 4 results.\n"+
			EmptyMessage+"\n"+
			"Saved leads.xlsx\n",
		buf.String())
}
