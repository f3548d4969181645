package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	got := ParseCategories("beads\n  toys  \n\n fabric, buttons ,\r\n")
	assert.Equal(t, []string{"beads", "toys", "fabric", "buttons"}, got)
	assert.Empty(t, ParseCategories(" \n , "))
}

func TestExpandVariants(t *testing.T) {
	got := ExpandVariants(nil, " importer, , Supplier,manufacturer ")
	assert.Equal(t, []string{"supplier", "wholesaler", "distributor", "store", "shop", "importer", "manufacturer"}, got)

	assert.Equal(t, BaseVariants, ExpandVariants(nil, ""))
	assert.Equal(t, []string{"supplier", "importer"}, ExpandVariants([]string{"supplier"}, "importer"))
}

func TestExpandVariantsDoesNotAliasBase(t *testing.T) {
	got := ExpandVariants(nil, "")
	got[0] = "changed"
	assert.Equal(t, "supplier", BaseVariants[0])
}

func TestComposeLocation(t *testing.T) {
	assert.Equal(t, "Cape Town, South Africa", ComposeLocation(" Cape Town ", "South Africa"))
	assert.Equal(t, "South Africa", ComposeLocation("", "South Africa"))
	assert.Equal(t, "", ComposeLocation(" ", ""))
}

func TestQuery(t *testing.T) {
	c := SearchCriteria{Location: "Cape Town"}
	assert.Equal(t, "beads supplier in Cape Town", c.Query("beads", "supplier"))

	c.Location = "  "
	assert.Equal(t, "beads supplier", c.Query("beads", "supplier"))
}

func TestValidate(t *testing.T) {
	valid := SearchCriteria{
		Categories: []string{"beads"},
		Variants:   []string{"supplier"},
		MaxResults: DefaultResults,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*SearchCriteria)
		want   error
	}{
		{"no categories", func(c *SearchCriteria) { c.Categories = nil }, ErrMissingInput},
		{"location required", func(c *SearchCriteria) { c.RequireLocation = true }, ErrMissingInput},
		{"no variants", func(c *SearchCriteria) { c.Variants = nil }, ErrInvalidInput},
		{"zero results", func(c *SearchCriteria) { c.MaxResults = 0 }, ErrInvalidInput},
		{"too many results", func(c *SearchCriteria) { c.MaxResults = 21 }, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), tt.want)
		})
	}
}

func TestMockLeads(t *testing.T) {
	leads := MockLeads("beads")
	require.Len(t, leads, 3)
	for _, l := range leads {
		assert.Equal(t, "beads", l.Category)
		assert.NotEmpty(t, l.Email)
	}
}

func TestLeadHost(t *testing.T) {
	l := Lead{URL: "https://WWW.Example.co.za/shop?x=1"}
	assert.Equal(t, "example.co.za", l.Host())
	assert.False(t, l.HasContact())
	l.Phone = "+27 21 000 0000"
	assert.True(t, l.HasContact())
}
