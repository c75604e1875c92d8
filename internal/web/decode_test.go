// internal/web/decode_test.go
package web

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"certification-intake/internal/form"
	"certification-intake/internal/models"
)

func TestSiteCount(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   int
	}{
		{"none", url.Values{}, 0},
		{"one", url.Values{"sites.0.address": {"a"}}, 1},
		{"gap", url.Values{"sites.0.address": {"a"}, "sites.3.type": {"main"}}, 4},
		{"bad index", url.Values{"sites.x.address": {"a"}, "sites.-1.address": {"b"}}, 0},
		{"too many", url.Values{"sites.100000.address": {"a"}}, 0},
		{"other prefix", url.Values{"iso37001.sites.2.address": {"a"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, siteCount(tt.values))
		})
	}
}

func TestDecodeApplication_Fields(t *testing.T) {
	app := decodeApplication(url.Values{
		"organizationName":                        {"ACME"},
		"sites.0.address":                         {"Sofia"},
		"sites.1.address":                         {"Varna"},
		"sites.1.type":                            {models.SiteAdditional},
		"iso45001.hazards":                        {"noise"},
		"iso27001.employees.readOnly":             {"4"},
		"iso37001.sites.0.address":                {"HQ"},
		"iso37001.sites.0.processes.cashHandling": {"2"},
		"applicationTypes":                        {form.TypeNew, form.TypeTransfer},
		"multiSiteManagement":                     {"multiSite.option2"},
		"integrated.statements":                   {"integrated.statement1"},
		"iso39001.applicableStatements":           {"iso39001.statement3"},
		"transfer.documents":                      {"transfer.doc5"},
		"unknownField":                            {"ignored"},
		"action":                                  {"refresh"},
	})

	assert.Equal(t, "ACME", app.OrganizationName)
	assert.Len(t, app.Sites, 2)
	assert.Equal(t, "Sofia", app.Sites[0].Address)
	assert.Equal(t, models.SiteMain, app.Sites[0].Type)
	assert.Equal(t, "Varna", app.Sites[1].Address)
	assert.Equal(t, models.SiteAdditional, app.Sites[1].Type)
	assert.Equal(t, "noise", app.ISO45001.Hazards)
	assert.Equal(t, "4", app.ISO27001.Employees.ReadOnly)
	assert.Equal(t, "HQ", app.ISO37001.Sites[0].Address)
	assert.Equal(t, "2", app.ISO37001.Sites[0].Processes["cashHandling"])
	assert.Equal(t, []string{form.TypeNew, form.TypeTransfer}, app.ApplicationTypes)
	assert.Equal(t, []string{"multiSite.option2"}, app.MultiSiteManagement)
	assert.Equal(t, []string{"integrated.statement1"}, app.Integrated.Statements)
	assert.Equal(t, []string{"iso39001.statement3"}, app.ISO39001.ApplicableStatements)
	assert.Equal(t, []string{"transfer.doc5"}, app.Transfer.Documents)
}

func TestDecodeApplication_Standards(t *testing.T) {
	t.Run("keeps selection order", func(t *testing.T) {
		app := decodeApplication(url.Values{
			"previousStandards": {form.StdISO14001, form.StdISO9001},
			"standards":         {form.StdISO9001, form.StdISO14001, form.StdISO45001},
		})
		assert.Equal(t, []string{form.StdISO14001, form.StdISO9001, form.StdISO45001}, app.Standards)
	})

	t.Run("unchecked standards are dropped", func(t *testing.T) {
		app := decodeApplication(url.Values{
			"previousStandards": {form.StdISO14001, form.StdISO9001},
			"standards":         {form.StdISO9001},
		})
		assert.Equal(t, []string{form.StdISO9001}, app.Standards)
	})

	t.Run("new ISO 37001 edition replaces the old one", func(t *testing.T) {
		app := decodeApplication(url.Values{
			"previousStandards": {form.StdISO37001},
			"standards":         {form.StdISO37001, form.StdISO37001_25},
		})
		assert.Equal(t, []string{form.StdISO37001_25}, app.Standards)
	})

	t.Run("first post without previous selection", func(t *testing.T) {
		app := decodeApplication(url.Values{"standards": {form.StdOther}})
		assert.Equal(t, []string{form.StdOther}, app.Standards)
	})
}

func TestParseAction(t *testing.T) {
	verb, arg := parseAction("remove-site:2")
	assert.Equal(t, "remove-site", verb)
	assert.Equal(t, "2", arg)

	verb, arg = parseAction(" submit ")
	assert.Equal(t, "submit", verb)
	assert.Empty(t, arg)
}
