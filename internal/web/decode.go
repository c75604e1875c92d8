// internal/web/decode.go
package web

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"certification-intake/internal/form"
	"certification-intake/internal/models"
)

// Posted field names that are not dotted model paths.
const (
	fieldAction            = "action"
	fieldLang              = "lang"
	fieldPreviousStandards = "previousStandards"
	fieldStandards         = "standards"
	fieldApplicationTypes  = "applicationTypes"
	fieldMultiSite         = "multiSiteManagement"
)

// checklists maps checkbox group names to their statement set.
var checklists = map[string]string{
	"integrated.statements":         form.SetIntegrated,
	"iso39001.applicableStatements": form.SetISO39001,
	"transfer.documents":            form.SetTransfer,
}

// decodeApplication rebuilds the aggregate from a posted form by replaying
// the posted values through the reducer.
func decodeApplication(values url.Values) models.Application {
	app := form.New()

	for i := len(app.Sites); i < siteCount(values); i++ {
		app = form.Apply(app, form.AddSite{})
	}

	// Standards keep their selection order: start from what the page was
	// rendered with, drop what was unchecked, then add new selections so
	// the ISO 37001 exclusion applies to them.
	previous := values[fieldPreviousStandards]
	posted := values[fieldStandards]
	for _, id := range previous {
		app = form.Apply(app, form.ToggleStandard{ID: id, Selected: true})
	}
	for _, id := range previous {
		if !contains(posted, id) {
			app = form.Apply(app, form.ToggleStandard{ID: id, Selected: false})
		}
	}
	for _, id := range posted {
		if !contains(previous, id) {
			app = form.Apply(app, form.ToggleStandard{ID: id, Selected: true})
		}
	}

	for _, v := range values[fieldApplicationTypes] {
		app = form.Apply(app, form.ToggleApplicationType{Value: v, Checked: true})
	}
	for _, v := range values[fieldMultiSite] {
		app = form.Apply(app, form.ToggleMultiSite{Value: v, Checked: true})
	}
	for name, set := range checklists {
		for _, v := range values[name] {
			app = form.Apply(app, form.ToggleStatement{Set: set, Value: v, Checked: true})
		}
	}

	// Remaining fields are dotted paths; unknown names are ignored.
	keys := make([]string, 0, len(values))
	for k := range values {
		if isReserved(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		app = form.Apply(app, form.SetField{Path: k, Value: values.Get(k)})
	}

	return app
}

// siteCount is one more than the highest posted sites.<n> index.
func siteCount(values url.Values) int {
	n := 0
	for k := range values {
		rest, ok := strings.CutPrefix(k, "sites.")
		if !ok {
			continue
		}
		idx, _, _ := strings.Cut(rest, ".")
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 || i > maxSites {
			continue
		}
		if i+1 > n {
			n = i + 1
		}
	}
	return n
}

// maxSites bounds how many site rows a posted form can create.
const maxSites = 200

func isReserved(name string) bool {
	switch name {
	case fieldAction, fieldLang, fieldPreviousStandards, fieldStandards, fieldApplicationTypes, fieldMultiSite:
		return true
	}
	_, ok := checklists[name]
	return ok
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// parseAction splits "remove-site:2" into its verb and argument.
func parseAction(raw string) (verb, arg string) {
	verb, arg, _ = strings.Cut(strings.TrimSpace(raw), ":")
	return verb, arg
}
