// internal/form/translate.go
package form

import (
	"strconv"
	"sync"

	"certification-intake/internal/i18n"
	"certification-intake/internal/models"
)

// Translator turns stored keys into display labels for one catalog.
type Translator struct {
	catalog *i18n.Catalog
}

func NewTranslator(catalog *i18n.Catalog) *Translator {
	return &Translator{catalog: catalog}
}

var defaultTranslator = sync.OnceValue(func() *Translator {
	return NewTranslator(i18n.MustLoad())
})

// Translate uses the embedded locale tables.
func Translate(app models.Application, lang i18n.Language) models.TranslatedApplication {
	return defaultTranslator().Translate(app, lang)
}

// Translate replaces enumerated values of app with their labels in lang and
// computes one scheme code per selected standard. Values without a label
// are kept as they are. app is not modified.
func (t *Translator) Translate(app models.Application, lang i18n.Language) models.TranslatedApplication {
	tr := t.catalog.For(lang)
	out := Clone(app)

	out.ApplicationTypes = labels(tr, prefixAppType, app.ApplicationTypes)
	out.Standards = labels(tr, prefixStandard, app.Standards)
	out.MultiSiteManagement = labels(tr, "", app.MultiSiteManagement)

	out.DevelopNewProducts = label(tr, prefixYesNo, app.DevelopNewProducts)
	out.ManufactureProducts = label(tr, prefixYesNo, app.ManufactureProducts)
	out.AuditLanguage = label(tr, prefixLanguage, app.AuditLanguage)

	for i := range out.Sites {
		out.Sites[i].Type = label(tr, prefixSiteType, app.Sites[i].Type)
	}

	out.ISO14001.Automation = label(tr, prefixAutomation, app.ISO14001.Automation)

	categories := []*string{
		&out.ISO27001.Category1, &out.ISO27001.Category2, &out.ISO27001.Category3,
		&out.ISO27001.Category4, &out.ISO27001.Category5, &out.ISO27001.Category6,
	}
	for i, c := range categories {
		*c = label(tr, "iso27001.category"+strconv.Itoa(i+1)+".", *c)
	}

	out.ISO39001.ApplicableStatements = labels(tr, "", app.ISO39001.ApplicableStatements)

	// ISO 37001 site type is free text; only process names are labels.
	for i, site := range app.ISO37001.Sites {
		if site.Processes == nil {
			continue
		}
		processes := make(map[string]string, len(site.Processes))
		for name, count := range site.Processes {
			processes[label(tr, prefixProcess, name)] = count
		}
		out.ISO37001.Sites[i].Processes = processes
	}

	out.Transfer.ValidCertificate = label(tr, prefixYesNo, app.Transfer.ValidCertificate)
	out.Transfer.Documents = labels(tr, "", app.Transfer.Documents)
	out.Integrated.Statements = labels(tr, "", app.Integrated.Statements)

	schemes := make([]string, len(app.Standards))
	for i, id := range app.Standards {
		if s, ok := t.catalog.Lookup(lang, prefixScheme+id); ok {
			schemes[i] = s
		} else {
			schemes[i] = tr.T(keyUnknownScheme)
		}
	}

	return models.TranslatedApplication{Application: out, SelectedSchemes: schemes}
}

// label looks up prefix+value, falling back to value itself.
func label(tr i18n.Translator, prefix, value string) string {
	if value == "" {
		return value
	}
	if tr.Has(prefix + value) {
		return tr.T(prefix + value)
	}
	return value
}

func labels(tr i18n.Translator, prefix string, values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = label(tr, prefix, v)
	}
	return out
}
