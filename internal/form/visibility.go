// internal/form/visibility.go
package form

import "certification-intake/internal/models"

// Visibility holds every conditional-section flag for one render.
type Visibility struct {
	OtherStandards bool
	MultiSite      bool
	Transfer       bool
	Integrated     bool
	ISO45001       bool
	ISO14001       bool
	ISO27001       bool
	ISO22000       bool
	ISO39001       bool
	ISO37001       bool
	ISO37001_2025  bool
}

func ShowOtherStandards(app models.Application) bool {
	return contains(app.Standards, StdOther)
}

func HasMultipleSites(app models.Application) bool {
	return len(app.Sites) > 1
}

// ShowMultiSite gates the multi-site management statements.
func ShowMultiSite(app models.Application) bool {
	return HasMultipleSites(app)
}

// ShowStandardSection reports whether the questionnaire of standard id is
// shown. Standards without a questionnaire are never shown.
func ShowStandardSection(app models.Application, id string) bool {
	return standardSections[id] && contains(app.Standards, id)
}

func ShowTransfer(app models.Application) bool {
	return contains(app.ApplicationTypes, TypeTransfer)
}

func ShowIntegrated(app models.Application) bool {
	return len(app.Standards) > 1
}

// Sections evaluates all predicates at once.
func Sections(app models.Application) Visibility {
	return Visibility{
		OtherStandards: ShowOtherStandards(app),
		MultiSite:      ShowMultiSite(app),
		Transfer:       ShowTransfer(app),
		Integrated:     ShowIntegrated(app),
		ISO45001:       ShowStandardSection(app, StdISO45001),
		ISO14001:       ShowStandardSection(app, StdISO14001),
		ISO27001:       ShowStandardSection(app, StdISO27001),
		ISO22000:       ShowStandardSection(app, StdISO22000),
		ISO39001:       ShowStandardSection(app, StdISO39001),
		ISO37001:       ShowStandardSection(app, StdISO37001),
		ISO37001_2025:  ShowStandardSection(app, StdISO37001_25),
	}
}
