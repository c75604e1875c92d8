// internal/form/catalog.go
package form

import (
	"strconv"

	"certification-intake/internal/models"
)

// Option is one selectable value and the locale key of its label.
type Option struct {
	Value string
	Key   string
}

// Standard ids.
const (
	StdISO9001     = "iso9001"
	StdISO22000    = "iso22000"
	StdISO45001    = "iso45001"
	StdISO39001    = "iso39001"
	StdISO14001    = "iso14001"
	StdISO27001    = "iso27001"
	StdISO37001    = "iso37001"
	StdISO37001_25 = "iso37001_2025"
	StdOther       = "other"
)

// Application type keys.
const (
	TypeNew      = "new"
	TypeChange   = "change"
	TypeRenewal  = "renewal"
	TypeTransfer = "transfer"
)

// Statement sets addressed by ToggleStatement.
const (
	SetIntegrated = "integrated"
	SetISO39001   = "iso39001"
	SetTransfer   = "transfer.documents"
)

// Locale key prefixes used when translating enumerated values.
const (
	prefixStandard   = "standards."
	prefixScheme     = "schemes."
	prefixAppType    = "application."
	prefixYesNo      = "yes.no."
	prefixAutomation = "iso14001.automation."
	prefixSiteType   = "certification."
	prefixLanguage   = "language."
	prefixProcess    = "processes."
	keyUnknownScheme = "unknown.scheme"
)

// Standards in display order.
var Standards = options(prefixStandard,
	StdISO9001, StdISO22000, StdISO45001, StdISO39001, StdISO14001,
	StdISO27001, StdISO37001, StdISO37001_25, StdOther)

// exclusive pairs standards that cannot be selected together.
var exclusive = map[string]string{
	StdISO37001:    StdISO37001_25,
	StdISO37001_25: StdISO37001,
}

// standardSections are the standards that own a questionnaire block.
var standardSections = map[string]bool{
	StdISO45001: true, StdISO14001: true, StdISO27001: true, StdISO22000: true,
	StdISO39001: true, StdISO37001: true, StdISO37001_25: true,
}

var ApplicationTypes = options(prefixAppType, TypeNew, TypeChange, TypeRenewal, TypeTransfer)

var YesNo = options(prefixYesNo, "yes", "no")

var AutomationLevels = options(prefixAutomation, "low", "medium", "high")

var SiteTypes = options(prefixSiteType, models.SiteMain, models.SiteAdditional)

// AuditLanguages are suggestions; the audit language field stays free text.
var AuditLanguages = options(prefixLanguage, "bulgarian", "english")

// Checklist values are their own locale keys.
var (
	MultiSiteStatements  = numbered("multiSite.option", 7)
	IntegratedStatements = numbered("integrated.statement", 7)
	ISO39001Statements   = numbered("iso39001.statement", 4)
	TransferDocuments    = numbered("transfer.doc", 5)
)

// SensitiveProcesses are the ISO 37001 process rows, in display order.
var SensitiveProcesses = options(prefixProcess,
	"strategicManagement", "salesOffering", "financialManagement", "humanResources",
	"operationalControl", "cashHandling", "distributionManagement", "benefitsGifts",
	"tendering", "institutionalContact", "supplierManagement", "internalAudit",
	"itServices", "sponsorship", "licenses", "physicalSecurity",
	"licenseIssuance", "complaints")

// ISO27001Categories lists the three choices of each of the six categories.
var ISO27001Categories = [6][]Option{
	options("iso27001.category1.", "non-critical", "serves-critical", "critical"),
	options("iso27001.category2.", "standard-repetitive", "standard-non-repetitive", "complex"),
	options("iso27001.category3.", "mature", "partial", "new"),
	options("iso27001.category4.", "simple", "moderate", "complex-it"),
	options("iso27001.category5.", "minimal", "moderate", "high"),
	options("iso27001.category6.", "minimal", "moderate", "extensive"),
}

// ISO27001Access maps employee-count fields to their label keys.
var ISO27001Access = []Option{
	{Value: "readOnly", Key: "iso27001.access.readonly"},
	{Value: "noPhysicalAccess", Key: "iso27001.access.nophysical"},
	{Value: "limitedAccess", Key: "iso27001.access.limited"},
	{Value: "fullAccessRestricted", Key: "iso27001.access.full"},
}

func options(prefix string, values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Key: prefix + v}
	}
	return out
}

func numbered(prefix string, n int) []Option {
	out := make([]Option, n)
	for i := range out {
		key := prefix + strconv.Itoa(i+1)
		out[i] = Option{Value: key, Key: key}
	}
	return out
}
