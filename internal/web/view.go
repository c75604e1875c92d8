// internal/web/view.go
package web

import (
	"strconv"

	"certification-intake/internal/form"
	"certification-intake/internal/i18n"
	"certification-intake/internal/models"
)

// textField is one free-text input.
type textField struct {
	Name  string
	Label string
	Value string
}

// choiceGroup is a radio group with its selected value.
type choiceGroup struct {
	Name    string
	Label   string
	Options []form.Option
	Value   string
}

// siteRow is one certification site and the input names of its fields.
type siteRow struct {
	Index     int
	Prefix    string
	Site      models.Site
	Removable bool
}

// alert is the error box shown above the submit button.
type alert struct {
	Title string
	Lines []string
}

// page is everything the form template renders.
type page struct {
	tr i18n.Translator

	Lang      i18n.Language
	Languages []i18n.Language
	App       models.Application
	Show      form.Visibility

	ApplicationTypes     []form.Option
	Standards            []form.Option
	YesNo                []form.Option
	SiteTypes            []form.Option
	AuditLanguages       []form.Option
	AutomationLevels     []form.Option
	MultiSiteStatements  []form.Option
	IntegratedStatements []form.Option
	ISO39001Statements   []form.Option
	TransferDocuments    []form.Option

	Sites      []siteRow
	ISO45001   []textField
	ISO14001   []textField
	ISO27001   []choiceGroup
	Access     []textField
	ISO22000   []textField
	ISO39001   []textField
	Bribery    models.BriberySite
	Processes  []textField
	Transfer   []textField
	Automation choiceGroup

	Alert       *alert
	SubmittedID string
}

// T translates key in the page language.
func (p page) T(key string) string {
	return p.tr.T(key)
}

// ISO37001Title is the heading of the anti-bribery section for the selected
// edition.
func (p page) ISO37001Title() string {
	if p.Show.ISO37001_2025 && !p.Show.ISO37001 {
		return p.T("iso37001.title2025")
	}
	return p.T("iso37001.title")
}

func newPage(tr i18n.Translator, app models.Application) page {
	p := page{
		tr:        tr,
		Lang:      tr.Lang,
		Languages: i18n.Languages,
		App:       app,
		Show:      form.Sections(app),

		ApplicationTypes:     form.ApplicationTypes,
		Standards:            form.Standards,
		YesNo:                form.YesNo,
		SiteTypes:            form.SiteTypes,
		AuditLanguages:       form.AuditLanguages,
		AutomationLevels:     form.AutomationLevels,
		MultiSiteStatements:  form.MultiSiteStatements,
		IntegratedStatements: form.IntegratedStatements,
		ISO39001Statements:   form.ISO39001Statements,
		TransferDocuments:    form.TransferDocuments,
	}

	for i, s := range app.Sites {
		p.Sites = append(p.Sites, siteRow{
			Index:     i,
			Prefix:    "sites." + strconv.Itoa(i) + ".",
			Site:      s,
			Removable: i > 0,
		})
	}

	h := app.ISO45001
	p.ISO45001 = []textField{
		{"iso45001.hazards", "iso45001.question1", h.Hazards},
		{"iso45001.chemicals", "iso45001.question2", h.Chemicals},
		{"iso45001.installations", "iso45001.question3", h.Installations},
		{"iso45001.regulations", "iso45001.question4", h.Regulations},
		{"iso45001.offSitePersonnel", "iso45001.question5", h.OffSitePersonnel},
		{"iso45001.accidents", "iso45001.question6", h.Accidents},
		{"iso45001.lawsuits", "iso45001.question7", h.Lawsuits},
	}

	e := app.ISO14001
	p.ISO14001 = []textField{
		{"iso14001.aspects", "iso14001.question1", e.Aspects},
		{"iso14001.location", "iso14001.question2", e.Location},
		{"iso14001.requirements", "iso14001.question3", e.Requirements},
		{"iso14001.indirectAspects", "iso14001.question4", e.IndirectAspects},
		{"iso14001.risks", "iso14001.question5", e.Risks},
	}
	p.Automation = choiceGroup{
		Name:    "iso14001.automation",
		Label:   "iso14001.automation",
		Options: form.AutomationLevels,
		Value:   e.Automation,
	}

	s := app.ISO27001
	values := [6]string{s.Category1, s.Category2, s.Category3, s.Category4, s.Category5, s.Category6}
	for i, opts := range form.ISO27001Categories {
		name := "iso27001.category" + strconv.Itoa(i+1)
		p.ISO27001 = append(p.ISO27001, choiceGroup{Name: name, Label: name, Options: opts, Value: values[i]})
	}
	access := []string{s.Employees.ReadOnly, s.Employees.NoPhysicalAccess, s.Employees.LimitedAccess, s.Employees.FullAccessRestricted}
	for i, o := range form.ISO27001Access {
		p.Access = append(p.Access, textField{Name: "iso27001.employees." + o.Value, Label: o.Key, Value: access[i]})
	}

	f := app.ISO22000
	p.ISO22000 = []textField{
		{"iso22000.haccp", "iso22000.haccpPlans", f.HACCP},
		{"iso22000.products", "iso22000.description", f.Products},
		{"iso22000.automation", "iso22000.automation", f.Automation},
	}

	r := app.ISO39001
	p.ISO39001 = []textField{
		{"iso39001.requirements", "iso39001.requirements", r.Requirements},
		{"iso39001.nonApplicable", "iso39001.nonApplicable", r.NonApplicable},
		{"iso39001.accidents", "iso39001.accidents", r.Accidents},
	}

	if len(app.ISO37001.Sites) > 0 {
		p.Bribery = app.ISO37001.Sites[0]
	}
	for _, o := range form.SensitiveProcesses {
		p.Processes = append(p.Processes, textField{
			Name:  "iso37001.sites.0.processes." + o.Value,
			Label: o.Key,
			Value: p.Bribery.Processes[o.Value],
		})
	}

	t := app.Transfer
	p.Transfer = []textField{
		{"transfer.reasons", "transfer.reasons", t.Reasons},
		{"transfer.complaints", "transfer.complaints", t.Complaints},
		{"transfer.requirements", "transfer.requirements", t.Requirements},
	}

	return p
}
