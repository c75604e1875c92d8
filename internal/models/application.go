// internal/models/application.go
package models

// Site types.
const (
	SiteMain       = "main"
	SiteAdditional = "additional"
)

// Application is the certification application held by the form.
// Enumerated fields store stable keys; Translate turns them into labels.
type Application struct {
	ApplicationTypes       []string `json:"applicationTypes"`
	OrganizationName       string   `json:"organizationName"`
	EIK                    string   `json:"eik"`
	Country                string   `json:"country"`
	ContactPersonName      string   `json:"contactPersonName"`
	ContactPersonPosition  string   `json:"contactPersonPosition"`
	Email                  string   `json:"email"`
	Phone                  string   `json:"phone"`
	AdditionalInfo         string   `json:"additionalInfo"`
	Standards              []string `json:"standards"`
	CertificationScope     string   `json:"certificationScope"`
	Sites                  []Site   `json:"sites"`
	MultiSiteManagement    []string `json:"multiSiteManagement"`
	OutsourcedProcesses    string   `json:"outsourcedProcesses"`
	ConsultantServices     string   `json:"consultantServices"`
	RegulatoryRequirements string   `json:"regulatoryRequirements"`
	DevelopNewProducts     string   `json:"developNewProducts"`
	ManufactureProducts    string   `json:"manufactureProducts"`
	OtherCertifications    string   `json:"otherCertifications"`
	AuditLanguage          string   `json:"auditLanguage"`
	AuditDeadline          string   `json:"auditDeadline"`
	FilledBy               string   `json:"filledBy"`

	ISO45001   ISO45001   `json:"iso45001"`
	ISO14001   ISO14001   `json:"iso14001"`
	ISO27001   ISO27001   `json:"iso27001"`
	ISO22000   ISO22000   `json:"iso22000"`
	ISO39001   ISO39001   `json:"iso39001"`
	ISO37001   ISO37001   `json:"iso37001"`
	Transfer   Transfer   `json:"transfer"`
	Integrated Integrated `json:"integrated"`
}

// Site is one location in the certification scope.
type Site struct {
	Address   string `json:"address"`
	Processes string `json:"processes"`
	Employees string `json:"employees"`
	Type      string `json:"type"`
}

// ISO45001 is the occupational health and safety questionnaire.
type ISO45001 struct {
	Hazards          string `json:"hazards"`
	Chemicals        string `json:"chemicals"`
	Installations    string `json:"installations"`
	Regulations      string `json:"regulations"`
	OffSitePersonnel string `json:"offSitePersonnel"`
	Accidents        string `json:"accidents"`
	Lawsuits         string `json:"lawsuits"`
}

// ISO14001 is the environmental management questionnaire.
type ISO14001 struct {
	Aspects         string `json:"aspects"`
	Location        string `json:"location"`
	Requirements    string `json:"requirements"`
	IndirectAspects string `json:"indirectAspects"`
	Risks           string `json:"risks"`
	Automation      string `json:"automation"`
}

// ISO27001 is the information security questionnaire.
type ISO27001 struct {
	Category1 string              `json:"category1"`
	Category2 string              `json:"category2"`
	Category3 string              `json:"category3"`
	Category4 string              `json:"category4"`
	Category5 string              `json:"category5"`
	Category6 string              `json:"category6"`
	Employees ISO27001Employees   `json:"employees"`
}

// ISO27001Employees holds the four access-category headcounts.
type ISO27001Employees struct {
	ReadOnly             string `json:"readOnly"`
	NoPhysicalAccess     string `json:"noPhysicalAccess"`
	LimitedAccess        string `json:"limitedAccess"`
	FullAccessRestricted string `json:"fullAccessRestricted"`
}

// ISO22000 is the food safety questionnaire.
type ISO22000 struct {
	HACCP      string `json:"haccp"`
	Products   string `json:"products"`
	Automation string `json:"automation"`
}

// ISO39001 is the road traffic safety questionnaire.
type ISO39001 struct {
	ApplicableStatements []string `json:"applicableStatements"`
	Requirements         string   `json:"requirements"`
	NonApplicable        string   `json:"nonApplicable"`
	Accidents            string   `json:"accidents"`
}

// ISO37001 is the anti-bribery questionnaire.
type ISO37001 struct {
	ProcessesOutOfScope string        `json:"processesOutOfScope"`
	Countries           string        `json:"countries"`
	Requirements        string        `json:"requirements"`
	Sites               []BriberySite `json:"sites"`
	LowRiskEmployees    string        `json:"lowRiskEmployees"`
	ControlledEntities  string        `json:"controlledEntities"`
	ControllingEntities string        `json:"controllingEntities"`
	Investigations      string        `json:"investigations"`
	PublicRevenue       string        `json:"publicRevenue"`
	AdditionalInfo      string        `json:"additionalInfo"`
}

// BriberySite maps sensitive process names to headcounts for one site.
type BriberySite struct {
	Address        string            `json:"address"`
	Type           string            `json:"type"`
	TotalEmployees string            `json:"totalEmployees"`
	Processes      map[string]string `json:"processes"`
}

// Transfer holds the certificate transfer block.
type Transfer struct {
	ValidCertificate string   `json:"validCertificate"`
	Reasons          string   `json:"reasons"`
	Complaints       string   `json:"complaints"`
	Requirements     string   `json:"requirements"`
	Documents        []string `json:"documents"`
}

// Integrated holds the integrated management system statements.
type Integrated struct {
	Statements []string `json:"statements"`
}

// TranslatedApplication is an Application whose enumerated values have been
// replaced by display labels, plus one scheme code per standard.
type TranslatedApplication struct {
	Application
	SelectedSchemes []string `json:"selectedSchemes"`
}

// SubmissionPayload is the body the form POSTs to the relay.
type SubmissionPayload struct {
	FormData          TranslatedApplication `json:"formData"`
	SelectedStandards []string              `json:"selectedStandards"`
	ApplicationTypes  []string              `json:"applicationTypes"`
	FilledBy          string                `json:"filledBy"`
	OrganizationName  string                `json:"organizationName"`
	EIK               string                `json:"eik"`
}
