// internal/form/state.go
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"certification-intake/internal/models"
)

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrSiteOutOfRange   = errors.New("site index out of range")
	ErrUnknownSet       = errors.New("unknown statement set")
	ErrSiteNotRemovable = errors.New("site cannot be removed")
)

// Action is one user interaction applied by the reducer.
type Action interface {
	apply(app *models.Application) error
}

// New returns the empty application: one main site, one empty ISO 37001
// site and no selections.
func New() models.Application {
	return models.Application{
		ApplicationTypes:    []string{},
		Standards:           []string{},
		Sites:               []models.Site{{Type: models.SiteMain}},
		MultiSiteManagement: []string{},
		ISO39001:            models.ISO39001{ApplicableStatements: []string{}},
		ISO37001: models.ISO37001{
			Sites: []models.BriberySite{{Processes: map[string]string{}}},
		},
		Transfer:   models.Transfer{Documents: []string{}},
		Integrated: models.Integrated{Statements: []string{}},
	}
}

// Apply returns app with action applied. Rejected actions leave the value
// unchanged. app itself is never modified.
func Apply(app models.Application, action Action) models.Application {
	next, err := ApplyE(app, action)
	if err != nil {
		return app
	}
	return next
}

// ApplyE is Apply reporting why an action was rejected.
func ApplyE(app models.Application, action Action) (models.Application, error) {
	next := Clone(app)
	if err := action.apply(&next); err != nil {
		return app, err
	}
	return next, nil
}

// ApplyAll folds actions over app, skipping rejected ones.
func ApplyAll(app models.Application, actions ...Action) models.Application {
	for _, a := range actions {
		app = Apply(app, a)
	}
	return app
}

// Clone deep-copies every slice and map of app.
func Clone(app models.Application) models.Application {
	out := app
	out.ApplicationTypes = cloneStrings(app.ApplicationTypes)
	out.Standards = cloneStrings(app.Standards)
	out.MultiSiteManagement = cloneStrings(app.MultiSiteManagement)
	out.ISO39001.ApplicableStatements = cloneStrings(app.ISO39001.ApplicableStatements)
	out.Transfer.Documents = cloneStrings(app.Transfer.Documents)
	out.Integrated.Statements = cloneStrings(app.Integrated.Statements)

	if app.Sites != nil {
		out.Sites = append([]models.Site(nil), app.Sites...)
	}
	if app.ISO37001.Sites != nil {
		out.ISO37001.Sites = make([]models.BriberySite, len(app.ISO37001.Sites))
		for i, s := range app.ISO37001.Sites {
			s.Processes = cloneMap(s.Processes)
			out.ISO37001.Sites[i] = s
		}
	}
	return out
}

// SetField sets one string field addressed by its dotted JSON path, e.g.
// "iso27001.employees.readOnly" or "iso37001.sites.0.processes.tendering".
type SetField struct {
	Path  string
	Value string
}

func (a SetField) apply(app *models.Application) error {
	if a.Path == "" {
		return fmt.Errorf("%w: empty path", ErrUnknownField)
	}
	if err := setPath(reflect.ValueOf(app).Elem(), strings.Split(a.Path, "."), a.Value); err != nil {
		return fmt.Errorf("%w: %s", err, a.Path)
	}
	return nil
}

// ToggleStandard selects or deselects a standard. Selecting one of the
// ISO 37001 editions removes the other.
type ToggleStandard struct {
	ID       string
	Selected bool
}

func (a ToggleStandard) apply(app *models.Application) error {
	if a.Selected {
		if other, ok := exclusive[a.ID]; ok {
			app.Standards = toggle(app.Standards, other, false)
		}
	}
	app.Standards = toggle(app.Standards, a.ID, a.Selected)
	return nil
}

type ToggleApplicationType struct {
	Value   string
	Checked bool
}

func (a ToggleApplicationType) apply(app *models.Application) error {
	app.ApplicationTypes = toggle(app.ApplicationTypes, a.Value, a.Checked)
	return nil
}

type ToggleMultiSite struct {
	Value   string
	Checked bool
}

func (a ToggleMultiSite) apply(app *models.Application) error {
	app.MultiSiteManagement = toggle(app.MultiSiteManagement, a.Value, a.Checked)
	return nil
}

// ToggleStatement adds or removes a statement in one of the checklist sets:
// SetIntegrated, SetISO39001 or SetTransfer.
type ToggleStatement struct {
	Set     string
	Value   string
	Checked bool
}

func (a ToggleStatement) apply(app *models.Application) error {
	switch a.Set {
	case SetIntegrated:
		app.Integrated.Statements = toggle(app.Integrated.Statements, a.Value, a.Checked)
	case SetISO39001:
		app.ISO39001.ApplicableStatements = toggle(app.ISO39001.ApplicableStatements, a.Value, a.Checked)
	case SetTransfer:
		app.Transfer.Documents = toggle(app.Transfer.Documents, a.Value, a.Checked)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSet, a.Set)
	}
	return nil
}

// AddSite appends an additional site.
type AddSite struct{}

func (AddSite) apply(app *models.Application) error {
	app.Sites = append(app.Sites, models.Site{Type: models.SiteAdditional})
	return nil
}

// RemoveSite removes a site other than the first.
type RemoveSite struct {
	Index int
}

func (a RemoveSite) apply(app *models.Application) error {
	if a.Index == 0 {
		return ErrSiteNotRemovable
	}
	if a.Index < 0 || a.Index >= len(app.Sites) {
		return fmt.Errorf("%w: %d", ErrSiteOutOfRange, a.Index)
	}
	app.Sites = append(app.Sites[:a.Index], app.Sites[a.Index+1:]...)
	return nil
}

// UpdateSite sets one field (address, processes, employees, type) of a site.
type UpdateSite struct {
	Index int
	Field string
	Value string
}

func (a UpdateSite) apply(app *models.Application) error {
	if a.Index < 0 || a.Index >= len(app.Sites) {
		return fmt.Errorf("%w: %d", ErrSiteOutOfRange, a.Index)
	}
	site := &app.Sites[a.Index]
	switch a.Field {
	case "address":
		site.Address = a.Value
	case "processes":
		site.Processes = a.Value
	case "employees":
		site.Employees = a.Value
	case "type":
		site.Type = a.Value
	default:
		return fmt.Errorf("%w: sites.%d.%s", ErrUnknownField, a.Index, a.Field)
	}
	return nil
}

// UpdateBriberyProcess sets the headcount of one sensitive process on an
// ISO 37001 site, creating empty site rows up to Site when needed.
type UpdateBriberyProcess struct {
	Site    int
	Process string
	Count   string
}

func (a UpdateBriberyProcess) apply(app *models.Application) error {
	if a.Site < 0 {
		return fmt.Errorf("%w: %d", ErrSiteOutOfRange, a.Site)
	}
	if a.Process == "" {
		return fmt.Errorf("%w: empty process", ErrUnknownField)
	}
	for len(app.ISO37001.Sites) <= a.Site {
		app.ISO37001.Sites = append(app.ISO37001.Sites, models.BriberySite{})
	}
	site := &app.ISO37001.Sites[a.Site]
	if site.Processes == nil {
		site.Processes = map[string]string{}
	}
	site.Processes[a.Process] = a.Count
	return nil
}

// toggle returns a copy of set with value added (once) or removed.
func toggle(set []string, value string, on bool) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == value {
			if !on || found {
				continue
			}
			found = true
		}
		out = append(out, s)
	}
	if on && !found {
		out = append(out, value)
	}
	return out
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// setPath walks v by JSON field names and slice indexes and stores value in
// the string field, or map entry, the path ends at.
func setPath(v reflect.Value, path []string, value string) error {
	seg := path[0]
	rest := path[1:]

	switch v.Kind() {
	case reflect.Struct:
		f, ok := fieldByJSONName(v, seg)
		if !ok {
			return ErrUnknownField
		}
		if len(rest) == 0 {
			if f.Kind() != reflect.String {
				return ErrUnknownField
			}
			f.SetString(value)
			return nil
		}
		return setPath(f, rest, value)

	case reflect.Slice:
		i, err := strconv.Atoi(seg)
		if err != nil || len(rest) == 0 {
			return ErrUnknownField
		}
		if i < 0 || i >= v.Len() {
			return ErrSiteOutOfRange
		}
		return setPath(v.Index(i), rest, value)

	case reflect.Map:
		if len(rest) != 0 || v.Type().Elem().Kind() != reflect.String {
			return ErrUnknownField
		}
		if v.IsNil() {
			v.Set(reflect.MakeMap(v.Type()))
		}
		v.SetMapIndex(reflect.ValueOf(seg), reflect.ValueOf(value))
		return nil
	}
	return ErrUnknownField
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
