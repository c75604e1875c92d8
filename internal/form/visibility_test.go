// internal/form/visibility_test.go
package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSections(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		want    Visibility
	}{
		{
			name: "empty form",
			want: Visibility{},
		},
		{
			name:    "single standard shows its questionnaire only",
			actions: []Action{ToggleStandard{ID: StdISO45001, Selected: true}},
			want:    Visibility{ISO45001: true},
		},
		{
			name: "two standards show integrated",
			actions: []Action{
				ToggleStandard{ID: StdISO9001, Selected: true},
				ToggleStandard{ID: StdISO27001, Selected: true},
			},
			want: Visibility{Integrated: true, ISO27001: true},
		},
		{
			name:    "other",
			actions: []Action{ToggleStandard{ID: StdOther, Selected: true}},
			want:    Visibility{OtherStandards: true},
		},
		{
			name:    "second site shows multi-site",
			actions: []Action{AddSite{}},
			want:    Visibility{MultiSite: true},
		},
		{
			name:    "transfer type",
			actions: []Action{ToggleApplicationType{Value: TypeTransfer, Checked: true}},
			want:    Visibility{Transfer: true},
		},
		{
			name: "37001 editions",
			actions: []Action{
				ToggleStandard{ID: StdISO37001, Selected: true},
				ToggleStandard{ID: StdISO37001_25, Selected: true},
			},
			want: Visibility{ISO37001_2025: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sections(ApplyAll(New(), tt.actions...)))
		})
	}
}

func TestSections_DependOnlyOnState(t *testing.T) {
	a := ApplyAll(New(),
		AddSite{}, AddSite{}, RemoveSite{Index: 2},
		ToggleStandard{ID: StdISO9001, Selected: true},
		ToggleStandard{ID: StdISO14001, Selected: true},
		ToggleStandard{ID: StdISO9001, Selected: false},
	)
	b := ApplyAll(New(),
		AddSite{},
		ToggleStandard{ID: StdISO14001, Selected: true},
	)

	assert.Equal(t, Sections(a), Sections(b))
	assert.False(t, ShowIntegrated(a))
	assert.True(t, HasMultipleSites(a))
}

func TestShowStandardSection_NoQuestionnaire(t *testing.T) {
	app := Apply(New(), ToggleStandard{ID: StdISO9001, Selected: true})
	assert.False(t, ShowStandardSection(app, StdISO9001))
}
