package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedLocalesAreComplete(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Empty(t, c.Missing(), "bg and en must define the same keys")
}

func TestLoad_KnownEntries(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		lang Language
		key  string
		want string
	}{
		{BG, "validation.selectApplicationType", "Моля, изберете поне един вид на заявката!"},
		{EN, "validation.selectApplicationType", "Please select at least one application type!"},
		{BG, "validation.auditLanguage", "Моля, попълнете езика на одита!"},
		{EN, "validation.auditLanguage", "Please fill in the audit language!"},
		{BG, "schemes.iso9001", "СУК"},
		{EN, "schemes.iso9001", "QMS"},
		{BG, "unknown.scheme", "Неизвестна схема"},
		{EN, "unknown.scheme", "Unknown scheme"},
		{BG, "standards.iso27001", "ISO/IEC 27001:2022"},
		{BG, "standards.other", "Други"},
		{EN, "standards.other", "Other"},
		{BG, "form.submitButton", "Изпрати заявката"},
		{EN, "form.submitting", "Submitting..."},
		{BG, "application.transfer", "Трансфер"},
		{BG, "yes.no.yes", "Да"},
		{EN, "iso14001.automation.medium", "Medium"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang)+"/"+tt.key, func(t *testing.T) {
			got, ok := c.Lookup(tt.lang, tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_IdentityFallback(t *testing.T) {
	c := New(map[Language]map[string]string{
		BG: {"a": "А"},
		EN: {"a": "A"},
	})

	assert.Equal(t, "А", c.T(BG, "a"))
	assert.Equal(t, "missing.key", c.T(BG, "missing.key"))
	assert.Equal(t, "a", c.T("de", "a"), "unknown language falls back to the key")

	_, ok := c.Lookup(EN, "missing.key")
	assert.False(t, ok)
}

func TestCatalog_Missing(t *testing.T) {
	c := New(map[Language]map[string]string{
		BG: {"a": "А", "b": "Б"},
		EN: {"a": "A", "c": "C"},
	})

	missing := c.Missing()
	assert.Equal(t, []string{"c"}, missing[BG])
	assert.Equal(t, []string{"b"}, missing[EN])
}

func TestTranslator(t *testing.T) {
	tr := MustLoad().For(EN)
	assert.Equal(t, EN, tr.Lang)
	assert.Equal(t, "Submit Application", tr.T("form.submitButton"))
	assert.True(t, tr.Has("form.submitButton"))
	assert.False(t, tr.Has("nope"))
	assert.Equal(t, "nope", tr.T("nope"))
}

func TestLoadFS_Errors(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{
		"loc/bg.yaml": {Data: []byte("a: A\n")},
	}, "loc")
	assert.Error(t, err, "en locale is missing")

	_, err = LoadFS(fstest.MapFS{
		"loc/bg.yaml": {Data: []byte("a: [unclosed\n")},
		"loc/en.yaml": {Data: []byte("a: A\n")},
	}, "loc")
	assert.Error(t, err)
}

func TestParseLanguage(t *testing.T) {
	lang, ok := ParseLanguage(" EN ")
	assert.True(t, ok)
	assert.Equal(t, EN, lang)

	_, ok = ParseLanguage("de")
	assert.False(t, ok)
}
