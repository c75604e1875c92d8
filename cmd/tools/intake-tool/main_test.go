// cmd/tools/intake-tool/main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "certification-intake/internal/common/errors"
	"certification-intake/internal/models"
)

func writeApplication(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

const application = `{
	"applicationTypes": ["new"],
	"standards": ["iso9001", "iso27001"],
	"organizationName": "ACME",
	"auditLanguage": "English",
	"iso27001": {"category1": "critical"}
}`

func TestRun_Locales(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"locales"}, &out, &errOut)

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "Locale check passed.")
}

func TestRun_Translate(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"translate", "-file", writeApplication(t, application), "-lang", "en"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	var payload models.SubmissionPayload
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, []string{"ISO 9001:2015", "ISO/IEC 27001:2022"}, payload.SelectedStandards)
	assert.Equal(t, "ACME", payload.OrganizationName)
	assert.Len(t, payload.FormData.Sites, 1, "defaults of the empty form are kept")
}

func TestRun_Submit(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteJSON(w, http.StatusOK, apperrors.Envelope{Success: true, ID: "CERT-S-42"})
	}))
	defer relay.Close()

	var out, errOut bytes.Buffer
	code := run([]string{"submit", "-file", writeApplication(t, application), "-url", relay.URL}, &out, &errOut)

	assert.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "CERT-S-42")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"missing file flag", []string{"translate"}},
		{"bad language", []string{"translate", "-file", "x.json", "-lang", "de"}},
		{"unreadable file", []string{"translate", "-file", filepath.Join(os.TempDir(), "does-not-exist.json")}},
		{"validation failure", []string{"submit", "-file", "", "-url", "http://127.0.0.1:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			assert.Equal(t, 1, run(tt.args, &out, &errOut))
		})
	}
}
