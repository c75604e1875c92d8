// internal/web/handler_test.go
package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "certification-intake/internal/common/errors"
	httpclient "certification-intake/internal/common/http"
	"certification-intake/internal/common/logger"
	"certification-intake/internal/form"
	"certification-intake/internal/i18n"
	"certification-intake/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// relayStub answers /api/submit with a fixed status and envelope.
type relayStub struct {
	srv   *httptest.Server
	calls int32
	body  []byte
}

func newRelayStub(t *testing.T, status int, env apperrors.Envelope) *relayStub {
	rs := &relayStub{}
	rs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&rs.calls, 1)
		rs.body, _ = io.ReadAll(r.Body)
		apperrors.WriteJSON(w, status, env)
	}))
	t.Cleanup(rs.srv.Close)
	return rs
}

func newTestHandler(t *testing.T, relayURL string) *Handler {
	catalog := i18n.MustLoad()
	log := logger.NewTestLogger(t)
	submitter := form.NewSubmitter(httpclient.NewClient(2*time.Second), relayURL, form.NewTranslator(catalog), log)

	h, err := NewHandler(catalog, submitter, Config{DefaultLanguage: i18n.BG, PayloadLanguage: i18n.BG}, log)
	require.NoError(t, err)
	return h
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.Register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func postForm(h *Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(h, req)
}

func validForm() url.Values {
	return url.Values{
		"applicationTypes": {form.TypeNew},
		"standards":        {form.StdISO9001},
		"organizationName": {"ACME"},
		"eik":              {"123456789"},
		"auditLanguage":    {"Bulgarian"},
		"filledBy":         {"Ivan Petrov"},
		"sites.0.address":  {"Sofia"},
		"sites.0.type":     {models.SiteMain},
	}
}

// ==========================
// Rendering
// ==========================

func TestShow_DefaultLanguage(t *testing.T) {
	rec := serve(newTestHandler(t, ""), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Заявка за сертификация")
	assert.Contains(t, rec.Body.String(), `<html lang="bg">`)
}

func TestShow_LanguageFromQueryAndCookie(t *testing.T) {
	h := newTestHandler(t, "")

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	assert.Contains(t, rec.Body.String(), "Certification Application Form")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LanguageCookie, cookies[0].Name)
	assert.Equal(t, "en", cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: LanguageCookie, Value: "en"})
	rec = serve(h, req)
	assert.Contains(t, rec.Body.String(), "Certification Application Form")
}

func TestShow_UnknownLanguageFallsBack(t *testing.T) {
	rec := serve(newTestHandler(t, ""), httptest.NewRequest(http.MethodGet, "/?lang=de", nil))

	assert.Contains(t, rec.Body.String(), `<html lang="bg">`)
	assert.Empty(t, rec.Result().Cookies())
}

func TestShow_SubmittedNotice(t *testing.T) {
	rec := serve(newTestHandler(t, ""), httptest.NewRequest(http.MethodGet, "/?submitted=CERT-S-1700000000000", nil))

	assert.Contains(t, rec.Body.String(), `id="success"`)
	assert.Contains(t, rec.Body.String(), "CERT-S-1700000000000")
}

func TestShow_ConditionalSectionsHidden(t *testing.T) {
	body := serve(newTestHandler(t, ""), httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()

	for _, id := range []string{"other-standards", "multi-site", "iso45001", "iso14001", "iso27001", "iso22000", "iso39001", "iso37001", "transfer", "integrated"} {
		assert.Contains(t, body, `<section id="`+id+`" hidden>`, id)
	}
	assert.Contains(t, body, `<section id="organization">`)
}

// ==========================
// Form actions
// ==========================

func TestPost_RefreshShowsSelectedSections(t *testing.T) {
	values := validForm()
	values["standards"] = []string{form.StdISO45001, form.StdOther}
	values["applicationTypes"] = []string{form.TypeTransfer}
	values.Set("action", "refresh")

	rec := postForm(newTestHandler(t, ""), values)
	body := rec.Body.String()

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `<section id="iso45001" >`)
	assert.Contains(t, body, `<section id="other-standards" >`)
	assert.Contains(t, body, `<section id="transfer" >`)
	assert.Contains(t, body, `<section id="integrated" >`)
	assert.Contains(t, body, `<section id="iso14001" hidden>`)
	assert.Contains(t, body, `value="ACME"`)
}

func TestPost_AddAndRemoveSite(t *testing.T) {
	h := newTestHandler(t, "")

	values := validForm()
	values.Set("action", "add-site")
	body := postForm(h, values).Body.String()

	assert.Contains(t, body, `id="site-1"`)
	assert.Contains(t, body, `<section id="multi-site" >`)
	assert.Contains(t, body, `value="remove-site:1"`)
	assert.NotContains(t, body, `value="remove-site:0"`)

	values.Set("sites.1.address", "Plovdiv")
	values.Set("action", "remove-site:1")
	body = postForm(h, values).Body.String()

	assert.NotContains(t, body, `id="site-1"`)
	assert.NotContains(t, body, "Plovdiv")
	assert.Contains(t, body, `<section id="multi-site" hidden>`)
}

func TestPost_RemoveMainSiteIgnored(t *testing.T) {
	values := validForm()
	values.Set("action", "remove-site:0")
	body := postForm(newTestHandler(t, ""), values).Body.String()

	assert.Contains(t, body, `id="site-0"`)
	assert.Contains(t, body, `value="Sofia"`)
}

func TestPost_SwitchLanguageKeepsValues(t *testing.T) {
	values := validForm()
	values.Set("action", "language:en")
	rec := postForm(newTestHandler(t, ""), values)

	assert.Contains(t, rec.Body.String(), "Certification Application Form")
	assert.Contains(t, rec.Body.String(), `value="ACME"`)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "en", rec.Result().Cookies()[0].Value)
}

func TestSetLanguage(t *testing.T) {
	h := newTestHandler(t, "")

	req := httptest.NewRequest(http.MethodPost, "/language", strings.NewReader("lang=en"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(h, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "en", rec.Result().Cookies()[0].Value)

	req = httptest.NewRequest(http.MethodPost, "/language", strings.NewReader("lang=xx"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, serve(h, req).Code)
}

// ==========================
// Submission
// ==========================

func TestSubmit_Success(t *testing.T) {
	relay := newRelayStub(t, http.StatusOK, apperrors.Envelope{Success: true, Message: "ok", ID: "CERT-S-1700000000000"})

	values := validForm()
	values.Set("action", "submit")
	rec := postForm(newTestHandler(t, relay.srv.URL), values)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "CERT-S-1700000000000", loc.Query().Get("submitted"))
	assert.Equal(t, "bg", loc.Query().Get("lang"))

	var payload models.SubmissionPayload
	require.NoError(t, json.Unmarshal(relay.body, &payload))
	assert.Equal(t, []string{"Нова сертификация"}, payload.ApplicationTypes)
	assert.Equal(t, []string{"ISO 9001:2015"}, payload.SelectedStandards)
	assert.Equal(t, "ACME", payload.OrganizationName)
	assert.Equal(t, "Ivan Petrov", payload.FilledBy)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(url.Values)
		message string
	}{
		{
			name:    "no application type",
			mutate:  func(v url.Values) { v.Del("applicationTypes") },
			message: "Моля, изберете поне един вид на заявката!",
		},
		{
			name:    "no audit language",
			mutate:  func(v url.Values) { v.Set("auditLanguage", "  ") },
			message: "Моля, попълнете езика на одита!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := newRelayStub(t, http.StatusOK, apperrors.Envelope{Success: true})
			values := validForm()
			tt.mutate(values)
			values.Set("action", "submit")

			rec := postForm(newTestHandler(t, relay.srv.URL), values)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Contains(t, rec.Body.String(), `value="ACME"`)
			assert.Zero(t, atomic.LoadInt32(&relay.calls))
		})
	}
}

func TestSubmit_Rejected(t *testing.T) {
	relay := newRelayStub(t, http.StatusBadGateway, apperrors.Envelope{Success: false, Message: "Webhook failed: Internal Server Error"})

	values := validForm()
	values.Set("action", "submit")
	values.Set("lang", "en")
	rec := postForm(newTestHandler(t, relay.srv.URL), values)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "There was a problem submitting your application.")
	assert.Contains(t, body, "Webhook failed: Internal Server Error")
	assert.Contains(t, body, "Please try again or contact us.")
	assert.Contains(t, body, `value="ACME"`, "form values are kept for retry")
}

func TestSubmit_Network(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	relayURL := srv.URL
	srv.Close()

	values := validForm()
	values.Set("action", "submit")
	values.Set("lang", "en")
	rec := postForm(newTestHandler(t, relayURL), values)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "No connection to server.")
	assert.Contains(t, rec.Body.String(), "Please check your internet connection and try again.")
}

func TestSubmit_DestinationUnreachable(t *testing.T) {
	relay := newRelayStub(t, http.StatusServiceUnavailable, apperrors.Envelope{Success: false, Message: apperrors.MsgUpstreamUnreachable})

	values := validForm()
	values.Set("action", "submit")
	values.Set("lang", "en")
	rec := postForm(newTestHandler(t, relay.srv.URL), values)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "No connection to server.")
	assert.Contains(t, rec.Body.String(), `value="ACME"`)
}
