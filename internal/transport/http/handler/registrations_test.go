package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/email-access-policy/internal/application/registration"
	"github.com/email-access-policy/internal/config"
	"github.com/email-access-policy/internal/domain"
	"github.com/email-access-policy/internal/infrastructure/memory"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockRegistrationSvc struct{ mock.Mock }

func (m *mockRegistrationSvc) Register(ctx context.Context, email string, autoWhitelist bool) domain.RegistrationResult {
	return m.Called(ctx, email, autoWhitelist).Get(0).(domain.RegistrationResult)
}

func (m *mockRegistrationSvc) SubmitAppeal(ctx context.Context, input domain.AppealInput) (*domain.Appeal, error) {
	args := m.Called(ctx, input)
	if a, _ := args.Get(0).(*domain.Appeal); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistrationSvc) GetAppeal(ctx context.Context, appealID string) (*domain.Appeal, error) {
	args := m.Called(ctx, appealID)
	if a, _ := args.Get(0).(*domain.Appeal); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistrationSvc) ListAppeals(ctx context.Context) ([]domain.Appeal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Appeal), args.Error(1)
}

func (m *mockRegistrationSvc) Whitelist(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockRegistrationSvc) Check(ctx context.Context, email string) domain.PolicyCheck {
	return m.Called(ctx, email).Get(0).(domain.PolicyCheck)
}

// --- helpers ---

func newRegistrationHandler() *RegistrationHandler {
	svc := registration.NewService(registration.ServiceDeps{
		Policy: memory.NewPolicyStore(config.DefaultPolicy()),
		Users:  memory.NewUserRepo(),
	})
	return NewRegistrationHandler(svc, "https://cursor.com/support")
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func postRegister(h *RegistrationHandler, body *bytes.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/registrations", body)
	rr := httptest.NewRecorder()
	h.Register(rr, req)
	return rr
}

// --- Register ---

func TestRegister_CreatedThenAlreadyExists(t *testing.T) {
	h := newRegistrationHandler()

	rr := postRegister(h, jsonBody(t, map[string]string{"email": "user@gmail.com"}))
	assert.Equal(t, http.StatusCreated, rr.Code)
	var res domain.RegistrationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.Success)

	rr = postRegister(h, jsonBody(t, map[string]string{"email": "user@gmail.com"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, domain.RegistrationAlreadyExists, res.Kind())
}

func TestRegister_BlockedReturnsAppealID(t *testing.T) {
	h := newRegistrationHandler()

	rr := postRegister(h, jsonBody(t, map[string]string{"email": "user@tempmail.com"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	var res domain.RegistrationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, domain.RegistrationBlockedEmail, res.Kind())
	assert.NotEmpty(t, res.AppealID)
	assert.Contains(t, res.Message, res.AppealID)
}

func TestRegister_AutoWhitelistDefaultsToTrue(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Register", mock.Anything, "a@newcompany.com", true).
		Return(domain.RegistrationResult{Success: true, Message: "ok"}).Once()
	svc.On("Register", mock.Anything, "b@newcompany.com", false).
		Return(domain.RegistrationResult{Success: true, Message: "ok"}).Once()
	h := NewRegistrationHandler(svc, "")

	assert.Equal(t, http.StatusCreated, postRegister(h, jsonBody(t, map[string]interface{}{"email": "a@newcompany.com"})).Code)
	assert.Equal(t, http.StatusCreated, postRegister(h, jsonBody(t, map[string]interface{}{"email": "b@newcompany.com", "auto_whitelist": false})).Code)
	svc.AssertExpectations(t)
}

func TestRegister_InternalFailureIs500(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Register", mock.Anything, "user@gmail.com", true).
		Return(domain.RegistrationResult{Message: "An error occurred: boom"})
	h := NewRegistrationHandler(svc, "")

	rr := postRegister(h, jsonBody(t, map[string]string{"email": "user@gmail.com"}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":null`)
}

func TestRegister_BadBody(t *testing.T) {
	h := newRegistrationHandler()
	assert.Equal(t, http.StatusBadRequest, postRegister(h, bytes.NewReader([]byte("{"))).Code)
}

func TestRegister_EmptyEmailIsInvalidEmailResult(t *testing.T) {
	h := newRegistrationHandler()
	for _, body := range []map[string]string{{}, {"email": ""}} {
		rr := postRegister(h, jsonBody(t, body))
		assert.Equal(t, http.StatusOK, rr.Code)
		var res domain.RegistrationResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.False(t, res.Success)
		assert.Equal(t, domain.RegistrationInvalidEmail, res.Kind())
		assert.NotEmpty(t, res.Message)
	}
}

func TestRegister_InvalidSyntaxIsAResult(t *testing.T) {
	h := newRegistrationHandler()
	rr := postRegister(h, jsonBody(t, map[string]string{"email": "invalid.email"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	var res domain.RegistrationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, domain.RegistrationInvalidEmail, res.Kind())
}

// --- Check ---

func TestCheck_BlockedIncludesSupportHints(t *testing.T) {
	h := newRegistrationHandler()
	req := httptest.NewRequest(http.MethodGet, "/v1/policy/check?email=user@tempmail.com", nil)
	rr := httptest.NewRecorder()
	h.Check(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var check domain.PolicyCheck
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
	assert.True(t, check.Blocked)
	assert.Equal(t, "https://cursor.com/support", check.SupportURL)
	assert.Len(t, check.Alternatives, len(defaultAlternatives))
}

func TestCheck_AllowedOmitsSupportHints(t *testing.T) {
	h := newRegistrationHandler()
	req := httptest.NewRequest(http.MethodGet, "/v1/policy/check?email=user@gmail.com", nil)
	rr := httptest.NewRecorder()
	h.Check(rr, req)

	var check domain.PolicyCheck
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
	assert.True(t, check.Whitelisted)
	assert.Empty(t, check.SupportURL)
	assert.Empty(t, check.Alternatives)
}

func TestCheck_MissingEmail(t *testing.T) {
	rr := httptest.NewRecorder()
	newRegistrationHandler().Check(rr, httptest.NewRequest(http.MethodGet, "/v1/policy/check", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- appeals ---

func TestSubmitAppeal_CreatedAndListed(t *testing.T) {
	h := newRegistrationHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/appeals", jsonBody(t, domain.AppealInput{
		Email: "user@tempmail.com", Reason: "This is my only address",
	}))
	rr := httptest.NewRecorder()
	h.SubmitAppeal(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	var appeal domain.Appeal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &appeal))
	assert.Equal(t, domain.AppealStatusPending, appeal.Status)

	rr = httptest.NewRecorder()
	h.ListAppeals(rr, httptest.NewRequest(http.MethodGet, "/v1/admin/appeals", nil))
	var env AppealsEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, 1, env.Total)

	r := chi.NewRouter()
	r.Get("/v1/admin/appeals/{id}", h.GetAppeal)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/admin/appeals/"+appeal.AppealID, nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/admin/appeals/APP_missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubmitAppeal_ValidationFailure(t *testing.T) {
	h := newRegistrationHandler()
	req := httptest.NewRequest(http.MethodPost, "/v1/appeals", jsonBody(t, domain.AppealInput{Email: "nope", Reason: "r"}))
	rr := httptest.NewRecorder()
	h.SubmitAppeal(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitAppeal_ServiceErrorMapped(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("SubmitAppeal", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("submit appeal: %w", domain.ErrConflict))
	h := NewRegistrationHandler(svc, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/appeals", jsonBody(t, domain.AppealInput{Email: "user@tempmail.com", Reason: "r"}))
	rr := httptest.NewRecorder()
	h.SubmitAppeal(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

// --- whitelist ---

func TestWhitelist_ThenRegisterSucceeds(t *testing.T) {
	h := newRegistrationHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/whitelist", jsonBody(t, domain.WhitelistRequest{Email: "user@tempmail.com"}))
	rr := httptest.NewRecorder()
	h.Whitelist(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, http.StatusCreated, postRegister(h, jsonBody(t, map[string]string{"email": "user@tempmail.com"})).Code)
}

func TestWhitelist_InvalidEmail(t *testing.T) {
	h := newRegistrationHandler()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/whitelist", jsonBody(t, domain.WhitelistRequest{Email: "bad"}))
	rr := httptest.NewRecorder()
	h.Whitelist(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
