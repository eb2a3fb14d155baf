package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSignupSvc struct{ mock.Mock }

func (m *mockSignupSvc) RequestSignupCode(ctx context.Context, req auth.SignupCodeRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockSignupSvc) VerifySignupCode(ctx context.Context, req auth.VerifySignupRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func signupRouter(svc *mockSignupSvc) http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/signup/{action}", NewSignupHandler(svc).Action)
	return r
}

func TestSignupRequest_OK(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("RequestSignupCode", mock.Anything, auth.SignupCodeRequest{Email: "a@x.com", Name: "A", Password: "secret1"}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/signup/request", jsonBody(t, map[string]string{
		"email": "a@x.com", "name": "A", "password": "secret1",
	}))
	rr := serve(signupRouter(svc), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"OTP sent successfully"}`, rr.Body.String())
}

func TestSignupRequest_ValidationError(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("RequestSignupCode", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: field 'email' failed 'required'", domain.ErrBadRequest))

	rr := serve(signupRouter(svc), httptest.NewRequest(http.MethodPost, "/v1/signup/request", jsonBody(t, map[string]string{})))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode(t, rr)["error"], "email")
}

func TestSignupRequest_MailFailureIsGeneric500(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("RequestSignupCode", mock.Anything, mock.Anything).
		Return(fmt.Errorf("send signup code: %w: %w", domain.ErrUpstream, errors.New("535 auth failed for smtp.internal")))

	rr := serve(signupRouter(svc), httptest.NewRequest(http.MethodPost, "/v1/signup/request", jsonBody(t, map[string]string{"email": "a@x.com"})))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}

func TestSignupRequest_MalformedBody(t *testing.T) {
	svc := &mockSignupSvc{}
	rr := serve(signupRouter(svc), httptest.NewRequest(http.MethodPost, "/v1/signup/request", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "RequestSignupCode", mock.Anything, mock.Anything)
}

func TestSignupValidate_OK(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("VerifySignupCode", mock.Anything, auth.VerifySignupRequest{Email: "a@x.com", OTP: "123456"}).
		Return(&domain.User{Email: "a@x.com", DisplayName: "A", PasswordHash: "$2a$hash"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/signup/validate-code", jsonBody(t, map[string]string{"email": "a@x.com", "otp": "123456"}))
	rr := serve(signupRouter(svc), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Email verified successfully","user":{"email":"a@x.com","name":"A"}}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "hash")
}

func TestSignupValidate_Failures(t *testing.T) {
	cases := map[string]struct {
		err error
		msg string
	}{
		"no pending": {fmt.Errorf("no pending signup request: %w", domain.ErrNotFound), "no pending request for this email"},
		"expired":    {fmt.Errorf("signup code expired: %w", domain.ErrExpired), "code has expired"},
		"mismatch":   {fmt.Errorf("invalid signup code: %w", domain.ErrMismatch), "invalid code"},
		"conflict":   {fmt.Errorf("email already registered: %w", domain.ErrConflict), "email already registered"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockSignupSvc{}
			svc.On("VerifySignupCode", mock.Anything, mock.Anything).Return(nil, tc.err)

			req := httptest.NewRequest(http.MethodPost, "/v1/signup/validate-code", jsonBody(t, map[string]string{"email": "a@x.com", "otp": "1"}))
			rr := serve(signupRouter(svc), req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.msg, decode(t, rr)["error"])
		})
	}
}

func TestSignup_UnknownAction(t *testing.T) {
	rr := serve(signupRouter(&mockSignupSvc{}), httptest.NewRequest(http.MethodPost, "/v1/signup/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
