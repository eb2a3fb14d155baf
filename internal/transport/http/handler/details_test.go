package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockDetailSvc struct{ mock.Mock }

func (m *mockDetailSvc) Create(ctx context.Context, input domain.DetailInput) (*domain.Detail, error) {
	args := m.Called(ctx, input)
	if d, _ := args.Get(0).(*domain.Detail); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDetailSvc) List(ctx context.Context) ([]domain.Detail, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Detail), args.Error(1)
}

func TestCreateDetail_Created(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &mockDetailSvc{}
	svc.On("Create", mock.Anything, domain.DetailInput{Title: "t", Description: "d"}).
		Return(&domain.Detail{DetailID: "01D", Title: "t", Description: "d", CreatedAt: created}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/details", jsonBody(t, map[string]string{"title": "t", "description": "d"}))
	rr := serve(http.HandlerFunc(NewDetailHandler(svc).Create), req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"01D","title":"t","description":"d","createdAt":"2026-01-02T03:04:05Z"}}`, rr.Body.String())
}

func TestCreateDetail_MissingField(t *testing.T) {
	svc := &mockDetailSvc{}
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: field 'title' failed 'required'", domain.ErrBadRequest))

	req := httptest.NewRequest(http.MethodPost, "/v1/details", jsonBody(t, map[string]string{"description": "d"}))
	rr := serve(http.HandlerFunc(NewDetailHandler(svc).Create), req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "title")
}

func TestCreateDetail_MalformedBody(t *testing.T) {
	svc := &mockDetailSvc{}
	rr := serve(http.HandlerFunc(NewDetailHandler(svc).Create), httptest.NewRequest(http.MethodPost, "/v1/details", strings.NewReader("nope")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid request body"}`, rr.Body.String())
}

func TestListDetails(t *testing.T) {
	svc := &mockDetailSvc{}
	svc.On("List", mock.Anything).Return([]domain.Detail{{DetailID: "02"}, {DetailID: "01"}}, nil)

	rr := serve(http.HandlerFunc(NewDetailHandler(svc).List), httptest.NewRequest(http.MethodGet, "/v1/details", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	data := body["data"].([]interface{})
	assert.Len(t, data, 2)
	assert.Equal(t, "02", data[0].(map[string]interface{})["id"])
}

func TestListDetails_Empty(t *testing.T) {
	svc := &mockDetailSvc{}
	svc.On("List", mock.Anything).Return([]domain.Detail{}, nil)

	rr := serve(http.HandlerFunc(NewDetailHandler(svc).List), httptest.NewRequest(http.MethodGet, "/v1/details", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, rr.Body.String())
}

func TestListDetails_UpstreamFailure(t *testing.T) {
	svc := &mockDetailSvc{}
	svc.On("List", mock.Anything).Return([]domain.Detail(nil), fmt.Errorf("scan details: %w: %w", domain.ErrUpstream, errors.New("throttled")))

	rr := serve(http.HandlerFunc(NewDetailHandler(svc).List), httptest.NewRequest(http.MethodGet, "/v1/details", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, rr.Body.String())
}
