package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCuratorService implements CuratorServiceInterface for testing.
type MockCuratorService struct {
	mock.Mock
}

func (m *MockCuratorService) PromoteToCurator(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCuratorService) DemoteFromCurator(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCuratorService) ListRoles(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCuratorService) SuspendUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCuratorService) ReinstateUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func setupCuratorTestHandler(mockCurator *MockCuratorService) (*echo.Echo, *Handlers) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	h := NewHandlers(nil, nil, mockCurator)
	return e, h
}

func TestPromoteToCurator(t *testing.T) {
	t.Run("promotes a user to curator", func(t *testing.T) {
		mockCurator := new(MockCuratorService)
		e, h := setupCuratorTestHandler(mockCurator)

		mockCurator.On("PromoteToCurator", mock.Anything, "user-123").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/user-123/curator", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("user-123")

		err := h.PromoteToCurator(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockCurator.AssertExpectations(t)
	})

	t.Run("returns 400 for an empty user ID", func(t *testing.T) {
		mockCurator := new(MockCuratorService)
		e, h := setupCuratorTestHandler(mockCurator)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users//curator", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("")

		err := h.PromoteToCurator(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockCurator.AssertNotCalled(t, "PromoteToCurator")
	})
}

func TestDemoteFromCurator(t *testing.T) {
	mockCurator := new(MockCuratorService)
	e, h := setupCuratorTestHandler(mockCurator)

	mockCurator.On("DemoteFromCurator", mock.Anything, "user-123").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/user-123/curator", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("user-123")

	err := h.DemoteFromCurator(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockCurator.AssertExpectations(t)
}

func TestGetUserRoles(t *testing.T) {
	mockCurator := new(MockCuratorService)
	e, h := setupCuratorTestHandler(mockCurator)

	mockCurator.On("ListRoles", mock.Anything, "user-123").Return([]string{"curators"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/user-123/roles", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("user-123")

	err := h.GetUserRoles(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	mockCurator.AssertExpectations(t)
}

func TestSuspendAndReinstateUser(t *testing.T) {
	t.Run("suspends a user", func(t *testing.T) {
		mockCurator := new(MockCuratorService)
		e, h := setupCuratorTestHandler(mockCurator)

		mockCurator.On("SuspendUser", mock.Anything, "user-123").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/user-123/suspend", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("user-123")

		err := h.SuspendUser(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockCurator.AssertExpectations(t)
	})

	t.Run("reinstates a user", func(t *testing.T) {
		mockCurator := new(MockCuratorService)
		e, h := setupCuratorTestHandler(mockCurator)

		mockCurator.On("ReinstateUser", mock.Anything, "user-123").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/user-123/reinstate", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("user-123")

		err := h.ReinstateUser(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockCurator.AssertExpectations(t)
	})
}
