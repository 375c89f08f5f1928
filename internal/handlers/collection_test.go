package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/streamcurator/beatmap-curator/internal/handlers/middleware"
	"github.com/streamcurator/beatmap-curator/internal/models"
	"github.com/streamcurator/beatmap-curator/internal/repository"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

// MockCollectionService implements CollectionServiceInterface for testing.
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) CreateGroup(ctx context.Context, ownerID, name string, mode models.GroupingMode) (*repository.GroupRecord, error) {
	args := m.Called(ctx, ownerID, name, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GroupRecord), args.Error(1)
}

func (m *MockCollectionService) GetGroup(ctx context.Context, ownerID, name string) (*repository.GroupRecord, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GroupRecord), args.Error(1)
}

func (m *MockCollectionService) AddMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error) {
	args := m.Called(ctx, ownerID, name, checksums)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GroupRecord), args.Error(1)
}

func (m *MockCollectionService) RemoveMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error) {
	args := m.Called(ctx, ownerID, name, checksums)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GroupRecord), args.Error(1)
}

func (m *MockCollectionService) DeleteGroup(ctx context.Context, ownerID, name string) error {
	args := m.Called(ctx, ownerID, name)
	return args.Error(0)
}

func (m *MockCollectionService) ListGroups(ctx context.Context, ownerID string) ([]repository.GroupRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.GroupRecord), args.Error(1)
}

func (m *MockCollectionService) ExportCollection(ctx context.Context, ownerID, name string, format models.CollectionFormat) (string, error) {
	args := m.Called(ctx, ownerID, name, format)
	return args.String(0), args.Error(1)
}

func (m *MockCollectionService) TriggerRebuild(ctx context.Context, ownerID string) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

func setupCollectionTestHandler(mockCollection *MockCollectionService) (*echo.Echo, *Handlers) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	h := NewHandlers(nil, mockCollection, nil)
	return e, h
}

func authenticated(c echo.Context, userID string) {
	c.Set(middleware.UserIDKey, userID)
}

func TestCreateGroup(t *testing.T) {
	t.Run("creates a group successfully", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		expected := &repository.GroupRecord{Name: "marathon-streams", OwnerID: "curator-1", Mode: models.GroupSingle}
		mockCollection.On("CreateGroup", mock.Anything, "curator-1", "marathon-streams", models.GroupSingle).Return(expected, nil)

		reqBody := `{"name": "marathon-streams"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		authenticated(c, "curator-1")

		err := h.CreateGroup(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "marathon-streams", response["name"])

		mockCollection.AssertExpectations(t)
	})

	t.Run("returns 401 without an authenticated user", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		reqBody := `{"name": "marathon-streams"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.CreateGroup(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockCollection.AssertNotCalled(t, "CreateGroup")
	})

	t.Run("returns 400 for an empty name", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		reqBody := `{"name": ""}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		authenticated(c, "curator-1")

		err := h.CreateGroup(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetGroup(t *testing.T) {
	t.Run("returns an owned group", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		mockCollection.On("GetGroup", mock.Anything, "curator-1", "marathon-streams").
			Return(&repository.GroupRecord{Name: "marathon-streams", OwnerID: "curator-1"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/marathon-streams", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("marathon-streams")
		authenticated(c, "curator-1")

		err := h.GetGroup(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockCollection.AssertExpectations(t)
	})

	t.Run("returns 404 when the group does not exist", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		mockCollection.On("GetGroup", mock.Anything, "curator-1", "missing").Return(nil, repository.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("missing")
		authenticated(c, "curator-1")

		err := h.GetGroup(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAddGroupMembers(t *testing.T) {
	t.Run("adds checksums to a group", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		checksums := []string{"aaa", "bbb"}
		mockCollection.On("AddMembers", mock.Anything, "curator-1", "marathon-streams", checksums).
			Return(&repository.GroupRecord{Name: "marathon-streams", OwnerID: "curator-1", Members: checksums}, nil)

		reqBody := `{"checksums": ["aaa", "bbb"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/marathon-streams/members", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("marathon-streams")
		authenticated(c, "curator-1")

		err := h.AddGroupMembers(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockCollection.AssertExpectations(t)
	})
}

func TestExportCollection(t *testing.T) {
	t.Run("defaults to the db format", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		mockCollection.On("ExportCollection", mock.Anything, "curator-1", "marathon-streams", models.FormatDB).
			Return("https://exports.example.com/marathon-streams.db", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/marathon-streams/export", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("marathon-streams")
		authenticated(c, "curator-1")

		err := h.ExportCollection(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockCollection.AssertExpectations(t)
	})

	t.Run("honors the osdb format query parameter", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		mockCollection.On("ExportCollection", mock.Anything, "curator-1", "marathon-streams", models.FormatOSDB).
			Return("https://exports.example.com/marathon-streams.osdb", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/marathon-streams/export?format=osdb", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("marathon-streams")
		authenticated(c, "curator-1")

		err := h.ExportCollection(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockCollection.AssertExpectations(t)
	})

	t.Run("returns 401 without an authenticated user", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/marathon-streams/export", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("marathon-streams")

		err := h.ExportCollection(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockCollection.AssertNotCalled(t, "ExportCollection")
	})
}

func TestTriggerRebuild(t *testing.T) {
	t.Run("triggers a rebuild execution", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		mockCollection.On("TriggerRebuild", mock.Anything, "curator-1").
			Return("arn:aws:states:us-east-1:123456789012:execution:rebuild:test", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/collection/rebuild", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		authenticated(c, "curator-1")

		err := h.TriggerRebuild(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockCollection.AssertExpectations(t)
	})

	t.Run("returns 500 when the step function fails to start", func(t *testing.T) {
		mockCollection := new(MockCollectionService)
		e, h := setupCollectionTestHandler(mockCollection)

		mockCollection.On("TriggerRebuild", mock.Anything, "curator-1").Return("", errors.New("sfn unavailable"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/collection/rebuild", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		authenticated(c, "curator-1")

		err := h.TriggerRebuild(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
