package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/courseloop/classroom-media/domains/classes/be/service"
	"github.com/courseloop/classroom-media/platform/go/respond"
	"github.com/courseloop/classroom-media/platform/go/tenantdb"
)

type mockService struct {
	deleteVideoFn func(ctx context.Context, input service.DeleteVideoInput) (service.DeleteVideoResult, error)
}

func (m *mockService) DeleteVideo(ctx context.Context, input service.DeleteVideoInput) (service.DeleteVideoResult, error) {
	if m.deleteVideoFn == nil {
		panic("deleteVideoFn not configured")
	}
	return m.deleteVideoFn(ctx, input)
}

func newRouter(t *testing.T, svc service.Service) chi.Router {
	t.Helper()

	router := chi.NewRouter()
	New(svc, zaptest.NewLogger(t)).Register(router)
	return router
}

func decodeEnvelope(t *testing.T, body []byte) respond.OperationResult {
	t.Helper()

	var result respond.OperationResult
	require.NoError(t, json.Unmarshal(body, &result))
	return result
}

func TestDeleteVideoSuccessEnvelope(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		deleteVideoFn: func(ctx context.Context, input service.DeleteVideoInput) (service.DeleteVideoResult, error) {
			require.Equal(t, "abc", input.ClassID)
			require.Equal(t, "u1", input.UserID)
			return service.DeleteVideoResult{
				ClassID: "abc",
				Deleted: true,
				Mux:     service.CleanupReport{Attempted: true, Success: true},
			}, nil
		},
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/classes/abc?userId=u1", nil)
	newRouter(t, svc).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	result := decodeEnvelope(t, recorder.Body.Bytes())
	require.True(t, result.Success)
	require.Empty(t, result.Error)

	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, data["deleted"])
}

func TestDeleteVideoMissingUserID(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		deleteVideoFn: func(ctx context.Context, input service.DeleteVideoInput) (service.DeleteVideoResult, error) {
			return service.DeleteVideoResult{}, tenantdb.ErrMissingTenantKey
		},
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/classes/abc", nil)
	newRouter(t, svc).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	result := decodeEnvelope(t, recorder.Body.Bytes())
	require.False(t, result.Success)
	require.Equal(t, "user id is required", result.Error)
}

func TestDeleteVideoUserMissingFromFirebase(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		deleteVideoFn: func(ctx context.Context, input service.DeleteVideoInput) (service.DeleteVideoResult, error) {
			return service.DeleteVideoResult{}, &tenantdb.RecordNotFoundError{Key: "u1"}
		},
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/classes/abc?userId=u1", nil)
	newRouter(t, svc).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	result := decodeEnvelope(t, recorder.Body.Bytes())
	require.False(t, result.Success)
	require.Equal(t, "User u1 not found in Firebase", result.Error)
	require.Nil(t, result.Data)
}

func TestDeleteVideoNotFoundConflated(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		deleteVideoFn: func(ctx context.Context, input service.DeleteVideoInput) (service.DeleteVideoResult, error) {
			return service.DeleteVideoResult{}, &respond.NotFoundError{Entity: "Class"}
		},
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/classes/abc?userId=u1", nil)
	newRouter(t, svc).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNotFound, recorder.Code)

	result := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, "Class not found or no permission", result.Error)
}

func TestDeleteVideoCleanupFailureStaysSuccessful(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		deleteVideoFn: func(ctx context.Context, input service.DeleteVideoInput) (service.DeleteVideoResult, error) {
			return service.DeleteVideoResult{
				ClassID: "abc",
				Deleted: true,
				Mux: service.CleanupReport{
					Attempted: true,
					Success:   false,
					Error:     "mux: No asset found (status 404)",
				},
			}, nil
		},
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/classes/abc?userId=u1", nil)
	newRouter(t, svc).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	result := decodeEnvelope(t, recorder.Body.Bytes())
	require.True(t, result.Success)

	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	mux, ok := data["mux"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, mux["attempted"])
	require.Equal(t, false, mux["success"])
	require.NotEmpty(t, mux["error"])
}
