package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/internal/events"
	"kitahub/internal/events/publish"
	"kitahub/internal/events/publish/memory"
	"kitahub/internal/family"
)

func newTestRouter(t *testing.T) (http.Handler, *memory.Publisher) {
	t.Helper()
	double := memory.New()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	bus := events.NewBus(events.ContextFamily)
	bus.Register(family.NewPromotionHandler(publish.New(double, logger, nil)), family.PromotionPriority)
	service := family.NewService(family.NewInMemoryStore(), bus, logger, nil)

	r := chi.NewRouter()
	New(service, logger).Register(r)
	return r, double
}

func registerChild(t *testing.T, router http.Handler, tenantID string) family.Child {
	t.Helper()
	body := `{"tenant_id":"` + tenantID + `","first_name":"Mila","last_name":"Novak","birth_date":"2021-04-12"}`
	req := httptest.NewRequest(http.MethodPost, "/children", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var child family.Child
	require.NoError(t, json.NewDecoder(w.Body).Decode(&child))
	return child
}

func TestRegisterChild_Created(t *testing.T) {
	router, double := newTestRouter(t)
	child := registerChild(t, router, uuid.NewString())

	assert.Equal(t, "Mila", child.FirstName)
	assert.Len(t, double.Events(), 1)
}

func TestRegisterChild_ValidationReturnsFieldList(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"tenant_id":"` + uuid.NewString() + `","first_name":"","last_name":"","birth_date":"2021-04-12"}`
	req := httptest.NewRequest(http.MethodPost, "/children", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "invalid_input", resp.Error)
	assert.Len(t, resp.Fields, 2)
}

func TestRegisterChild_BadBirthDateIsBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"tenant_id":"` + uuid.NewString() + `","first_name":"Mila","last_name":"Novak","birth_date":"12.04.2021"}`
	req := httptest.NewRequest(http.MethodPost, "/children", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnonymize_NoContentThenConflict(t *testing.T) {
	router, double := newTestRouter(t)
	child := registerChild(t, router, uuid.NewString())

	req := httptest.NewRequest(http.MethodPost, "/children/"+child.ID.String()+"/anonymize", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	last, ok := double.Last()
	require.True(t, ok)
	assert.Equal(t, events.ChildDataAnonymized, last.Type)

	req = httptest.NewRequest(http.MethodPost, "/children/"+child.ID.String()+"/anonymize", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetChild_UnknownIsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/children/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChild_MalformedIDIsBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/children/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
