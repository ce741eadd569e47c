package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/phonebook/internal/model"
	"github.com/idilsaglam/phonebook/internal/server"
	"github.com/idilsaglam/phonebook/internal/store/memstore"
)

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateValidation(t *testing.T) {
	router := server.NewRouter(memstore.New())

	tests := []struct {
		name    string
		draft   model.Draft
		wantMsg string
	}{
		{"blank name", model.Draft{Name: "  ", Number: "123"}, "name is missing"},
		{"blank number", model.Draft{Name: "Ada", Number: ""}, "number is missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/persons", tt.draft)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestCreateTrimsAndAssignsID(t *testing.T) {
	router := server.NewRouter(memstore.New())

	w := doJSON(t, router, http.MethodPost, "/api/persons", model.Draft{Name: " Ada ", Number: " 123 "})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Person
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, "123", created.Number)
}

func TestReplaceMissingPersonAnswersJSON404(t *testing.T) {
	router := server.NewRouter(memstore.New())

	w := doJSON(t, router, http.MethodPut, "/api/persons/nope",
		model.Person{ID: "nope", Name: "Ada", Number: "999"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "person not found", body["error"])
}

func TestReplaceKeepsStoredID(t *testing.T) {
	st := memstore.New()
	router := server.NewRouter(st)
	created := st.Create(model.Draft{Name: "Ada", Number: "123"})

	// body smuggles a different id; the path id must win
	w := doJSON(t, router, http.MethodPut, "/api/persons/"+created.ID,
		model.Person{ID: "forged", Name: "Ada", Number: "999"})

	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Person
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "999", updated.Number)
}

func TestDeleteAnswersNoContent(t *testing.T) {
	st := memstore.New()
	router := server.NewRouter(st)
	created := st.Create(model.Draft{Name: "Ada", Number: "123"})

	w := doJSON(t, router, http.MethodDelete, "/api/persons/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/persons/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
