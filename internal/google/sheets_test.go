package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockServer(t *testing.T) (*http.ServeMux, *SheetsService) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(), option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)

	return mux, &SheetsService{service: srv, spreadsheetID: "sheet_tid"}
}

func TestTestConnection(t *testing.T) {
	mux, s := setupMockServer(t)
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Agenda!A1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: [][]interface{}{{"test"}}})
	})

	assert.NoError(t, s.TestConnection(context.Background()))
}

func TestReplaceAgendaSheet(t *testing.T) {
	mux, s := setupMockServer(t)

	var cleared, updated bool
	var gotBody sheets.ValueRange
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Agenda!A:Z:clear", func(w http.ResponseWriter, r *http.Request) {
		cleared = true
		_ = json.NewEncoder(w).Encode(sheets.ClearValuesResponse{})
	})
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Agenda!A1", func(w http.ResponseWriter, r *http.Request) {
		updated = true
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	})

	rows := [][]interface{}{{"Day", "Time"}, {"2025-03-10", "10:00 - 11:00"}}
	require.NoError(t, s.ReplaceAgendaSheet(context.Background(), rows))

	assert.True(t, cleared)
	assert.True(t, updated)
	require.Len(t, gotBody.Values, 2)
	assert.Equal(t, "2025-03-10", gotBody.Values[1][0])
}

func TestReplaceAgendaSheetEmptyRowsOnlyClears(t *testing.T) {
	mux, s := setupMockServer(t)

	var cleared, updated bool
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Agenda!A:Z:clear", func(w http.ResponseWriter, r *http.Request) {
		cleared = true
		_ = json.NewEncoder(w).Encode(sheets.ClearValuesResponse{})
	})
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Agenda!A1", func(w http.ResponseWriter, r *http.Request) {
		updated = true
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	})

	require.NoError(t, s.ReplaceAgendaSheet(context.Background(), nil))
	assert.True(t, cleared)
	assert.False(t, updated)
}

func TestGetServiceAccountEmail(t *testing.T) {
	_, s := setupMockServer(t)

	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client_email":"svc@project.iam.gserviceaccount.com"}`), 0o600))

	email, err := s.GetServiceAccountEmail(path)
	require.NoError(t, err)
	assert.Equal(t, "svc@project.iam.gserviceaccount.com", email)
}
