package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-health-journal/internal/config"
	"mcp-health-journal/internal/storage"
)

var fixedNow = time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Transport:    "http",
		Host:         "127.0.0.1",
		Port:         18011,
		DBPath:       filepath.Join(t.TempDir(), "journal_test.db"),
		WindowHours:  6,
		LookbackDays: 7,
		AnalysisDays: 30,
	}
}

func newTestServer(t *testing.T) *JournalServer {
	t.Helper()
	cfg := testConfig(t)
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := newJournalServer(store, NewSamplingClient("", "", ""), nil, cfg)
	s.now = func() time.Time { return fixedNow }
	return s
}

// call invokes a tool directly and decodes its text payload into out.
func call(t *testing.T, s *JournalServer, tool string, args map[string]interface{}, out interface{}) {
	t.Helper()
	handler, ok := s.tools[tool]
	require.True(t, ok, "tool %s not registered", tool)

	result, err := handler(context.Background(), &protocol.CallToolRequest{Name: tool, Arguments: args})
	require.NoError(t, err)
	decodeResult(t, result, out)
}

func callErr(s *JournalServer, tool string, args map[string]interface{}) error {
	_, err := s.tools[tool](context.Background(), &protocol.CallToolRequest{Name: tool, Arguments: args})
	return err
}

func decodeResult(t *testing.T, result *protocol.CallToolResult, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var envelope struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Len(t, envelope.Content, 1)
	assert.Equal(t, "text", envelope.Content[0].Type)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(envelope.Content[0].Text), out))
	}
}

func post(t *testing.T, s *JournalServer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.handleHTTP(rec, req)
	return rec
}

func TestRegisterTools(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{
		"log_food", "log_symptom", "log_water", "log_sleep", "log_exercise",
		"log_medication", "log_wellness", "add_allergy", "list_allergies",
		"delete_entry", "get_entries", "analyze_correlations",
		"get_positive_correlations", "get_allergy_warnings", "get_insights",
		"get_timeline", "predict_meal",
	} {
		assert.Contains(t, s.tools, name)
	}
	assert.Len(t, s.tools, 17)
}

func TestHandleHTTPMethods(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	s.handleHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHTTPStatusCodes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"unknown tool", `{"name":"no_such_tool","arguments":{}}`, http.StatusNotFound},
		{"validation failure", `{"name":"log_symptom","arguments":{"symptom":"bloating","severity":"extreme"}}`, http.StatusBadRequest},
		{"bad argument type", `{"name":"log_water","arguments":{"amount":"lots"}}`, http.StatusBadRequest},
		{"unknown category", `{"name":"delete_entry","arguments":{"category":"mood","id":"x"}}`, http.StatusBadRequest},
		{"missing entry", `{"name":"delete_entry","arguments":{"category":"food","id":"missing"}}`, http.StatusNotFound},
		{"ok", `{"name":"log_water","arguments":{"amount":250}}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleHTTPResponseBody(t *testing.T) {
	s := newTestServer(t)

	rec := post(t, s, `{"name":"log_sleep","arguments":{"quality":4}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Content, 1)

	var sample map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body.Content[0].Text), &sample))
	assert.Equal(t, "2024-01-12", sample["date"])
	assert.EqualValues(t, 4, sample["quality"])
	assert.NotEmpty(t, sample["id"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(ErrInvalidParams))
	assert.Equal(t, http.StatusNotFound, statusFor(storage.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestNewJournalServerAndStop(t *testing.T) {
	s, err := NewJournalServer(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, s.server)
	assert.Equal(t, "127.0.0.1:18011", s.httpServer.Addr)
	assert.Len(t, s.tools, 17)

	assert.NoError(t, s.Stop())
}

func TestMessageURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8011/message", messageURL("0.0.0.0", 8011))
	assert.Equal(t, "http://localhost:8011/message", messageURL("", 8011))
	assert.Equal(t, "http://10.0.0.5:9000/message", messageURL("10.0.0.5", 9000))
}
