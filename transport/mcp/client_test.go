package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/letterboxed/game/engine"
	"github.com/wricardo/letterboxed/game/service"
)

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected GetMCPServer to return the server")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"date":  "2024-01-01",
		"count": float64(3),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall("GET", "/api/daily", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["date"] != "2024-01-01" {
		t.Errorf("Unexpected response: %v", response)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api/daily", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/daily", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_RejectionBodyIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(service.PlayResult{
			Success: false,
			Code:    service.CodeWordTooShort,
			Message: "word must have at least 2 letters",
			State:   &service.StateInfo{Date: "2024-01-01"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var result service.PlayResult
	if err := client.apiCall("POST", "/api/sessions/2024-01-01/submit", nil, &result); err != nil {
		t.Fatalf("Expected 422 body to decode without error, got: %v", err)
	}
	if result.Success || result.Code != service.CodeWordTooShort {
		t.Errorf("Unexpected rejection body: %+v", result)
	}
}

func TestClient_handleDailyPuzzle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/daily" {
			t.Errorf("Expected GET /api/daily, got %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(service.PuzzleInfo{
			Date:  "2024-01-01",
			Sides: [engine.NumSides]string{"OTK", "PIA", "WEC", "RVN"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleDailyPuzzle(context.Background(), toolRequest("daily_puzzle", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleDailyPuzzle failed: %v", err)
	}

	text := textContent(t, result)
	for _, want := range []string{"2024-01-01", "top (0): O T K", "left (3): R V N"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output, got: %s", want, text)
		}
	}
}

func TestClient_handleSelectLetter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/2024-01-01/select" {
			t.Errorf("Expected POST /api/sessions/2024-01-01/select, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["char"] != "O" {
			t.Errorf("Expected char O in body, got %v", body)
		}
		json.NewEncoder(w).Encode(service.PlayResult{
			Success: true,
			State: &service.StateInfo{
				Date:        "2024-01-01",
				Sides:       [engine.NumSides]string{"OTK", "PIA", "WEC", "RVN"},
				CurrentWord: "O",
				LettersUsed: 1,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleSelectLetter(context.Background(), toolRequest("select_letter",
		map[string]interface{}{"date": "2024-01-01", "char": "O"}))
	if err != nil {
		t.Fatalf("handleSelectLetter failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, `Current word: "O"`) {
		t.Errorf("Expected current word in output, got: %s", text)
	}
}

func TestClient_handleSubmitWord_Win(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.PlayResult{
			Success: true,
			Word:    "AWREVCN",
			Won:     true,
			Solve:   &service.SolveInfo{WordCount: 2, SolveSeconds: 125, Streak: 3},
			State: &service.StateInfo{
				Date:           "2024-01-01",
				Sides:          [engine.NumSides]string{"OTK", "PIA", "WEC", "RVN"},
				CompletedWords: []string{"OPTIKA", "AWREVCN"},
				LettersUsed:    12,
				Won:            true,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleSubmitWord(context.Background(), toolRequest("submit_word",
		map[string]interface{}{"date": "2024-01-01"}))
	if err != nil {
		t.Fatalf("handleSubmitWord failed: %v", err)
	}

	text := textContent(t, result)
	for _, want := range []string{"Solved in 2 words", "Streak: 3", "Status: SOLVED"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output, got: %s", want, text)
		}
	}
}

func TestClient_handleSubmitWord_Rejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(service.PlayResult{
			Success: false,
			Code:    service.CodeWordNotInDictionary,
			Message: "word not in dictionary",
			State: &service.StateInfo{
				Date:        "2024-01-01",
				Sides:       [engine.NumSides]string{"OTK", "PIA", "WEC", "RVN"},
				CurrentWord: "OPT",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleSubmitWord(context.Background(), toolRequest("submit_word",
		map[string]interface{}{"date": "2024-01-01"}))
	if err != nil {
		t.Fatalf("handleSubmitWord failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "Rejected (word_not_in_dictionary)") {
		t.Errorf("Expected rejection in output, got: %s", text)
	}
}

func TestClient_handleGameState_DefaultsToToday(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		json.NewEncoder(w).Encode(service.StateInfo{
			Date:  "2024-01-01",
			Sides: [engine.NumSides]string{"OTK", "PIA", "WEC", "RVN"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.handleGameState(context.Background(), toolRequest("game_state", map[string]interface{}{})); err != nil {
		t.Fatalf("handleGameState failed: %v", err)
	}
	if requestedPath != "/api/sessions/today/state" {
		t.Errorf("Expected today's session path, got %s", requestedPath)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := textContent(t, result)
	expectedContent := []string{
		"Letter Boxed - Complete Instructions",
		"GAME OBJECTIVE:",
		"BUILDING WORDS:",
		"Consecutive letters must come from DIFFERENT sides",
		"WINNING:",
		"STRATEGY NOTES:",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected %q in instructions", content)
		}
	}
}

func TestFormatState_SideRestriction(t *testing.T) {
	text := formatState(&service.StateInfo{
		Date:         "2024-01-01",
		Sides:        [engine.NumSides]string{"OTK", "PIA", "WEC", "RVN"},
		CurrentWord:  "OP",
		SelectedSide: 1,
		LettersUsed:  2,
	})

	if !strings.Contains(text, "may not come from the right side") {
		t.Errorf("Expected side restriction note, got: %s", text)
	}
}
