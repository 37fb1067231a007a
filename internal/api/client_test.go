package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/api"
)

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/ask", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Question string `json:"question"`
			UserID   string `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "opening hours?", req.Question)
		assert.Equal(t, "u1", req.UserID)

		json.NewEncoder(w).Encode(map[string]string{
			"answer": "We open at 9.",
			"source": "knowledge_base",
			"topic":  "hours",
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	ans, err := client.Ask(context.Background(), "opening hours?", "u1")
	require.NoError(t, err)
	assert.Equal(t, "We open at 9.", ans.Answer)
	assert.Equal(t, "knowledge_base", ans.Source)
	assert.Equal(t, "hours", ans.Topic)
}

func TestAskServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Ask(context.Background(), "q", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
}

func TestAskMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Ask(context.Background(), "q", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestAskConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := api.New(srv.URL)
	_, err := client.Ask(context.Background(), "q", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestMenuDisplay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GET", r.Method)
		require.Equal(t, "/api/menu-display", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{
			{"text": "Prices", "question": "what are the prices?", "suggestion_topic": "prices"},
			{"text": "Hours", "question": "when are you open?"},
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	items, err := client.MenuDisplay(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Prices", items[0].Text)
	assert.Equal(t, "prices", items[0].SuggestionTopic)
	assert.Empty(t, items[1].SuggestionTopic)
}

func TestSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/suggestions/vr%20games", r.URL.EscapedPath())
		json.NewEncoder(w).Encode(map[string]any{
			"suggestions": []map[string]string{
				{"text": "Prices", "question": "vr prices?"},
			},
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	items, err := client.Suggestions(context.Background(), "vr games")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "vr prices?", items[0].Question)
}

func TestSendFeedback(t *testing.T) {
	var got struct {
		Question string `json:"question"`
		Feedback int    `json:"feedback"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/feedback", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	require.NoError(t, client.SendFeedback(context.Background(), "was this helpful", 1))
	assert.Equal(t, "was this helpful", got.Question)
	assert.Equal(t, 1, got.Feedback)
}

func TestBookingURL(t *testing.T) {
	client := api.New("http://example.com/")
	assert.Equal(t, "http://example.com/booking", client.BookingURL())
}

func TestNewDefaultsFromEnv(t *testing.T) {
	t.Setenv("CLINIC_SERVER_URL", "http://env-host:8080")
	client := api.New("")
	assert.Equal(t, "http://env-host:8080/booking", client.BookingURL())
}
