package crm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebird1313/reporder/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.CRMConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	return client, server
}

func TestDoRequestSetsBasicAuth(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{Email: "rep@example.com"})
	}))

	user, err := client.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rep@example.com", user.Email)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:"))
	assert.Equal(t, want, gotAuth)
}

func TestUnconfiguredClientRefusesRequests(t *testing.T) {
	client := NewClient(config.CRMConfig{})

	assert.False(t, client.IsConfigured())
	_, err := client.GetPipelines(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))

	_, err := client.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid key")
}

func TestGetStoreOpportunitiesFindsSalesPipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pipelines", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Pipeline{
			{Key: "pipe-hiring", Name: "Hiring"},
			{Key: "pipe-sales", Name: "Western Sales Pipeline"},
		})
	})
	mux.HandleFunc("/pipelines/pipe-sales/boxes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Box{
			{Key: "box-1", Name: "Boot Barn Austin - Fall Order"},
			{Key: "box-2", Name: "Cavender's Reorder"},
		})
	})
	client, _ := newTestClient(t, mux)

	boxes, err := client.GetStoreOpportunities(context.Background(), "boot barn")
	require.NoError(t, err)

	require.Len(t, boxes, 1)
	assert.Equal(t, "box-1", boxes[0].Key)
}

func TestGetStoreOpportunitiesNoSalesPipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pipelines", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Pipeline{{Key: "pipe-hiring", Name: "Hiring"}})
	})
	client, _ := newTestClient(t, mux)

	boxes, err := client.GetStoreOpportunities(context.Background(), "boot barn")
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestGetRecentTasksSortsAndLimits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pipelines", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Pipeline{{Key: "p1", Name: "Sales"}})
	})
	mux.HandleFunc("/pipelines/p1/boxes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Box{
			{Key: "b1", Name: "Box One"},
			{Key: "b2", Name: "Box Two"},
		})
	})
	mux.HandleFunc("/boxes/b1/tasks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Task{
			{Key: "t-old", Name: "Old follow-up", LastUpdatedTimestamp: 100},
			{Key: "t-new", Name: "New follow-up", LastUpdatedTimestamp: 300},
		})
	})
	mux.HandleFunc("/boxes/b2/tasks", func(w http.ResponseWriter, r *http.Request) {
		// Unfetchable boxes get skipped, not surfaced as errors.
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	client, _ := newTestClient(t, mux)

	tasks, err := client.GetRecentTasks(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "t-new", tasks[0].Key)
	assert.Equal(t, "Box One", tasks[0].BoxName)
}

func TestCompleteTaskPostsStatus(t *testing.T) {
	var gotBody TaskUpdate
	mux := http.NewServeMux()
	mux.HandleFunc("/boxes/b1/tasks/t1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(Task{Key: "t1", Status: TaskStatusComplete})
	})
	client, _ := newTestClient(t, mux)

	task, err := client.CompleteTask(context.Background(), "b1", "t1")
	require.NoError(t, err)

	assert.Equal(t, TaskStatusComplete, task.Status)
	require.NotNil(t, gotBody.Status)
	assert.Equal(t, TaskStatusComplete, *gotBody.Status)
}

func TestTestConnection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(User{Email: "rep@example.com"})
	}))
	assert.True(t, client.TestConnection(context.Background()))

	failing, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	assert.False(t, failing.TestConnection(context.Background()))
}
