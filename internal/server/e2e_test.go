package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
	"github.com/BuzzLyutic/version-tracker-api/internal/repo"
	"github.com/BuzzLyutic/version-tracker-api/internal/service"
	"github.com/BuzzLyutic/version-tracker-api/internal/web"
	"github.com/BuzzLyutic/version-tracker-api/pkg/respond"
)

func setupE2EServer(t *testing.T, seed ...model.Version) *httptest.Server {
	t.Helper()
	store := repo.NewMemoryRepo()
	store.Seed(seed...)
	svc := service.NewVersionService(store)

	ui, err := web.New(svc, UIPath)
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(svc, ui, zap.NewNop()))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func release(name string) model.VersionInput {
	return model.VersionInput{
		Name:      name,
		Priority:  model.PriorityMedium,
		Summary:   "e2e",
		StartDate: model.MustParseDate("2023-02-20"),
		EndDate:   model.MustParseDate("2023-03-30"),
		Status:    model.StatusTesting,
		Progress:  80,
	}
}

func TestE2E_FullWorkflow(t *testing.T) {
	server := setupE2EServer(t)

	t.Run("complete CRUD workflow", func(t *testing.T) {
		// 1. Create
		resp := postJSON(t, server.URL+"/api/versions", release("1.1.0"))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var created model.Version
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		resp.Body.Close()

		require.NotZero(t, created.ID)
		assert.Equal(t, "1.1.0", created.Name)
		assert.Equal(t, model.Today(), created.CreatedAt)
		assert.Equal(t, fmt.Sprintf("/api/versions/%d", created.ID), resp.Header.Get("Location"))

		// 2. Get
		resp, err := http.Get(fmt.Sprintf("%s/api/versions/%d", server.URL, created.ID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched model.Version
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
		resp.Body.Close()
		assert.Equal(t, created, fetched)

		// 3. Update
		in := release("1.1.1")
		in.Progress = 100
		in.Status = model.StatusCompleted
		in.TestingCompleteDate = model.MustParseDate("2023-03-28")
		data, _ := json.Marshal(in)

		req, _ := http.NewRequest(http.MethodPut,
			fmt.Sprintf("%s/api/versions/%d", server.URL, created.ID),
			bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")

		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var updated model.Version
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		resp.Body.Close()
		assert.Equal(t, "1.1.1", updated.Name)
		assert.Equal(t, 100, updated.Progress)
		assert.Equal(t, "2023-03-28", updated.TestingCompleteDate.String())
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)

		// 4. List
		resp, err = http.Get(server.URL + "/api/versions")
		require.NoError(t, err)
		var versions []model.Version
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&versions))
		resp.Body.Close()
		assert.Len(t, versions, 1)

		// 5. Delete
		req, _ = http.NewRequest(http.MethodDelete,
			fmt.Sprintf("%s/api/versions/%d", server.URL, created.ID), nil)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		// 6. Verify deletion
		resp, err = http.Get(fmt.Sprintf("%s/api/versions/%d", server.URL, created.ID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestE2E_NotFoundBody(t *testing.T) {
	server := setupE2EServer(t)

	resp, err := http.Get(server.URL + "/api/versions/999")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var body respond.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Message)
}

func TestE2E_EmptyListIsArray(t *testing.T) {
	server := setupE2EServer(t)

	resp, err := http.Get(server.URL + "/api/versions")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestE2E_Chart(t *testing.T) {
	t.Run("demo data", func(t *testing.T) {
		server := setupE2EServer(t, repo.DemoVersions()...)

		resp, err := http.Get(server.URL + "/api/chart")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Bars []struct {
				ID           int64  `json:"id"`
				DurationDays int    `json:"durationDays"`
				Color        string `json:"color"`
			} `json:"bars"`
			Domain struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"domain"`
			Ticks []struct {
				Label string `json:"label"`
			} `json:"ticks"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Bars, 4)
		assert.Equal(t, int64(1), body.Bars[0].ID)
		assert.Equal(t, 46, body.Bars[0].DurationDays)
		assert.Equal(t, "#6b7280", body.Bars[0].Color)
		assert.Equal(t, "2022-12-31", body.Domain.Start)
		assert.Equal(t, "2023-07-31", body.Domain.End)
		assert.NotEmpty(t, body.Ticks)
	})

	t.Run("empty store", func(t *testing.T) {
		server := setupE2EServer(t)

		resp, err := http.Get(server.URL + "/api/chart")
		require.NoError(t, err)
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"bars":[],"domain":{"start":null,"end":null},"ticks":[]}`, string(data))
	})
}

func TestE2E_RootHealthMetrics(t *testing.T) {
	server := setupE2EServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "IT版本管理系统API正在运行", string(data))

	resp, err = http.Get(server.URL + "/health")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	data, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "version_tracker_http_requests_total")
}

func TestE2E_UIMounted(t *testing.T) {
	server := setupE2EServer(t, repo.DemoVersions()...)

	resp, err := http.Get(server.URL + "/ui")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "版本 2.0.0")
}

func TestE2E_ValidationErrors(t *testing.T) {
	server := setupE2EServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"bad date", `{"name":"x","priority":1,"start_date":"2023/01/01","end_date":"2023-01-02","status":"planning"}`},
		{"progress over 100", `{"name":"x","priority":1,"start_date":"2023-01-01","end_date":"2023-01-02","status":"planning","progress":120}`},
		{"first calendar day", `{"name":"x","priority":1,"start_date":"0001-01-01","end_date":"2023-01-02","status":"planning"}`},
		{"unknown status", `{"name":"x","priority":1,"start_date":"2023-01-01","end_date":"2023-01-02","status":"shipped"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/versions", "application/json", bytes.NewReader([]byte(tt.body)))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestConcurrent_CreatesGetDistinctIDs(t *testing.T) {
	server := setupE2EServer(t)

	const goroutines = 20
	var wg sync.WaitGroup
	ids := make([]int64, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			data, _ := json.Marshal(release(fmt.Sprintf("concurrent-%d", idx)))
			resp, err := http.Post(server.URL+"/api/versions", "application/json", bytes.NewReader(data))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			var v model.Version
			if json.NewDecoder(resp.Body).Decode(&v) == nil {
				ids[idx] = v.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for i, id := range ids {
		require.NotZero(t, id, "request %d failed", i)
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := New("127.0.0.1:0", http.NotFoundHandler())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, zap.NewNop()) }()
	cancel()

	assert.NoError(t, <-done)
}
