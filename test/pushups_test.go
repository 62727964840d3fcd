//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/pushupstats/internal/auth"
	"github.com/2beens/pushupstats/internal/pushups/analytics"
	"github.com/2beens/pushupstats/internal/pushups/logs"
	"github.com/2beens/pushupstats/internal/pushups/notes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	decodeBodyWithStatus(t, resp, http.StatusOK, target)
}

func decodeBodyWithStatus(t *testing.T, resp *http.Response, expectedStatus int, target any) {
	t.Helper()
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, string(respBytes))
	require.NoError(t, json.Unmarshal(respBytes, target))
}

func (s *IntegrationTestSuite) summary(ctx context.Context, t *testing.T) analytics.Summary {
	resp, err := s.httpClient.Do(newRequest(ctx, t, http.MethodGet, serverEndpoint+"/pushups/stats/summary", "", nil))
	require.NoError(t, err)
	var summary analytics.Summary
	decodeBody(t, resp, &summary)
	return summary
}

func (s *IntegrationTestSuite) TestProtectedRoutesNeedToken() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp, err := s.httpClient.Do(newRequest(ctx, t, http.MethodPost, serverEndpoint+"/pushups", "", []byte(`{"reps": 10}`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodPost, serverEndpoint+"/pushups/import", "", []byte(`{"text": "10/1: 20"}`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// stats are public
	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodGet, serverEndpoint+"/pushups/stats/streak", "", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAddImportAndStats() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t, s.httpClient, serverEndpoint, auth.Credentials{
		Username: testUsername,
		Password: testPassword,
	})
	before := s.summary(ctx, t)

	// log one set now
	resp, err := s.httpClient.Do(newRequest(ctx, t, http.MethodPost, serverEndpoint+"/pushups", token,
		[]byte(`{"reps": 35, "variation": "diamond"}`)))
	require.NoError(t, err)
	var added logs.AddLogResponse
	decodeBodyWithStatus(t, resp, http.StatusCreated, &added)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, 35, added.Reps)
	assert.GreaterOrEqual(t, added.TodayTotal, 35)

	// preview stores nothing
	history := []byte(`{"text": "3/1/25: 30, 25w\n3/2/25: 40\nfelt great"}`)
	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodPost, serverEndpoint+"/pushups/import/preview", token, history))
	require.NoError(t, err)
	var preview struct {
		TotalSets int      `json:"totalSets"`
		TotalReps int      `json:"totalReps"`
		Warnings  []string `json:"warnings"`
	}
	decodeBody(t, resp, &preview)
	assert.Equal(t, 3, preview.TotalSets)
	assert.Equal(t, 95, preview.TotalReps)
	assert.Len(t, preview.Warnings, 1)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodPost, serverEndpoint+"/pushups/import", token, history))
	require.NoError(t, err)
	var imported logs.ImportResponse
	decodeBody(t, resp, &imported)
	assert.Equal(t, 3, imported.SetsImported)
	assert.Equal(t, 95, imported.RepsImported)
	assert.Equal(t, 2, imported.Days)

	var storedRows int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM pushup_log WHERE logged_at < '2025-03-03'`).Scan(&storedRows))
	assert.GreaterOrEqual(t, storedRows, 3)

	after := s.summary(ctx, t)
	assert.Equal(t, before.LifetimeTotal+35+95, after.LifetimeTotal)
	assert.Equal(t, before.LifetimeSets+4, after.LifetimeSets)
	assert.GreaterOrEqual(t, after.Records.BestSet, 40)
	assert.GreaterOrEqual(t, after.Records.MostInDay, 55)

	// delete the set logged now, the summary follows
	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodDelete, serverEndpoint+"/pushups/"+added.ID, token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	afterDelete := s.summary(ctx, t)
	assert.Equal(t, after.LifetimeTotal-35, afterDelete.LifetimeTotal)
}

func (s *IntegrationTestSuite) TestGoalAndNotes() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t, s.httpClient, serverEndpoint, auth.Credentials{
		Username: testUsername,
		Password: testPassword,
	})

	resp, err := s.httpClient.Do(newRequest(ctx, t, http.MethodPut, serverEndpoint+"/pushups/goal", token, []byte(`{"goal": 150}`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 150, s.summary(ctx, t).Goal)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodPut, serverEndpoint+"/pushups/goal", token, []byte(`{"goal": 0}`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodPut, serverEndpoint+"/pushups/notes/2025-03-01", token,
		[]byte(`{"content": "sore shoulders"}`)))
	require.NoError(t, err)
	var note notes.Note
	decodeBody(t, resp, &note)
	assert.Equal(t, "2025-03-01", note.Date)
	assert.Equal(t, "sore shoulders", note.Content)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodGet, serverEndpoint+"/pushups/notes/2025-03-01", token, nil))
	require.NoError(t, err)
	decodeBody(t, resp, &note)
	assert.Equal(t, "sore shoulders", note.Content)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodDelete, serverEndpoint+"/pushups/notes/2025-03-01", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodGet, serverEndpoint+"/pushups/notes/2025-03-01", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
