//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/pushupstats/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		creds              auth.Credentials
		expectedStatusCode int
		expectedBody       string
	}{
		"bad password": {
			creds:              auth.Credentials{Username: testUsername, Password: "bad-password"},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "error, wrong credentials",
		},
		"bad username": {
			creds:              auth.Credentials{Username: "bad-username", Password: testPassword},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "error, wrong credentials",
		},
		"empty password": {
			creds:              auth.Credentials{Username: testUsername},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "error, password empty",
		},
	}

	for tn, tc := range cases {
		s.Run(tn, func() {
			body, err := json.Marshal(tc.creds)
			require.NoError(t, err)

			req := newRequest(ctx, t, http.MethodPost, serverEndpoint+"/a/login", "", body)
			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			respBytes, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedBody, strings.TrimSpace(string(respBytes)))
		})
	}
}

func (s *IntegrationTestSuite) TestLoginThenLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t, s.httpClient, serverEndpoint, auth.Credentials{
		Username: testUsername,
		Password: testPassword,
	})

	// the session opens the protected routes
	resp, err := s.httpClient.Do(newRequest(ctx, t, http.MethodGet, serverEndpoint+"/pushups/today", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodGet, serverEndpoint+"/a/logout", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, http.MethodGet, serverEndpoint+"/pushups/today", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
