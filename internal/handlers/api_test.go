package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/exitflow/apiserver/internal/holiday"
	"github.com/exitflow/apiserver/internal/notify"
	"github.com/exitflow/apiserver/internal/services"
	"github.com/exitflow/apiserver/internal/store"
	"github.com/exitflow/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

// newTestServer wires the full router over in-memory stores, with an
// unreachable holiday source (degrades to no known holidays) and a
// log-only notifier.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	userStore := store.NewUserStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	seed := []types.User{
		{Username: "admin", Name: "Admin User", Email: "admin@company.com", Role: types.RoleHR, Country: "US"},
		{Username: "john.doe", Name: "John Doe", Email: "john.doe@company.com", Role: types.RoleEmployee, Country: "US"},
		{Username: "jane.smith", Name: "Jane Smith", Email: "jane.smith@company.com", Role: types.RoleEmployee, Country: "IN"},
	}
	for _, user := range seed {
		user.PasswordHash = string(hash)
		_, err := userStore.Create(ctx, user)
		require.NoError(t, err)
	}

	resignationStore := store.NewResignationStore()
	interviewStore := store.NewExitInterviewStore()

	holidayService := holiday.New(holiday.Config{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, nil)
	notifier := notify.NewService(notify.NewLogBackend(nil), "hr@company.com", nil)

	userService := services.NewUserService(userStore)
	resignationService := services.NewResignationService(resignationStore, holidayService, notifier)
	interviewService := services.NewExitInterviewService(interviewStore, resignationStore)

	identity := RequireIdentity(userService, testJWTSecret)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, testJWTSecret)
	})
	router.Route("/resignations", func(r chi.Router) {
		ResignationRouter(r, resignationService, identity)
	})
	router.Route("/exit-interviews", func(r chi.Router) {
		ExitInterviewRouter(r, interviewService, identity)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, data
}

func login(t *testing.T, baseURL, username, password string) string {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, baseURL+"/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var parsed AuthResponse
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed.Token
}

func TestAuth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	t.Run("login rejects bad credentials", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
			"username": "john.doe",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("whoami returns the profile without the hash", func(t *testing.T) {
		token := login(t, srv.URL, "john.doe", "password123")
		resp, data := doJSON(t, http.MethodGet, srv.URL+"/auth/me", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		require.Equal(t, "john.doe", raw["username"])
		require.Equal(t, types.RoleEmployee, raw["role"])
		require.NotContains(t, raw, "passwordHash")
		require.NotContains(t, raw, "password")
	})

	t.Run("missing token yields 401, malformed yields 403", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/resignations", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/resignations", "not-a-token", nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("register creates an employee account", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
			"username": "new.hire",
			"password": "secret123",
			"name":     "New Hire",
			"email":    "new.hire@company.com",
			"country":  "US",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

		var user types.User
		require.NoError(t, json.Unmarshal(data, &user))
		require.Equal(t, types.RoleEmployee, user.Role)

		resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
			"username": "new.hire",
			"password": "secret123",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		login(t, srv.URL, "new.hire", "secret123")
	})
}

func TestResignationWorkflow(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	employeeToken := login(t, srv.URL, "john.doe", "password123")
	coworkerToken := login(t, srv.URL, "jane.smith", "password123")
	hrToken := login(t, srv.URL, "admin", "password123")

	var resignation types.Resignation

	t.Run("employee submits a resignation", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPost, srv.URL+"/resignations", employeeToken, map[string]string{
			"lastWorkingDay": "2099-06-01",
			"reason":         "relocation",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
		require.NoError(t, json.Unmarshal(data, &resignation))
		require.Equal(t, types.StatusPending, resignation.Status)
		require.NotEmpty(t, resignation.ID)
	})

	t.Run("second submission while pending is rejected", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPost, srv.URL+"/resignations", employeeToken, map[string]string{
			"lastWorkingDay": "2099-06-02",
			"reason":         "changed my mind",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, string(data), "pending resignation")
	})

	t.Run("weekend date is rejected", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPost, srv.URL+"/resignations", coworkerToken, map[string]string{
			"lastWorkingDay": "2099-06-07",
			"reason":         "relocation",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, string(data), "falls on a weekend")
	})

	t.Run("hr cannot submit, employee cannot review", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/resignations", hrToken, map[string]string{
			"lastWorkingDay": "2099-06-01",
			"reason":         "n/a",
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/resignations/"+resignation.ID+"/approve", employeeToken, map[string]string{
			"exitDate": "2099-06-01",
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("ownership is enforced on reads", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/resignations/"+resignation.ID, coworkerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/resignations/"+resignation.ID, hrToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/resignations/does-not-exist", hrToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("hr approves with an exit date", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPatch, srv.URL+"/resignations/"+resignation.ID+"/approve", hrToken, map[string]string{
			"exitDate": "2099-06-01",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		var updated types.Resignation
		require.NoError(t, json.Unmarshal(data, &updated))
		require.Equal(t, types.StatusApproved, updated.Status)
		require.Equal(t, "2099-06-01", updated.ExitDate)
		require.NotNil(t, updated.ReviewedAt)
	})

	t.Run("approved is terminal", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPatch, srv.URL+"/resignations/"+resignation.ID+"/approve", hrToken, map[string]string{
			"exitDate": "2099-06-02",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, string(data), "already been reviewed")

		resp, data = doJSON(t, http.MethodPatch, srv.URL+"/resignations/"+resignation.ID+"/reject", hrToken, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, string(data), "already been reviewed")
	})

	var interview types.ExitInterview

	t.Run("owner submits the exit interview", func(t *testing.T) {
		answers := map[string]string{
			"primaryReason":     "relocation",
			"wouldRecommend":    "yes",
			"managerSupport":    "supportive",
			"compensationFair":  "mostly",
			"improvementAreas":  "internal mobility",
			"additionalRemarks": "thanks for everything",
		}
		resp, data := doJSON(t, http.MethodPost, srv.URL+"/exit-interviews", employeeToken, map[string]any{
			"resignationId": resignation.ID,
			"answers":       answers,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
		require.NoError(t, json.Unmarshal(data, &interview))
		require.Equal(t, resignation.ID, interview.ResignationID)
		require.Len(t, interview.Answers, 6)
	})

	t.Run("duplicate interview is rejected", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPost, srv.URL+"/exit-interviews", employeeToken, map[string]any{
			"resignationId": resignation.ID,
			"answers":       map[string]string{"q": "a"},
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, string(data), "already submitted")
	})

	t.Run("non-owner cannot submit or read the interview", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/exit-interviews", coworkerToken, map[string]any{
			"resignationId": resignation.ID,
			"answers":       map[string]string{"q": "a"},
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/exit-interviews/"+interview.ID, coworkerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("interview is fetchable by id and by resignation", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/exit-interviews/"+interview.ID, employeeToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, data := doJSON(t, http.MethodGet, srv.URL+"/exit-interviews/resignation/"+resignation.ID, hrToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var byRes types.ExitInterview
		require.NoError(t, json.Unmarshal(data, &byRes))
		require.Equal(t, interview.ID, byRes.ID)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/exit-interviews/resignation/does-not-exist", hrToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("hr marks the interview reviewed", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodPatch, srv.URL+"/exit-interviews/"+interview.ID+"/review", hrToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		var reviewed types.ExitInterview
		require.NoError(t, json.Unmarshal(data, &reviewed))
		require.NotNil(t, reviewed.ReviewedAt)
		require.NotEmpty(t, reviewed.ReviewedBy)

		resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/exit-interviews/"+interview.ID+"/review", employeeToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("lists are scoped by role", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodGet, srv.URL+"/resignations", employeeToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var own []types.Resignation
		require.NoError(t, json.Unmarshal(data, &own))
		require.Len(t, own, 1)

		resp, data = doJSON(t, http.MethodGet, srv.URL+"/exit-interviews", coworkerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var none []types.ExitInterview
		require.NoError(t, json.Unmarshal(data, &none))
		require.Empty(t, none)
	})
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(data), "ok")
}
