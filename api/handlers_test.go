package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"donutsmp/auth"
	"donutsmp/models"
	"donutsmp/quiz"
	"donutsmp/service"
	"donutsmp/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	accounts *mockAccountService
	store    *memoryStore
	sessions *session.Manager
	provider *fakeProvider
	router   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	accounts := new(mockAccountService)
	store := newMemoryStore()
	sessions := session.NewManager(store, session.Options{})
	provider := &fakeProvider{
		validCode: "good-code",
		profile:   &auth.Profile{ID: "80351110224678912", DisplayName: "steve"},
	}

	h := NewHandler(accounts, quiz.DefaultEngine(), sessions, provider, auth.NewStateSigner("test-secret", false), "")
	return &testServer{
		accounts: accounts,
		store:    store,
		sessions: sessions,
		provider: provider,
		router:   NewRouter(h, RouterOptions{RequestTimeout: 5 * time.Second}),
	}
}

// login creates a session for userID and returns its cookie
func (s *testServer) login(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	_, err := s.sessions.Create(context.Background(), w, &models.User{ID: userID, DisplayName: "steve"})
	require.NoError(t, err)
	return findCookie(w.Result().Cookies(), session.CookieName)
}

func (s *testServer) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", w.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user"},
		{http.MethodPost, "/api/user/game-username"},
		{http.MethodPost, "/api/deposit"},
		{http.MethodGet, "/api/quiz/availability"},
		{http.MethodGet, "/api/quiz/simple"},
		{http.MethodPost, "/api/quiz/simple/submit"},
		{http.MethodPost, "/api/withdraw"},
		{http.MethodGet, "/api/withdrawals"},
		{http.MethodGet, "/api/balance-history"},
	}

	forged := &http.Cookie{Name: session.CookieName, Value: "forged"}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			for _, cookie := range []*http.Cookie{nil, forged} {
				w := s.do(rt.method, rt.path, nil, cookie)
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Equal(t, "Not authenticated", decodeBody(t, w)["error"])
			}
		})
	}

	s.accounts.AssertExpectations(t)
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	gameName := "SteveMC"
	s.accounts.On("GetProfile", mock.Anything, int64(42)).Return(&models.User{
		ID:           42,
		DisplayName:  "steve",
		GameUsername: &gameName,
		Balance:      1500,
	}, nil)

	w := s.do(http.MethodGet, "/api/user", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"displayName":"steve","gameUsername":"SteveMC","balance":1500}`, w.Body.String())
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	s.accounts.On("GetProfile", mock.Anything, int64(42)).Return(nil, service.ErrUserNotFound)

	w := s.do(http.MethodGet, "/api/user", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetGameUsername(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	s.accounts.On("LinkGameUsername", mock.Anything, int64(42), "SteveMC").Return(nil)
	s.accounts.On("LinkGameUsername", mock.Anything, int64(42), "").Return(service.ErrInvalidInput)

	w := s.do(http.MethodPost, "/api/user/game-username", map[string]string{"gameUsername": "SteveMC"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/user/game-username", map[string]string{"gameUsername": ""}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(m *mockAccountService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "credits balance",
			body: map[string]int64{"amount": 1000},
			setup: func(m *mockAccountService) {
				m.On("Credit", mock.Anything, int64(42), int64(1000)).Return(&models.Deposit{ID: 1, Amount: 1000}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true}`,
		},
		{
			name: "non-positive amount",
			body: map[string]int64{"amount": 0},
			setup: func(m *mockAccountService) {
				m.On("Credit", mock.Anything, int64(42), int64(0)).Return(nil, service.ErrInvalidAmount)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid amount"}`,
		},
		{
			name: "amount overflowing the balance",
			body: map[string]int64{"amount": 9_223_372_036_854_775_807},
			setup: func(m *mockAccountService) {
				m.On("Credit", mock.Anything, int64(42), int64(9_223_372_036_854_775_807)).
					Return(nil, fmt.Errorf("failed to credit balance: %w", service.ErrInvalidAmount))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid amount"}`,
		},
		{
			name:       "fractional amount",
			body:       `{"amount": 1.5}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid amount"}`,
		},
		{
			name: "store failure",
			body: map[string]int64{"amount": 5},
			setup: func(m *mockAccountService) {
				m.On("Credit", mock.Anything, int64(42), int64(5)).Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			cookie := s.login(t, 42)
			if tt.setup != nil {
				tt.setup(s.accounts)
			}

			w := s.do(http.MethodPost, "/api/deposit", tt.body, cookie)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			s.accounts.AssertExpectations(t)
		})
	}
}

func TestQuizAvailability(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	s.accounts.On("QuizAvailability", mock.Anything, int64(42)).Return(map[models.QuizTier]bool{
		models.QuizTierSimple: false,
		models.QuizTierMedium: true,
		models.QuizTierHard:   true,
	}, nil)

	w := s.do(http.MethodGet, "/api/quiz/availability", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"simple":false,"medium":true,"hard":true}`, w.Body.String())
}

func TestStartQuiz(t *testing.T) {
	tests := []struct {
		name       string
		tier       string
		purchase   *service.QuizPurchase
		err        error
		wantStatus int
	}{
		{
			name:       "charges and serves questions",
			tier:       "medium",
			purchase:   &service.QuizPurchase{Cost: quiz.MediumCost, NewBalance: 0},
			wantStatus: http.StatusOK,
		},
		{name: "already taken today", tier: "simple", err: service.ErrAlreadyAttemptedToday, wantStatus: http.StatusForbidden},
		{name: "insufficient balance", tier: "hard", err: service.ErrInsufficientBalance, wantStatus: http.StatusBadRequest},
		{name: "unknown tier", tier: "impossible", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			cookie := s.login(t, 42)

			if tier, ok := models.ParseQuizTier(tt.tier); ok {
				if tt.err != nil {
					s.accounts.On("PurchaseQuiz", mock.Anything, int64(42), tier).Return(nil, tt.err)
				} else {
					s.accounts.On("PurchaseQuiz", mock.Anything, int64(42), tier).Return(tt.purchase, nil)
				}
			}

			w := s.do(http.MethodGet, "/api/quiz/"+tt.tier, nil, cookie)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, decodeBody(t, w)["error"])
				return
			}

			var resp struct {
				Questions []map[string]any `json:"questions"`
				Cost      int64            `json:"cost"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, quiz.MediumCost, resp.Cost)
			assert.Len(t, resp.Questions, 7)
			for _, q := range resp.Questions {
				assert.Contains(t, q, "question")
				assert.Contains(t, q, "options")
				assert.NotContains(t, q, "correct")
			}
		})
	}
}

func TestStartQuiz_UnknownTierDoesNotCharge(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	w := s.do(http.MethodGet, "/api/quiz/legendary", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.accounts.AssertNotCalled(t, "PurchaseQuiz", mock.Anything, mock.Anything, mock.Anything)
}

func correctAnswers(tier models.QuizTier) []int {
	for _, tt := range quiz.DefaultTiers() {
		if tt.Name == tier {
			answers := make([]int, len(tt.Questions))
			for i, q := range tt.Questions {
				answers[i] = q.Correct
			}
			return answers
		}
	}
	return nil
}

func TestSubmitQuiz_AllCorrect(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	s.accounts.On("SettleQuiz", mock.Anything, int64(42), models.QuizTierSimple, 5, true).Return(&models.QuizSettlement{
		Tier:       models.QuizTierSimple,
		Score:      5,
		AllCorrect: true,
		Reward:     quiz.SimpleReward,
		NewBalance: quiz.SimpleReward,
	}, nil)

	w := s.do(http.MethodPost, "/api/quiz/simple/submit", map[string][]int{"answers": correctAnswers(models.QuizTierSimple)}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"correctAnswers":5,"totalQuestions":5,"allCorrect":true,"reward":650000,"passed":true}`, w.Body.String())
}

func TestSubmitQuiz_PartialScore(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	answers := correctAnswers(models.QuizTierMedium)
	answers[0] = (answers[0] + 1) % 4

	s.accounts.On("SettleQuiz", mock.Anything, int64(42), models.QuizTierMedium, 6, false).Return(&models.QuizSettlement{
		Tier:  models.QuizTierMedium,
		Score: 6,
	}, nil)

	w := s.do(http.MethodPost, "/api/quiz/medium/submit", map[string][]int{"answers": answers}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"correctAnswers":6,"totalQuestions":7,"allCorrect":false,"reward":0,"passed":false}`, w.Body.String())
}

func TestSubmitQuiz_NullAnswersAreWrong(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	s.accounts.On("SettleQuiz", mock.Anything, int64(42), models.QuizTierSimple, 0, false).Return(&models.QuizSettlement{
		Tier: models.QuizTierSimple,
	}, nil)

	w := s.do(http.MethodPost, "/api/quiz/simple/submit", `{"answers":[null,null,null,null,null]}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"correctAnswers":0,"totalQuestions":5,"allCorrect":false,"reward":0,"passed":false}`, w.Body.String())
	s.accounts.AssertExpectations(t)
}

func TestSubmitQuiz_NullAnswerAmongCorrectOnes(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	answers := make([]*int, 0, 5)
	for _, a := range correctAnswers(models.QuizTierSimple) {
		a := a
		answers = append(answers, &a)
	}
	answers[1] = nil

	s.accounts.On("SettleQuiz", mock.Anything, int64(42), models.QuizTierSimple, 4, false).Return(&models.QuizSettlement{
		Tier:  models.QuizTierSimple,
		Score: 4,
	}, nil)

	w := s.do(http.MethodPost, "/api/quiz/simple/submit", map[string][]*int{"answers": answers}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"correctAnswers":4,"totalQuestions":5,"allCorrect":false,"reward":0,"passed":false}`, w.Body.String())
}

func TestSubmitQuiz_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "second submission", err: service.ErrAlreadyAttemptedToday, wantStatus: http.StatusForbidden},
		{name: "never purchased", err: service.ErrQuizNotStarted, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			cookie := s.login(t, 42)

			s.accounts.On("SettleQuiz", mock.Anything, int64(42), models.QuizTierHard, 0, false).Return(nil, tt.err)

			w := s.do(http.MethodPost, "/api/quiz/hard/submit", map[string][]int{"answers": {}}, cookie)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSubmitQuiz_BadBody(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	w := s.do(http.MethodPost, "/api/quiz/simple/submit", `{"answers": "abc"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.accounts.AssertNotCalled(t, "SettleQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdraw(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	s.accounts.On("RequestWithdrawal", mock.Anything, int64(42), "SteveMC", int64(400)).
		Return(&models.Withdrawal{ID: 1, Amount: 400, Status: models.WithdrawalStatusPending}, nil)
	s.accounts.On("RequestWithdrawal", mock.Anything, int64(42), "SteveMC", int64(9000)).
		Return(nil, service.ErrInsufficientBalance)
	s.accounts.On("RequestWithdrawal", mock.Anything, int64(42), "", int64(10)).
		Return(nil, service.ErrInvalidInput)

	w := s.do(http.MethodPost, "/api/withdraw", map[string]any{"gameUsername": "SteveMC", "amount": 400}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/withdraw", map[string]any{"gameUsername": "SteveMC", "amount": 9000}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Insufficient balance"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/withdraw", map[string]any{"gameUsername": "", "amount": 10}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListWithdrawals(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	requested := time.Date(2026, 5, 20, 15, 4, 5, 0, time.UTC)
	s.accounts.On("ListWithdrawals", mock.Anything, int64(42), service.DefaultWithdrawalListLimit).Return([]*models.Withdrawal{
		{GameUsername: "SteveMC", Amount: 400, Status: models.WithdrawalStatusPending, RequestedAt: requested},
	}, nil)

	w := s.do(http.MethodGet, "/api/withdrawals", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"gameUsername":"SteveMC","amount":400,"status":"pending","requestedAt":"2026-05-20T15:04:05Z"}]`, w.Body.String())
}

func TestBalanceHistory(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)

	s.accounts.On("BalanceHistory", mock.Anything, int64(42), 0).Return([]*models.BalanceHistory{}, nil)
	s.accounts.On("BalanceHistory", mock.Anything, int64(42), 100).Return([]*models.BalanceHistory{
		{ChangeAmount: -500, BalanceAfter: 0, TransactionType: models.TransactionTypeWithdrawal},
	}, nil)

	w := s.do(http.MethodGet, "/api/balance-history", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodGet, "/api/balance-history?limit=500", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transactionType":"withdrawal"`)

	w = s.do(http.MethodGet, "/api/balance-history?limit=-1", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRedirectsToProvider(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/auth/login", "/auth/discord"} {
		w := s.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusFound, w.Code)

		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "discord.test", loc.Host)
		assert.NotEmpty(t, loc.Query().Get("state"))
		assert.NotNil(t, findCookie(w.Result().Cookies(), auth.StateCookieName))
	}
}

// startLogin runs /auth/login and returns the state and its cookie
func startLogin(t *testing.T, s *testServer) (string, *http.Cookie) {
	t.Helper()
	w := s.do(http.MethodGet, "/auth/login", nil)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	cookie := findCookie(w.Result().Cookies(), auth.StateCookieName)
	require.NotNil(t, cookie)
	return loc.Query().Get("state"), cookie
}

func TestCallback_Success(t *testing.T) {
	s := newTestServer(t)
	state, stateCookie := startLogin(t, s)

	user := &models.User{ID: 42, DiscordID: "80351110224678912", DisplayName: "steve"}
	s.accounts.On("GetOrCreateUser", mock.Anything, "80351110224678912", "steve").Return(user, nil)
	s.accounts.On("GetProfile", mock.Anything, int64(42)).Return(user, nil)

	w := s.do(http.MethodGet, "/auth/callback?code=good-code&state="+url.QueryEscape(state), nil, stateCookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, DefaultLoginSuccessPath, w.Header().Get("Location"))

	sessionCookie := findCookie(w.Result().Cookies(), session.CookieName)
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, 1, s.store.len())

	w = s.do(http.MethodGet, "/api/user", nil, sessionCookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCallback_Failures(t *testing.T) {
	tests := []struct {
		name    string
		query   func(state string) string
		withSt  bool
		wantLoc string
	}{
		{
			name:    "missing code",
			query:   func(state string) string { return "state=" + url.QueryEscape(state) },
			withSt:  true,
			wantLoc: "/?error=no_code",
		},
		{
			name:    "provider denied",
			query:   func(state string) string { return "error=access_denied" },
			withSt:  true,
			wantLoc: "/?error=no_code",
		},
		{
			name:    "rejected code",
			query:   func(state string) string { return "code=bad-code&state=" + url.QueryEscape(state) },
			withSt:  true,
			wantLoc: "/?error=auth_failed",
		},
		{
			name:    "missing state cookie",
			query:   func(state string) string { return "code=good-code&state=" + url.QueryEscape(state) },
			withSt:  false,
			wantLoc: "/?error=auth_failed",
		},
		{
			name:    "tampered state",
			query:   func(state string) string { return "code=good-code&state=" + url.QueryEscape(state+"x") },
			withSt:  true,
			wantLoc: "/?error=auth_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			state, stateCookie := startLogin(t, s)
			if !tt.withSt {
				stateCookie = nil
			}

			w := s.do(http.MethodGet, "/auth/discord/callback?"+tt.query(state), nil, stateCookie)
			require.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.wantLoc, w.Header().Get("Location"))

			assert.Nil(t, findCookie(w.Result().Cookies(), session.CookieName))
			assert.Equal(t, 0, s.store.len())
			s.accounts.AssertNotCalled(t, "GetOrCreateUser", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCallback_UserStoreFailure(t *testing.T) {
	s := newTestServer(t)
	state, stateCookie := startLogin(t, s)

	s.accounts.On("GetOrCreateUser", mock.Anything, "80351110224678912", "steve").Return(nil, errors.New("connection refused"))

	w := s.do(http.MethodGet, "/auth/callback?code=good-code&state="+url.QueryEscape(state), nil, stateCookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/?error=auth_failed", w.Header().Get("Location"))
	assert.Equal(t, 0, s.store.len())
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, 42)
	require.Equal(t, 1, s.store.len())

	w := s.do(http.MethodGet, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 0, s.store.len())

	cleared := findCookie(w.Result().Cookies(), session.CookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	w = s.do(http.MethodGet, "/api/user", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaticFilesAndCORS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashboard.html"), []byte("<h1>dashboard</h1>"), 0o644))

	h := NewHandler(new(mockAccountService), quiz.DefaultEngine(), session.NewManager(newMemoryStore(), session.Options{}),
		&fakeProvider{}, auth.NewStateSigner("test-secret", false), "")
	router := NewRouter(h, RouterOptions{
		AllowedOrigins: []string{"https://donutsmp.example"},
		StaticDir:      dir,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dashboard")

	req := httptest.NewRequest(http.MethodOptions, "/api/user", nil)
	req.Header.Set("Origin", "https://donutsmp.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://donutsmp.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
