// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/authz"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	adminEmail = "admin@example.com"
)

// testDBSemaphore serializes tests that hold a DuckDB connection.
var testDBSemaphore = make(chan struct{}, 1)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e *events.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]events.Kind, len(p.events))
	for i, e := range p.events {
		kinds[i] = e.Kind
	}
	return kinds
}

type testServer struct {
	t         *testing.T
	db        *database.DB
	handler   http.Handler
	publisher *recordingPublisher
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func testSecurity() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:                testSecret,
		AccessTokenExpireMinutes: 60,
		BcryptCost:               4,
		AdminEmails:              []string{adminEmail},
		CORSOrigins:              []string{"*"},
		AuthRateLimitReqs:        1000,
		AuthRateLimitWindow:      time.Minute,
		RateLimitDisabled:        true,
	}
}

func setupTestServer(t *testing.T, security config.SecurityConfig) *testServer {
	t.Helper()
	return setupTestServerWithEngine(t, security, recommend.DefaultConfig())
}

func setupTestServerWithEngine(t *testing.T, security config.SecurityConfig, engineCfg *recommend.Config) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{Security: security}
	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	engine, err := recommend.NewEngine(engineCfg, database.NewProvider(db), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	enforcer, err := authz.NewEnforcer("")
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	handler := NewHandler(db, engine, auth.NewService(db, tokens, &cfg.Security), cfg)
	publisher := &recordingPublisher{}
	handler.SetEventPublisher(publisher, config.EventsBackendMemory)

	router := NewRouter(
		handler,
		auth.NewMiddleware(tokens, db),
		authz.NewMiddleware(enforcer, WriteError),
		NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)),
	)

	return &testServer{t: t, db: db, handler: router.Setup(), publisher: publisher}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode envelope: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func (s *testServer) signup(email string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/auth/signup", "", models.SignupRequest{Email: email, Password: "secret1"})
	if rec.Code != http.StatusOK {
		s.t.Fatalf("signup %s = %d: %s", email, rec.Code, rec.Body.String())
	}
	var token models.TokenResponse
	decodeData(s.t, env, &token)
	return token.AccessToken
}

func (s *testServer) createMovie(title, genres, overview string) int {
	s.t.Helper()
	m, err := s.db.CreateMovie(context.Background(), &models.CreateMovieRequest{Title: title, Genres: genres, Overview: overview})
	if err != nil {
		s.t.Fatalf("CreateMovie(%q): %v", title, err)
	}
	return m.ID
}

func (s *testServer) rate(token string, movieID, score int) {
	s.t.Helper()
	rec, _ := s.do(http.MethodPost, "/api/ratings", token, models.RatingRequest{MovieID: movieID, Score: score})
	if rec.Code != http.StatusOK {
		s.t.Fatalf("rate %d = %d: %s", movieID, rec.Code, rec.Body.String())
	}
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("code = %s, want %s", env.Error.Code, code)
	}
	if message != "" && env.Error.Message != message {
		t.Errorf("message = %q, want %q", env.Error.Message, message)
	}
}

func TestAuth_SignupAndLogin(t *testing.T) {
	s := setupTestServer(t, testSecurity())

	token := s.signup("alice@example.com")
	if token == "" {
		t.Fatal("empty access token")
	}

	rec, env := s.do(http.MethodPost, "/api/auth/signup", "", models.SignupRequest{Email: "Alice@Example.com", Password: "another"})
	expectError(t, rec, env, http.StatusBadRequest, ErrCodeConflict, "Email already registered")

	rec, env = s.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	expectError(t, rec, env, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials")

	rec, env = s.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	expectError(t, rec, env, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials")

	rec, env = s.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}
	var tok models.TokenResponse
	decodeData(t, env, &tok)
	if tok.TokenType != "bearer" || tok.ExpiresIn != 3600 {
		t.Errorf("token = %+v", tok)
	}
	if env.Metadata.RequestID == "" || rec.Header().Get("X-Request-ID") != env.Metadata.RequestID {
		t.Errorf("request id header %q, metadata %q", rec.Header().Get("X-Request-ID"), env.Metadata.RequestID)
	}
}

func TestAuth_SignupValidation(t *testing.T) {
	s := setupTestServer(t, testSecurity())

	tests := []struct {
		name  string
		body  interface{}
		field string
	}{
		{name: "bad email", body: models.SignupRequest{Email: "not-an-email", Password: "secret1"}, field: "email"},
		{name: "short password", body: models.SignupRequest{Email: "a@example.com", Password: "abc"}, field: "password"},
		{name: "malformed json", body: "{", field: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(http.MethodPost, "/api/auth/signup", "", tt.body)
			expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation, "")
			if tt.field != "" && env.Error.Details["field"] != tt.field {
				t.Errorf("details = %v, want field %s", env.Error.Details, tt.field)
			}
		})
	}
}

func TestMovies(t *testing.T) {
	s := setupTestServer(t, testSecurity())
	adminToken := s.signup(adminEmail)
	userToken := s.signup("bob@example.com")

	year := 1995
	create := models.CreateMovieRequest{Title: "Heat", Year: &year, Genres: "Action|Crime", Overview: "A heist crew."}

	rec, env := s.do(http.MethodPost, "/api/movies", "", create)
	expectError(t, rec, env, http.StatusUnauthorized, ErrCodeUnauthorized, "")

	rec, env = s.do(http.MethodPost, "/api/movies", userToken, create)
	expectError(t, rec, env, http.StatusForbidden, ErrCodeForbidden, "")

	rec, env = s.do(http.MethodPost, "/api/movies", adminToken, models.CreateMovieRequest{Title: "Bad", Genres: "Action||"})
	expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation, "")

	rec, env = s.do(http.MethodPost, "/api/movies", adminToken, create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var heat models.Movie
	decodeData(t, env, &heat)
	if heat.ID == 0 || heat.Title != "Heat" || heat.Year == nil || *heat.Year != 1995 {
		t.Errorf("created = %+v", heat)
	}
	s.createMovie("Toy Story", "Animation|Comedy", "")

	rec, env = s.do(http.MethodGet, "/api/movies?q=HEA", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var list []models.MovieSummary
	decodeData(t, env, &list)
	if len(list) != 1 || list[0].ID != heat.ID || list[0].AvgRating != nil {
		t.Errorf("search = %+v", list)
	}

	rec, env = s.do(http.MethodGet, "/api/movies?genre=comedy&page=1&size=5", "", nil)
	decodeData(t, env, &list)
	if rec.Code != http.StatusOK || len(list) != 1 || list[0].Title != "Toy Story" {
		t.Errorf("genre filter = %d %+v", rec.Code, list)
	}

	for _, path := range []string{"/api/movies?size=500", "/api/movies?year=abc", "/api/movies?page=0"} {
		rec, env = s.do(http.MethodGet, path, "", nil)
		expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation, "")
	}

	rec, env = s.do(http.MethodGet, "/api/movies/999", "", nil)
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound, "Movie not found")

	rec, env = s.do(http.MethodGet, "/api/movies/abc", "", nil)
	expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation, "")

	if kinds := s.publisher.kinds(); len(kinds) != 1 || kinds[0] != events.KindMovieCreated {
		t.Errorf("published = %v, want one movie.created", kinds)
	}
}

func TestRatings(t *testing.T) {
	s := setupTestServer(t, testSecurity())
	token := s.signup("carol@example.com")
	heat := s.createMovie("Heat", "Action|Crime", "")
	alien := s.createMovie("Alien", "Horror|Sci-Fi", "")

	rec, env := s.do(http.MethodPost, "/api/ratings", "", models.RatingRequest{MovieID: heat, Score: 5})
	expectError(t, rec, env, http.StatusUnauthorized, ErrCodeUnauthorized, "Not authenticated")

	rec, env = s.do(http.MethodPost, "/api/ratings", token, models.RatingRequest{MovieID: 999, Score: 5})
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound, "Movie not found")

	rec, env = s.do(http.MethodPost, "/api/ratings", token, models.RatingRequest{MovieID: heat, Score: 6})
	expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation, "score must be at most 5")

	s.rate(token, heat, 4)
	s.rate(token, alien, 2)
	s.rate(token, heat, 5)

	rec, env = s.do(http.MethodGet, "/api/ratings/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me = %d", rec.Code)
	}
	var mine []models.Rating
	decodeData(t, env, &mine)
	if len(mine) != 2 || mine[0].MovieID != heat || mine[0].Score != 5 || mine[0].Title != "Heat" {
		t.Errorf("my ratings = %+v", mine)
	}

	rec, env = s.do(http.MethodDelete, "/api/ratings/"+itoa(alien), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", rec.Code, rec.Body.String())
	}
	var ok map[string]bool
	decodeData(t, env, &ok)
	if !ok["ok"] {
		t.Errorf("delete body = %s", env.Data)
	}

	rec, env = s.do(http.MethodDelete, "/api/ratings/"+itoa(alien), token, nil)
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound, "Rating not found")

	want := []events.Kind{events.KindRatingUpserted, events.KindRatingUpserted, events.KindRatingUpserted, events.KindRatingDeleted}
	got := s.publisher.kinds()
	if len(got) != len(want) {
		t.Fatalf("published = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRecommendations(t *testing.T) {
	s := setupTestServer(t, testSecurity())

	heat := s.createMovie("Heat", "Action|Crime", "a crew of thieves plans a heist")
	ronin := s.createMovie("Ronin", "Action|Thriller", "mercenaries plan a heist in france")
	notebook := s.createMovie("The Notebook", "Romance|Drama", "a summer love story")
	toy := s.createMovie("Toy Story", "Animation|Comedy", "toys come to life")

	alice := s.signup("alice@example.com")
	bob := s.signup("bob@example.com")
	newcomer := s.signup("new@example.com")

	s.rate(alice, heat, 5)
	s.rate(alice, notebook, 1)
	s.rate(bob, heat, 5)
	s.rate(bob, ronin, 5)
	s.rate(bob, notebook, 1)
	s.rate(bob, toy, 3)

	rec, env := s.do(http.MethodGet, "/api/recommendations/content?top_n=2", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("content = %d: %s", rec.Code, rec.Body.String())
	}
	var recs []recommend.Recommendation
	decodeData(t, env, &recs)
	if len(recs) != 2 || recs[0].ItemID != ronin {
		t.Errorf("content recs = %+v, want Ronin first", recs)
	}
	for _, r := range recs {
		if r.ItemID == heat || r.ItemID == notebook {
			t.Errorf("rated movie %d recommended", r.ItemID)
		}
	}
	if env.Metadata.Fallback != "" {
		t.Errorf("fallback = %q, want none", env.Metadata.Fallback)
	}

	rec, env = s.do(http.MethodGet, "/api/recommendations/cf?k=5&top_n=5", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cf = %d: %s", rec.Code, rec.Body.String())
	}
	decodeData(t, env, &recs)
	if len(recs) == 0 || recs[0].ItemID != ronin {
		t.Errorf("cf recs = %+v, want Ronin first", recs)
	}

	rec, env = s.do(http.MethodGet, "/api/recommendations/content", newcomer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cold start = %d", rec.Code)
	}
	decodeData(t, env, &recs)
	if env.Metadata.Fallback != recommend.FallbackNoRatings.String() {
		t.Errorf("fallback = %q", env.Metadata.Fallback)
	}
	if len(recs) != 4 || recs[0].ItemID != heat {
		t.Errorf("popularity recs = %+v, want Heat first", recs)
	}

	tests := []struct {
		path string
		code string
	}{
		{path: "/api/recommendations/content?top_n=0", code: ErrCodeValidation},
		{path: "/api/recommendations/content?top_n=101", code: ErrCodeValidation},
		{path: "/api/recommendations/cf?k=abc", code: ErrCodeValidation},
		{path: "/api/recommendations/cf?k=0", code: ErrCodeValidation},
	}
	for _, tt := range tests {
		rec, env = s.do(http.MethodGet, tt.path, alice, nil)
		expectError(t, rec, env, http.StatusBadRequest, tt.code, "")
	}

	rec, env = s.do(http.MethodGet, "/api/recommendations/content", "", nil)
	expectError(t, rec, env, http.StatusUnauthorized, ErrCodeUnauthorized, "")
}

func TestRecommendations_ConfiguredLimits(t *testing.T) {
	engineCfg := recommend.DefaultConfig()
	engineCfg.Limits.MaxTopN = 250
	engineCfg.Limits.MaxK = 250
	s := setupTestServerWithEngine(t, testSecurity(), engineCfg)
	token := s.signup("erin@example.com")

	for _, path := range []string{
		"/api/recommendations/content?top_n=200",
		"/api/recommendations/cf?k=200&top_n=250",
	} {
		if rec, _ := s.do(http.MethodGet, path, token, nil); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d: %s", path, rec.Code, rec.Body.String())
		}
	}

	for _, path := range []string{
		"/api/recommendations/content?top_n=251",
		"/api/recommendations/cf?k=251",
	} {
		rec, env := s.do(http.MethodGet, path, token, nil)
		expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation, "")
	}
}

func TestRecommendations_UserRateLimit(t *testing.T) {
	security := testSecurity()
	security.RateLimitDisabled = false
	security.UserRateLimitPerMinute = 1
	security.UserRateLimitBurst = 1
	s := setupTestServer(t, security)
	token := s.signup("dave@example.com")

	rec, _ := s.do(http.MethodGet, "/api/recommendations/content", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first = %d", rec.Code)
	}
	rec, env := s.do(http.MethodGet, "/api/recommendations/cf", token, nil)
	expectError(t, rec, env, http.StatusTooManyRequests, ErrCodeRateLimited, "")
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}

func TestOverviewHealthAndMetrics(t *testing.T) {
	s := setupTestServer(t, testSecurity())
	token := s.signup("erin@example.com")
	heat := s.createMovie("Heat", "Action", "")
	s.createMovie("Alien", "Horror", "")
	s.rate(token, heat, 4)

	rec, env := s.do(http.MethodGet, "/api/metrics/overview", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview = %d", rec.Code)
	}
	var ov models.Overview
	decodeData(t, env, &ov)
	want := models.Overview{TotalUsers: 1, TotalMovies: 2, TotalRatings: 1, AvgRatingsPerUser: 1, CoveragePct: 50}
	if ov != want {
		t.Errorf("overview = %+v, want %+v", ov, want)
	}

	rec, env = s.do(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	var health models.HealthStatus
	decodeData(t, env, &health)
	if health.Status != "healthy" || !health.DatabaseOK || health.EventsBackend != config.EventsBackendMemory || health.CorpusVersion == "" {
		t.Errorf("health = %+v", health)
	}

	rec, _ = s.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("cinematch_")) {
		t.Errorf("metrics = %d", rec.Code)
	}

	rec, env = s.do(http.MethodGet, "/api/nope", "", nil)
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound, "")

	rec, env = s.do(http.MethodPut, "/api/ratings/me", token, nil)
	expectError(t, rec, env, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "")
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
