package scoring

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phonix/internal/remote"
)

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ProgressPath = filepath.Join(t.TempDir(), "progress.json")
	cfg.RateLimit = 0
	cfg.Seed = 7
	if mutate != nil {
		mutate(&cfg)
	}
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return NewServer(cfg, catalog, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doJSON(t *testing.T, s *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReviewStatus_FollowsProgress(t *testing.T) {
	s := newTestServer(t, nil)

	status := func() string {
		rec := doJSON(t, s, http.MethodGet, "/reviewstatus", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeBody[map[string]string](t, rec)["status"]
	}

	assert.Equal(t, "no_progress", status())

	require.NoError(t, s.progress.Add("ɔ:", ""))
	assert.Equal(t, "review_and_learn", status())

	for _, p := range s.catalog.Phonemes {
		require.NoError(t, s.progress.Add(p.Symbol, ""))
	}
	assert.Equal(t, "review_only", status())

	rec := doJSON(t, s, http.MethodGet, "/learn", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLearn(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.AudioBaseURL = "https://audio.example/" })

	rec := doJSON(t, s, http.MethodGet, "/learn", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[learnResponse](t, rec)
	e, ok := s.catalog.Lookup(got.Phoneme)
	require.True(t, ok)
	assert.Equal(t, "/"+e.Symbol+"/", got.IPA)
	require.NotNil(t, got.AudioURL)
	assert.Equal(t, "https://audio.example/"+e.Audio+".mp3", *got.AudioURL)
	assert.Len(t, got.Patterns, len(e.Patterns))
	for _, examples := range got.Patterns {
		assert.LessOrEqual(t, len(examples), 2)
	}
}

func TestSpellingAndHomophoneSets(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.SpellingPerSet = 3 })

	rec := doJSON(t, s, http.MethodGet, "/spell/"+url.PathEscape("ɔ:"), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	spelling := decodeBody[[]spellingItem](t, rec)
	assert.Len(t, spelling, 3)
	for _, it := range spelling {
		assert.NotEmpty(t, it.TestID)
		assert.NotEmpty(t, it.Options)
	}

	rec = doJSON(t, s, http.MethodGet, "/homophones/"+url.PathEscape("ɔ:"), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	homophones := decodeBody[[]homophoneItem](t, rec)
	require.NotEmpty(t, homophones)
	for _, it := range homophones {
		assert.GreaterOrEqual(t, it.Amount, 1)
	}

	rec = doJSON(t, s, http.MethodGet, "/spell/zz", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Phoneme not found"}`, rec.Body.String())
}

func TestReview_OnlyCoveredPhonemes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/reviewspell", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.NoError(t, s.progress.Add("i:", ""))
	rec = doJSON(t, s, http.MethodGet, "/reviewspell", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]spellingItem](t, rec), 2)

	rec = doJSON(t, s, http.MethodGet, "/phonemescovered", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"phoneme":"i:","audio_url":null}]`, rec.Body.String())
}

func TestCheckSpelling_Idempotent(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.tests.NewSpelling("order")
	body := `{"test_id":"` + id + `","answer":"awder"}`

	rec := doJSON(t, s, http.MethodPost, "/checkspellanswer", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	key := map[string]string{idempotencyHeader: "k-1"}
	first := doJSON(t, s, http.MethodPost, "/checkspellanswer", body, key)
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"answered":"incorrect","attempts_left":4}`, first.Body.String())

	replay := doJSON(t, s, http.MethodPost, "/checkspellanswer", body, key)
	require.Equal(t, http.StatusOK, replay.Code)
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	next := doJSON(t, s, http.MethodPost, "/checkspellanswer", body, map[string]string{idempotencyHeader: "k-2"})
	assert.JSONEq(t, `{"answered":"incorrect","attempts_left":3}`, next.Body.String())
}

func TestCheck_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	key := map[string]string{idempotencyHeader: "k"}

	rec := doJSON(t, s, http.MethodPost, "/checkhomophanswer", `{"test_id":"nope","answer":"x"}`, key)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Test not found"}`, rec.Body.String())

	rec = doJSON(t, s, http.MethodPost, "/checkhomophanswer", `not json`, key)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSaveProgress(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/saveprogress", `{"new_phoneme":"eə","audio_path":"air.mp3"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	seen, err := s.progress.Load()
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "eə", seen[0].Phoneme)

	rec = doJSON(t, s, http.MethodPost, "/saveprogress", `{"new_phoneme":"zz"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RateLimit = 0.001
		c.RateBurst = 2
	})

	for range 2 {
		rec := doJSON(t, s, http.MethodGet, "/reviewstatus", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, s, http.MethodGet, "/reviewstatus", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	rec = doJSON(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// The trainer client must accept every payload the service produces.
func TestClientRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	cfg := remote.DefaultConfig()
	cfg.BaseURL = ts.URL
	caller := remote.NewHTTPCaller(cfg)
	svc := remote.NewService(caller)
	ctx := context.Background()

	status, err := svc.ReviewStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, remote.StatusNoProgress, status)

	ph, err := svc.Learn(ctx)
	require.NoError(t, err)

	words, err := svc.Spelling(ctx, ph.Phoneme)
	require.NoError(t, err)
	require.NotEmpty(t, words)

	sub := remote.NewSubmitter(caller)
	out := sub.Submit(ctx, words[0].TestID, "definitely wrong", remote.EndpointSpellingCheck)
	require.True(t, out.OK(), "%v", out.Failure)
	assert.Equal(t, remote.AnsweredIncorrect, out.Verdict.Answered)
	assert.Equal(t, 4, out.Verdict.AttemptsLeft)

	homophones, err := svc.Homophones(ctx, ph.Phoneme)
	require.NoError(t, err)
	require.NotEmpty(t, homophones)
	out = sub.Submit(ctx, homophones[0].TestID, "definitely wrong", remote.EndpointHomophoneCheck)
	require.True(t, out.OK(), "%v", out.Failure)

	require.NoError(t, svc.SaveProgress(ctx, remote.Progress{NewPhoneme: ph.Phoneme}))

	covered, err := svc.PhonemesCovered(ctx)
	require.NoError(t, err)
	require.Len(t, covered, 1)
	assert.Equal(t, ph.Phoneme, covered[0].Phoneme)

	_, err = svc.ReviewSpelling(ctx)
	require.NoError(t, err)
	_, err = svc.ReviewHomophones(ctx)
	require.NoError(t, err)
}
