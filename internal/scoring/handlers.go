package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

const idempotencyHeader = "Idempotency-Key"

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

type spellingItem struct {
	Word    string   `json:"word"`
	TestID  string   `json:"test_id"`
	Options []string `json:"options"`
}

type homophoneItem struct {
	Homophone string `json:"homoph"`
	TestID    string `json:"test_id"`
	Amount    int    `json:"amount"`
}

type coveredPhoneme struct {
	Phoneme  string  `json:"phoneme"`
	AudioURL *string `json:"audio_url"`
}

type learnResponse struct {
	Phoneme  string              `json:"phoneme"`
	IPA      string              `json:"ipa"`
	AudioURL *string             `json:"audio_url"`
	Patterns map[string][]string `json:"patterns"`
}

type answerRequest struct {
	TestID string `json:"test_id"`
	Answer string `json:"answer"`
}

type progressRequest struct {
	NewPhoneme string `json:"new_phoneme"`
	AudioPath  string `json:"audio_path"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// seenAndPool splits the catalog into covered phonemes and the ones left
// to learn.
func (s *Server) seenAndPool() ([]*PhonemeEntry, []*PhonemeEntry, error) {
	progress, err := s.progress.Load()
	if err != nil {
		return nil, nil, err
	}
	seenSet := make(map[string]bool, len(progress))
	for _, p := range progress {
		seenSet[p.Phoneme] = true
	}

	var seen, pool []*PhonemeEntry
	for _, p := range progress {
		if e, ok := s.catalog.Lookup(p.Phoneme); ok {
			seen = append(seen, e)
		}
	}
	for i := range s.catalog.Phonemes {
		e := &s.catalog.Phonemes[i]
		if !seenSet[e.Symbol] {
			pool = append(pool, e)
		}
	}
	return seen, pool, nil
}

func (s *Server) handleReviewStatus(w http.ResponseWriter, r *http.Request) {
	seen, pool, err := s.seenAndPool()
	if err != nil {
		s.internalError(w, err)
		return
	}
	status := "review_and_learn"
	switch {
	case len(pool) == 0:
		status = "review_only"
	case len(seen) == 0:
		status = "no_progress"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handlePhonemesCovered(w http.ResponseWriter, r *http.Request) {
	seen, _, err := s.seenAndPool()
	if err != nil {
		s.internalError(w, err)
		return
	}
	out := make([]coveredPhoneme, 0, len(seen))
	for _, e := range seen {
		out = append(out, coveredPhoneme{Phoneme: e.Symbol, AudioURL: s.audioURL(e)})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	_, pool, err := s.seenAndPool()
	if err != nil {
		s.internalError(w, err)
		return
	}
	if len(pool) == 0 {
		respondError(w, http.StatusConflict, "No new phonemes to learn")
		return
	}
	e := sample(s, pool, 1)[0]

	patterns := make(map[string][]string, len(e.Patterns))
	for _, p := range e.Patterns {
		patterns[p.Name] = sample(s, p.Examples, 2)
	}
	respondJSON(w, http.StatusOK, learnResponse{
		Phoneme:  e.Symbol,
		IPA:      "/" + e.Symbol + "/",
		AudioURL: s.audioURL(e),
		Patterns: patterns,
	})
}

func (s *Server) handleSpelling(w http.ResponseWriter, r *http.Request) {
	e, ok := s.phonemeParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.spellingItems(sample(s, e.Spelling, s.config.SpellingPerSet)))
}

func (s *Server) handleHomophones(w http.ResponseWriter, r *http.Request) {
	e, ok := s.phonemeParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.homophoneItems(sample(s, e.Homophones, s.config.HomophonesPerSet)))
}

func (s *Server) handleReviewSpelling(w http.ResponseWriter, r *http.Request) {
	seen, _, err := s.seenAndPool()
	if err != nil {
		s.internalError(w, err)
		return
	}
	var entries []SpellingEntry
	for _, e := range seen {
		entries = append(entries, sample(s, e.Spelling, s.config.ReviewPerPhoneme)...)
	}
	respondJSON(w, http.StatusOK, s.spellingItems(sample(s, entries, 0)))
}

func (s *Server) handleReviewHomophones(w http.ResponseWriter, r *http.Request) {
	seen, _, err := s.seenAndPool()
	if err != nil {
		s.internalError(w, err)
		return
	}
	var entries []HomophoneEntry
	for _, e := range seen {
		entries = append(entries, sample(s, e.Homophones, s.config.ReviewPerPhoneme)...)
	}
	respondJSON(w, http.StatusOK, s.homophoneItems(sample(s, entries, 0)))
}

func (s *Server) spellingItems(entries []SpellingEntry) []spellingItem {
	out := make([]spellingItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, spellingItem{
			Word:    e.Word,
			TestID:  s.tests.NewSpelling(e.Options[0]),
			Options: sample(s, e.Options, 0),
		})
	}
	return out
}

func (s *Server) homophoneItems(entries []HomophoneEntry) []homophoneItem {
	out := make([]homophoneItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, homophoneItem{
			Homophone: e.Sound,
			TestID:    s.tests.NewHomophone(e.Words),
			Amount:    len(e.Words),
		})
	}
	return out
}

func (s *Server) handleCheckSpelling(w http.ResponseWriter, r *http.Request) {
	s.handleCheck(w, r, "spelling", s.tests.CheckSpelling)
}

func (s *Server) handleCheckHomophone(w http.ResponseWriter, r *http.Request) {
	s.handleCheck(w, r, "homophone", s.tests.CheckHomophone)
}

// handleCheck scores an answer once per idempotency key; repeats of a
// key get the first response back.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request, kind string, check func(id, answer string) (Verdict, error)) {
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key == "" {
		respondError(w, http.StatusBadRequest, "Missing Idempotency-Key header")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TestID == "" {
		respondError(w, http.StatusUnprocessableEntity, "Body must be {test_id, answer}")
		return
	}

	s.checkMu.Lock()
	defer s.checkMu.Unlock()

	cacheKey := kind + ":" + key
	cached, err := s.idem.Get(r.Context(), cacheKey)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if cached != nil {
		IdempotentReplays.WithLabelValues(kind).Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(cached.Status)
		w.Write(cached.Body)
		return
	}

	verdict, err := check(req.TestID, req.Answer)
	if errors.Is(err, ErrTestNotFound) {
		respondError(w, http.StatusNotFound, "Test not found")
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	AnswersTotal.WithLabelValues(kind, verdict.Answered).Inc()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(verdict); err != nil {
		s.internalError(w, err)
		return
	}
	if err := s.idem.Put(r.Context(), cacheKey, CachedResponse{Status: http.StatusOK, Body: buf.Bytes()}, s.config.IdempotencyTTL); err != nil {
		s.logger.Warn("failed to cache check response", "kind", kind, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPhoneme == "" {
		respondError(w, http.StatusUnprocessableEntity, "Body must be {new_phoneme, audio_path}")
		return
	}
	if _, ok := s.catalog.Lookup(req.NewPhoneme); !ok {
		respondError(w, http.StatusNotFound, "Phoneme not found")
		return
	}
	if err := s.progress.Add(req.NewPhoneme, req.AudioPath); err != nil {
		s.internalError(w, err)
		return
	}
	s.logger.Info("progress saved", "phoneme", req.NewPhoneme)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) phonemeParam(w http.ResponseWriter, r *http.Request) (*PhonemeEntry, bool) {
	raw := chi.URLParam(r, "phoneme")
	symbol, err := url.PathUnescape(raw)
	if err != nil {
		symbol = raw
	}
	e, ok := s.catalog.Lookup(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "Phoneme not found")
		return nil, false
	}
	return e, true
}

func (s *Server) audioURL(e *PhonemeEntry) *string {
	if s.config.AudioBaseURL == "" || e.Audio == "" {
		return nil
	}
	u := strings.TrimRight(s.config.AudioBaseURL, "/") + "/" + e.Audio + ".mp3"
	return &u
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
