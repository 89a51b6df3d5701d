package scoring

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	spellingAttempts  = 5
	helpAttempts      = 2
	homophoneAttempts = 5
)

// ErrTestNotFound is returned for unknown or finished tests.
var ErrTestNotFound = errors.New("test not found")

// Verdict is the body returned by the check endpoints.
type Verdict struct {
	Answered     string `json:"answered"`
	AttemptsLeft int    `json:"attempts_left,omitempty"`
	Solution     any    `json:"solution,omitempty"`
}

type spellingTest struct {
	solution     string
	attemptsLeft int
	withHelp     bool
}

type homophoneTest struct {
	all          []string
	remaining    []string
	attemptsLeft int
}

// Registry holds the tests handed out and not yet finished.
type Registry struct {
	mu        sync.Mutex
	spelling  map[string]*spellingTest
	homophone map[string]*homophoneTest
	newID     func() string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		spelling:  make(map[string]*spellingTest),
		homophone: make(map[string]*homophoneTest),
		newID:     uuid.NewString,
	}
}

// NewSpelling registers a spelling test and returns its id.
func (r *Registry) NewSpelling(solution string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	r.spelling[id] = &spellingTest{solution: normalize(solution), attemptsLeft: spellingAttempts}
	return id
}

// NewHomophone registers a homophone test and returns its id.
func (r *Registry) NewHomophone(words []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	all := make([]string, len(words))
	for i, w := range words {
		all[i] = normalize(w)
	}
	r.homophone[id] = &homophoneTest{all: all, remaining: slices.Clone(all), attemptsLeft: homophoneAttempts}
	return id
}

// CheckSpelling scores a spelling answer. Running out of attempts the
// first time switches the test to help mode with fresh attempts; running
// out in help mode ends the test and reveals the solution.
func (r *Registry) CheckSpelling(id, answer string) (Verdict, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.spelling[id]
	if !ok {
		return Verdict{}, ErrTestNotFound
	}
	if normalize(answer) == t.solution {
		delete(r.spelling, id)
		return Verdict{Answered: "correct"}, nil
	}

	t.attemptsLeft--
	if t.attemptsLeft > 0 {
		return Verdict{Answered: "incorrect", AttemptsLeft: t.attemptsLeft}, nil
	}
	if t.withHelp {
		delete(r.spelling, id)
		return Verdict{Answered: "failed_all", Solution: t.solution}, nil
	}
	t.withHelp = true
	t.attemptsLeft = helpAttempts
	return Verdict{Answered: "failed"}, nil
}

// CheckHomophone scores one homophone guess. A correct guess refills the
// attempts; the test ends when every word is found or attempts run out.
func (r *Registry) CheckHomophone(id, answer string) (Verdict, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.homophone[id]
	if !ok {
		return Verdict{}, ErrTestNotFound
	}

	answer = normalize(answer)
	if i := slices.Index(t.remaining, answer); i >= 0 {
		t.remaining = slices.Delete(t.remaining, i, i+1)
		if len(t.remaining) == 0 {
			delete(r.homophone, id)
			return Verdict{Answered: "done"}, nil
		}
		t.attemptsLeft = homophoneAttempts
		return Verdict{Answered: "correct", AttemptsLeft: t.attemptsLeft}, nil
	}

	t.attemptsLeft--
	if t.attemptsLeft > 0 {
		return Verdict{Answered: "incorrect", AttemptsLeft: t.attemptsLeft}, nil
	}
	delete(r.homophone, id)
	if len(t.remaining) == len(t.all) {
		return Verdict{Answered: "failed_all", Solution: t.all}, nil
	}
	return Verdict{Answered: "failed", Solution: t.remaining}, nil
}

// Len returns the number of open tests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spelling) + len(r.homophone)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
