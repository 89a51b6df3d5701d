package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ReviewStatus tells the client which path a session should take.
type ReviewStatus string

const (
	StatusReviewOnly     ReviewStatus = "review_only"
	StatusNoProgress     ReviewStatus = "no_progress"
	StatusReviewAndLearn ReviewStatus = "review_and_learn"
)

// TestID identifies one server-side test. The service may send it as a
// string or a number; it is always sent back as a string.
type TestID string

func (id *TestID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TestID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("test id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("test id %s is not an integer", n)
	}
	*id = TestID(n.String())
	return nil
}

// CoveredPhoneme is a phoneme the learner has already studied.
type CoveredPhoneme struct {
	Phoneme  string `json:"phoneme"`
	AudioURL string `json:"audio_url"`
}

// Phoneme is a new phoneme to learn, with its spelling patterns mapped to
// example words.
type Phoneme struct {
	Phoneme  string              `json:"phoneme"`
	IPA      string              `json:"ipa"`
	AudioURL string              `json:"audio_url"`
	Patterns map[string][]string `json:"patterns"`
}

// PatternNames returns the spelling patterns in a stable order.
func (p *Phoneme) PatternNames() []string {
	names := make([]string, 0, len(p.Patterns))
	for name := range p.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpellingItem is one spelling question. Options are used only when the
// question is re-asked in help mode.
type SpellingItem struct {
	Word    string   `json:"word"`
	TestID  TestID   `json:"test_id"`
	Options []string `json:"options"`
}

// HomophoneItem asks for every word sharing one pronunciation.
type HomophoneItem struct {
	Homophone string `json:"homoph"`
	TestID    TestID `json:"test_id"`
	Amount    int    `json:"amount"`
}

// Progress records a completed learn session.
type Progress struct {
	NewPhoneme string `json:"new_phoneme"`
	AudioPath  string `json:"audio_path"`
}

// Answered is the verdict label returned by an answer check.
type Answered string

const (
	AnsweredCorrect    Answered = "correct"
	AnsweredIncorrect  Answered = "incorrect"
	AnsweredDone       Answered = "done"
	AnsweredFailed     Answered = "failed"
	AnsweredFailedAll  Answered = "failed_all"
	AnsweredFailedSome Answered = "failed_some"
)

// Verdict is the scoring service's answer to one submission. Spelling
// checks carry a single Solution; homophone checks carry Solutions.
type Verdict struct {
	Answered     Answered
	AttemptsLeft int
	Solution     string
	Solutions    []string
}

func (v *Verdict) UnmarshalJSON(b []byte) error {
	var wire struct {
		Answered     Answered        `json:"answered"`
		AttemptsLeft int             `json:"attempts_left"`
		Solution     json.RawMessage `json:"solution"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	v.Answered = wire.Answered
	v.AttemptsLeft = wire.AttemptsLeft
	v.Solution = ""
	v.Solutions = nil

	sol := bytes.TrimSpace(wire.Solution)
	switch {
	case len(sol) == 0 || bytes.Equal(sol, []byte("null")):
	case sol[0] == '[':
		if err := json.Unmarshal(sol, &v.Solutions); err != nil {
			return fmt.Errorf("solution list: %w", err)
		}
	default:
		if err := json.Unmarshal(sol, &v.Solution); err != nil {
			return fmt.Errorf("solution: %w", err)
		}
	}
	return nil
}
