package render

import (
	"strings"
	"sync"
)

// Recorder is a Renderer that keeps everything it was asked to draw.
type Recorder struct {
	mu       sync.Mutex
	Prompts  []Prompt
	Feedback []Feedback
	Offers   [][]Action
	Clears   int
	InputOn  bool
	InputLog []bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clears++
}

func (r *Recorder) ShowPrompt(p Prompt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prompts = append(r.Prompts, p)
}

func (r *Recorder) ShowFeedback(f Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Feedback = append(r.Feedback, f)
}

func (r *Recorder) SetInputEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InputOn = enabled
	r.InputLog = append(r.InputLog, enabled)
}

func (r *Recorder) OfferActions(actions ...Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Offers = append(r.Offers, actions)
}

// FeedbackTexts returns every feedback text in order.
func (r *Recorder) FeedbackTexts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Feedback))
	for i, f := range r.Feedback {
		out[i] = f.Text
	}
	return out
}

// SawFeedback reports whether any feedback text contains substr.
func (r *Recorder) SawFeedback(substr string) bool {
	for _, text := range r.FeedbackTexts() {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

// Offered reports whether an action with id was ever offered.
func (r *Recorder) Offered(id ActionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.Offers {
		for _, a := range offer {
			if a.ID == id {
				return true
			}
		}
	}
	return false
}

// Headings returns every prompt heading in order.
func (r *Recorder) Headings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Prompts))
	for i, p := range r.Prompts {
		out[i] = p.Heading
	}
	return out
}
