package remote

import (
	"context"
	"encoding/json"
)

// Service exposes the read endpoints of the scoring service as typed calls.
type Service struct {
	caller Caller
}

// NewService wraps a Caller.
func NewService(c Caller) *Service {
	return &Service{caller: c}
}

func (s *Service) ReviewStatus(ctx context.Context) (ReviewStatus, error) {
	out, err := fetch[struct {
		Status ReviewStatus `json:"status"`
	}](ctx, s.caller, Request{Endpoint: EndpointReviewStatus})
	return out.Status, err
}

func (s *Service) PhonemesCovered(ctx context.Context) ([]CoveredPhoneme, error) {
	return fetch[[]CoveredPhoneme](ctx, s.caller, Request{Endpoint: EndpointPhonemesCovered})
}

func (s *Service) ReviewSpelling(ctx context.Context) ([]SpellingItem, error) {
	return fetch[[]SpellingItem](ctx, s.caller, Request{Endpoint: EndpointReviewSpelling})
}

func (s *Service) ReviewHomophones(ctx context.Context) ([]HomophoneItem, error) {
	return fetch[[]HomophoneItem](ctx, s.caller, Request{Endpoint: EndpointReviewHomophones})
}

func (s *Service) Learn(ctx context.Context) (*Phoneme, error) {
	p, err := fetch[Phoneme](ctx, s.caller, Request{Endpoint: EndpointLearn})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Spelling(ctx context.Context, phoneme string) ([]SpellingItem, error) {
	return fetch[[]SpellingItem](ctx, s.caller, Request{Endpoint: EndpointSpelling, Param: phoneme})
}

func (s *Service) Homophones(ctx context.Context, phoneme string) ([]HomophoneItem, error) {
	return fetch[[]HomophoneItem](ctx, s.caller, Request{Endpoint: EndpointHomophones, Param: phoneme})
}

// SaveProgress records that a phoneme has been learned.
func (s *Service) SaveProgress(ctx context.Context, p Progress) error {
	_, err := s.caller.Call(ctx, Request{Endpoint: EndpointSaveProgress, Body: p})
	return err
}

func fetch[T any](ctx context.Context, c Caller, req Request) (T, error) {
	var out T
	raw, err := c.Call(ctx, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		f := newFailure(KindSchema, 0, "decode response", err)
		f.Endpoint = req.Endpoint
		return out, f
	}
	return out, nil
}
