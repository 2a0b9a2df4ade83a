package review

import (
	"context"
	"fmt"
	"sync"
)

// scriptedInvoker scripts responses per (record title, agent backstory)
// pair so tests can drive multi-agent rounds deterministically. Debate
// re-evaluations (PeerFeedback set) are recorded and answered from a
// separate script, defaulting to the agent's prior stance.
type scriptedInvoker struct {
	mu sync.Mutex

	responses       map[string]Response // first-pass responses by key(title, backstory)
	debateResponses map[string]Response // re-evaluation responses by key(title, backstory)
	err             error               // forced error for every call
	debateErr       error               // forced error for re-evaluations only

	calls       []Request // every request, in arrival order
	debateCalls []Request // requests carrying peer feedback
}

func newScriptedInvoker() *scriptedInvoker {
	return &scriptedInvoker{
		responses:       make(map[string]Response),
		debateResponses: make(map[string]Response),
	}
}

func key(title, backstory string) string {
	return title + "|" + backstory
}

func (s *scriptedInvoker) respond(title, backstory string, resp Response) {
	s.responses[key(title, backstory)] = resp
}

func (s *scriptedInvoker) respondToDebate(title, backstory string, resp Response) {
	s.debateResponses[key(title, backstory)] = resp
}

func (s *scriptedInvoker) Invoke(_ context.Context, req Request) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)
	k := key(req.Title, req.Criteria.Backstory)

	if req.PeerFeedback != "" {
		s.debateCalls = append(s.debateCalls, req)
		if s.debateErr != nil {
			return Response{}, s.debateErr
		}
		if resp, ok := s.debateResponses[k]; ok {
			return resp, nil
		}
		// Default: the agent stands its ground.
		return Response{Decision: req.PriorDecision, Reasoning: "standing by my assessment"}, nil
	}

	if s.err != nil {
		return Response{}, s.err
	}
	if resp, ok := s.responses[k]; ok {
		return resp, nil
	}
	return Response{}, fmt.Errorf("no scripted response for %q", k)
}

func (s *scriptedInvoker) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedInvoker) debateCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.debateCalls)
}
