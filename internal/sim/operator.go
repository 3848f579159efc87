package sim

import "time"

// OperatorEvent records a control action taken by an operator.
type OperatorEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Details   string    `json:"details,omitempty"`
}

// OperatorEvents returns a copy of all recorded operator events.
func (s *Simulator) OperatorEvents() []OperatorEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]OperatorEvent, len(s.operatorEvents))
	copy(events, s.operatorEvents)
	return events
}

// logOperatorEvent appends an event. Caller holds mu.
func (s *Simulator) logOperatorEvent(t, details string) {
	s.operatorEvents = append(s.operatorEvents, OperatorEvent{Timestamp: s.now().UTC(), Type: t, Details: details})
}
