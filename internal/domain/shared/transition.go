package shared

// Status constrains the string-based status enums the document aggregates
// define.
type Status interface {
	~string
}

// Transitions is the legal-transition table for one document type: for each
// source state, the set of states it may move to. Keeping the full table in
// one value makes the complete state machine auditable and testable as data
// instead of being scattered across guard clauses.
type Transitions[S Status] map[S][]S

// Can reports whether a transition from one state to another is legal. A
// state absent from the table is terminal.
func (t Transitions[S]) Can(from, to S) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the given state
func (t Transitions[S]) IsTerminal(s S) bool {
	return len(t[s]) == 0
}

// Guard returns nil when the transition is legal, otherwise a conflict
// error with the given code. The mutation block of a command must only run
// after Guard (and any business-rule checks) passed, so an illegal call
// never partially applies state.
func (t Transitions[S]) Guard(from, to S, code string) error {
	if !t.Can(from, to) {
		return NewConflictError(code, "Cannot transition from "+string(from)+" to "+string(to))
	}
	return nil
}
