package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// CurrentStep is set when the active step changed.
	CurrentStep *int `json:"current_step,omitempty"`

	// Draft contains only changed or added field values.
	Draft map[string]string `json:"draft,omitempty"`

	// Errors contains changed messages. Cleared errors are present with a nil value.
	Errors map[string]*string `json:"errors,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.CurrentStep != newState.CurrentStep {
		step := newState.CurrentStep
		diff.CurrentStep = &step
	}

	diff.Draft = diffDraft(oldState, newState)
	diff.Errors = diffErrors(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffDraft(old *State, new *State) map[string]string {
	delta := make(map[string]string)
	for k, v := range new.Draft {
		if old == nil {
			delta[k] = v
			continue
		}
		if prev, ok := old.Draft[k]; !ok || prev != v {
			delta[k] = v
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

func diffErrors(old *State, new *State) map[string]*string {
	delta := make(map[string]*string)
	for k, v := range new.Errors {
		if old != nil {
			if prev, ok := old.Errors[k]; ok && prev == v {
				continue
			}
		}
		msg := v
		delta[k] = &msg
	}
	if old != nil {
		for k := range old.Errors {
			if _, ok := new.Errors[k]; !ok {
				delta[k] = nil
			}
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentStep == nil &&
		len(d.Draft) == 0 &&
		len(d.Errors) == 0
}
