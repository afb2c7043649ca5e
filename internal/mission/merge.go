package mission

// Merge applies one event on top of current and returns a new State.
//
// Every field present in the event overrides the current value and every
// absent field is carried over. Slices are copied, so neither current nor ev
// share backing arrays with the result. Events are not reordered: applying an
// older event after a newer one overwrites the newer data.
func Merge(current State, ev Event) State {
	next := State{
		JobID:  current.JobID,
		Status: current.Status,
		Data: Data{
			Task:        current.Data.Task,
			Plan:        cloneStrings(current.Data.Plan),
			Messages:    cloneStrings(current.Data.Messages),
			CurrentCode: current.Data.CurrentCode,
			Errors:      cloneStrings(current.Data.Errors),
		},
	}
	if next.Status == "" {
		next.Status = StatusQueued
	}
	if ev.Status != "" {
		next.Status = ev.Status
	}

	p := ev.Data
	if p.Task != nil {
		next.Data.Task = *p.Task
	}
	if p.Plan != nil {
		next.Data.Plan = cloneStrings(p.Plan)
	}
	if p.Messages != nil {
		next.Data.Messages = cloneStrings(p.Messages)
	}
	if p.CurrentCode != nil {
		next.Data.CurrentCode = *p.CurrentCode
	}
	if p.Errors != nil {
		next.Data.Errors = cloneStrings(p.Errors)
	}
	return next
}

// cloneStrings never returns nil so a merged State is always fully defined.
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
