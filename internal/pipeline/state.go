package pipeline

// State is the orchestrator's progress through one invocation.
type State int

const (
	Idle State = iota
	Sanitizing
	Parsing
	Generating
	Patching
	Done
	Failed
)

var stateNames = [...]string{"idle", "sanitizing", "parsing", "generating", "patching", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
