package experiment

// State is the lifecycle position of an Experiment.
type State int

const (
	Created State = iota
	Trained
	Tested
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Trained:
		return "trained"
	case Tested:
		return "tested"
	default:
		return "unknown"
	}
}
