package wizard

// Phase names a wizard state on the wire.
type Phase string

const (
	PhaseInitial    Phase = "initial"
	PhaseCollecting Phase = "collecting"
	PhaseGenerating Phase = "generating"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// State is one of Initial, Collecting, Generating, Done or Failed.
// Each variant carries only the data that is valid in it.
type State interface {
	Phase() Phase
}

type Initial struct{}

type Collecting struct{}

type Generating struct{}

type Done struct {
	Guide string
}

type Failed struct {
	Message string
}

func (Initial) Phase() Phase    { return PhaseInitial }
func (Collecting) Phase() Phase { return PhaseCollecting }
func (Generating) Phase() Phase { return PhaseGenerating }
func (Done) Phase() Phase       { return PhaseDone }
func (Failed) Phase() Phase     { return PhaseFailed }

// Step tells the caller what a transition left to do.
type Step int

const (
	// StepAsked means the next question is on the transcript.
	StepAsked Step = iota
	// StepGenerate means the wizard entered Generating and Generate must be called.
	StepGenerate
)
