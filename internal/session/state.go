package session

// State is a step of the render loop.
type State int

// Render loop states. Terminated is the only terminal state.
const (
	Idle State = iota
	ChoosingWorkflow
	Selecting
	Staging
	ConfiguringRender
	Encoding
	Reporting
	ContinuePrompt
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ChoosingWorkflow:
		return "choosing_workflow"
	case Selecting:
		return "selecting"
	case Staging:
		return "staging"
	case ConfiguringRender:
		return "configuring_render"
	case Encoding:
		return "encoding"
	case Reporting:
		return "reporting"
	case ContinuePrompt:
		return "continue_prompt"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
