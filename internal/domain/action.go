package domain

// Action is the closed set of operations the endpoint accepts.
type Action int

const (
	ActionLogin Action = iota + 1
	ActionQuestion
	ActionAnswer
	ActionScore
	ActionReset
)

var actionNames = map[string]Action{
	"login":    ActionLogin,
	"question": ActionQuestion,
	"answer":   ActionAnswer,
	"score":    ActionScore,
	"reset":    ActionReset,
}

// ParseAction maps the wire name to an Action. Names are case-sensitive.
func ParseAction(name string) (Action, bool) {
	a, ok := actionNames[name]
	return a, ok
}

func (a Action) String() string {
	switch a {
	case ActionLogin:
		return "login"
	case ActionQuestion:
		return "question"
	case ActionAnswer:
		return "answer"
	case ActionScore:
		return "score"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Mutating reports whether the action may change session state.
func (a Action) Mutating() bool {
	return a == ActionLogin || a == ActionAnswer || a == ActionReset
}
