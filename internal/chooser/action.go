package chooser

// Modifiers records which modifier keys were held when the user confirmed.
type Modifiers struct {
	// Primary is the platform's main command modifier.
	Primary bool
	Alt     bool
	Shift   bool
	Ctrl    bool
	AltGr   bool
	Super   bool
}

// ActionKind is the follow-up chosen for a confirmed item.
type ActionKind int

const (
	// ActionNone means nothing happens.
	ActionNone ActionKind = iota
	// ActionOpen opens the project, in a new instance or in place.
	ActionOpen
	// ActionClose closes whatever editor holds the project and shows the
	// list again.
	ActionClose
)

// String returns the string representation of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionOpen:
		return "open"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// Action is a decided follow-up.
type Action struct {
	Kind ActionKind
	// Path is the descriptor the action applies to.
	Path string
	// NewInstance selects a new editor instance over switching in place.
	// Only meaningful for ActionOpen.
	NewInstance bool
}

// Decide maps the modifiers held at confirmation to an action. Alt closes,
// Primary flips the default open mode, anything else opens with the default.
func Decide(mods Modifiers, defaultNewInstance bool) Action {
	switch {
	case mods.Alt:
		return Action{Kind: ActionClose}
	case mods.Primary:
		return Action{Kind: ActionOpen, NewInstance: !defaultNewInstance}
	default:
		return Action{Kind: ActionOpen, NewInstance: defaultNewInstance}
	}
}
