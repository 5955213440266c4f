package game

// State is a user's position in the pay -> guess -> replay conversation.
type State int

const (
	// StateIdle means no conversation is in progress; /start begins one.
	StateIdle State = iota
	StateAwaitingPin
	StateAwaitingNumber
	StateAwaitingReplay
)

func (s State) String() string {
	switch s {
	case StateAwaitingPin:
		return "awaiting_pin"
	case StateAwaitingNumber:
		return "awaiting_number"
	case StateAwaitingReplay:
		return "awaiting_replay"
	default:
		return "idle"
	}
}

// Session is one user's conversation state. Only the Paid flag is persisted;
// the conversational position resets on restart.
type Session struct {
	UserID string `json:"user_id"`
	Paid   bool   `json:"paid"`
	State  State  `json:"-"`
}
