package callback

// ReturnCode is the gateway-facing outcome of a callback.
type ReturnCode int

const (
	CodeAccepted        ReturnCode = 1
	CodeProcessingError ReturnCode = 0
	CodeAuthFailed      ReturnCode = -1
)

// State is the terminal state a callback reached.
type State string

const (
	StateRejected    State = "rejected"
	StateParseFailed State = "parse_failed"
	StateAccepted    State = "accepted"
	// StateSettleFailed means the callback was valid but the settlement
	// collaborator failed; the gateway sees a processing error and may retry.
	StateSettleFailed State = "settle_failed"
)

const (
	MessageMACNotEqual = "mac not equal"
	MessageSuccess     = "success"
)

// Result is written back to the gateway as JSON.
type Result struct {
	ReturnCode    ReturnCode `json:"return_code"`
	ReturnMessage string     `json:"return_message"`

	State      State  `json:"-"`
	AppTransID string `json:"-"`
}

func Rejected() Result {
	return Result{ReturnCode: CodeAuthFailed, ReturnMessage: MessageMACNotEqual, State: StateRejected}
}

func ParseFailed(msg string) Result {
	return Result{ReturnCode: CodeProcessingError, ReturnMessage: msg, State: StateParseFailed}
}

func Accepted(appTransID string) Result {
	return Result{ReturnCode: CodeAccepted, ReturnMessage: MessageSuccess, State: StateAccepted, AppTransID: appTransID}
}

func SettleFailed(appTransID, msg string) Result {
	return Result{ReturnCode: CodeProcessingError, ReturnMessage: msg, State: StateSettleFailed, AppTransID: appTransID}
}
