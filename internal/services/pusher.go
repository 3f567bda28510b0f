package services

// Pusher delivers a realtime payload to a currently-connected user.
// Delivery is best-effort: implementations must never block and report
// false when the user is offline or the payload could not be queued.
// Persistence always happens before a push, so a false return is not an
// error condition.
type Pusher interface {
	Push(userID string, payload any) bool
}

// NopPusher is used where realtime delivery is disabled (scripts, tests).
type NopPusher struct{}

func (NopPusher) Push(string, any) bool { return false }
