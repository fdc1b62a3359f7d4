package services

// Dispatcher schedules work that happens after a lifecycle transition
// commits. Implementations are fire-and-forget: failures are logged by the
// implementation and never surface to the lifecycle caller.
type Dispatcher interface {
	// Notify schedules creation of a notification for the given recipient.
	Notify(userID uint, message string)

	// CancelSweep schedules the best-effort cancellation of all of a
	// disabled user's still-cancelable appointments.
	CancelSweep(username string)
}

// NopDispatcher discards all side effects. Used in tests and tools that do
// not care about notifications.
type NopDispatcher struct{}

func (NopDispatcher) Notify(uint, string) {}

func (NopDispatcher) CancelSweep(string) {}
