package notification

// Dispatcher delivers real-time events to the currently connected session of
// a recipient. Delivery is at-most-once and best-effort: implementations
// never return an error to the caller and never block a business operation;
// failures are logged and the event is gone. Correctness of the booking core
// must not depend on a notification arriving.
type Dispatcher interface {
	Notify(recipientID, event string, payload any)
}
