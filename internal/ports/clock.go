package ports

import "time"

// Stopper cancels a scheduled callback.
type Stopper interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Clock abstracts wall-clock reads and callback scheduling so the timer
// engine can be driven by a fake clock in tests.
// This is a driven port (implemented by adapters).
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Stopper
}
