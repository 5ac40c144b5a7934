// Package backoff provides retry delay strategies for reconnection and
// retry loops.
//
// Three strategies are included:
//
//   - Exponential: jittered exponential growth, suitable for retrying
//     against shared infrastructure without thundering herds.
//   - Fixed: a constant delay between attempts.
//   - Schedule: an explicit sequence of delays, held at the final value
//     once exhausted. Used for session recovery where the first attempts
//     should be fast (immediate, 2s, 5s, 10s, 30s, 30s, ...).
//
// # Usage
//
//	strategy := backoff.DefaultReconnectSchedule()
//	for attempt := 1; ; attempt++ {
//	    if err := dial(); err == nil {
//	        break
//	    }
//	    time.Sleep(strategy.NextInterval(attempt))
//	}
package backoff
