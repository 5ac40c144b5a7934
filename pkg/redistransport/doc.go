// Package redistransport provides a realtime.Transport backed by Redis
// pub/sub. Push payloads are published as JSON objects on a single channel;
// each connection holds its own client and subscription so teardown of a
// superseded connection never disturbs a newer one.
//
// # Usage
//
//	transport, err := redistransport.New(redistransport.Config{
//	    Channel: "notifications:push",
//	})
//	if err != nil {
//	    return err
//	}
//
//	mgr, err := realtime.NewManager(transport, realtime.Config{
//	    Endpoint: "redis://localhost:6379/0",
//	})
//
// Error classification follows the realtime contract: a malformed endpoint
// URL is wrapped with realtime.MarkPermanent, while an unreachable or
// unresponsive server is left transient so the manager retries it.
package redistransport
