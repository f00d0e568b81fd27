package health

import "context"

// HealthPinger is implemented by dependencies that can verify their own
// connectivity. HealthPing must return nil when the dependency is reachable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// PingFunc adapts a plain ping function, such as cache.Cache.Ping, to HealthPinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) HealthPing(ctx context.Context) error { return f(ctx) }
