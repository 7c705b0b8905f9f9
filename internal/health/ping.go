package health

import "context"

// HealthPinger is implemented by components that can verify their backing
// dependency directly (e.g. a database ping).
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
