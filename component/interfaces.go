package component

import "context"

// HealthStatus is the coarse state a component reports.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthFrom reports name healthy when err is nil and unhealthy with err's
// text otherwise.
func HealthFrom(name string, err error) Health {
	if err != nil {
		return Health{Name: name, Status: StatusUnhealthy, Message: err.Error()}
	}
	return Health{Name: name, Status: StatusHealthy}
}

// Component is a lifecycle-managed piece of infrastructure such as the REST
// client or its Redis history backend. Name must be unique per Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a Registry logs for a started component.
type Description struct {
	// Name falls back to Component.Name when empty.
	Name string
	// Type is a category such as "rest-client" or "redis".
	Type string
	// Details is a one-liner such as "www.reddit.com https rpm=60".
	Details string
}

// Describable components report a Description after Start.
type Describable interface {
	Describe() Description
}
