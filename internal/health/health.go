// Package health provides system health monitoring and status reporting.
package health

import "github.com/SolTwizzy/chainpulse/internal/core/domain"

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// ChainHealth contains reachability metrics for a configured chain.
type ChainHealth struct {
	Chain     domain.Chain `json:"chain"`
	Status    SystemStatus `json:"status"`
	LatencyMS int64        `json:"latency_ms"`
	Error     string       `json:"error,omitempty"`
}

// Report contains the full system health report.
type Report struct {
	SystemStatus SystemStatus                 `json:"system_status"`
	Chains       map[domain.Chain]ChainHealth `json:"chains"`
}
