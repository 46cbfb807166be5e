package health

import (
	"context"
	"sync"
	"time"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
)

const (
	// checkInterval rate-limits RPC pings so dashboards polling /health
	// do not hammer the providers.
	checkInterval = 10 * time.Second

	// degradedLatency marks a chain as degraded when a ping takes longer.
	degradedLatency = 2 * time.Second

	pingTimeout = 5 * time.Second
)

// Monitor aggregates reachability status across all configured chain clients.
type Monitor struct {
	clients    map[domain.Chain]chain.Client
	lastCheck  time.Time
	lastReport map[domain.Chain]ChainHealth
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor over the given chain clients.
func NewMonitor(clients map[domain.Chain]chain.Client) *Monitor {
	return &Monitor{
		clients:    clients,
		lastReport: make(map[domain.Chain]ChainHealth),
	}
}

// CheckHealth pings every configured chain and returns per-chain status.
// Results are cached for a short window to avoid spamming RPC providers.
func (m *Monitor) CheckHealth(ctx context.Context) map[domain.Chain]ChainHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < checkInterval && len(m.lastReport) > 0 {
		return m.lastReport
	}

	report := make(map[domain.Chain]ChainHealth, len(m.clients))
	for name, client := range m.clients {
		report[name] = m.checkChain(ctx, name, client)
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}

func (m *Monitor) checkChain(ctx context.Context, name domain.Chain, client chain.Client) ChainHealth {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := client.Ping(pingCtx)
	elapsed := time.Since(start)

	health := ChainHealth{
		Chain:     name,
		Status:    StatusHealthy,
		LatencyMS: elapsed.Milliseconds(),
	}
	if err != nil {
		health.Status = StatusCritical
		health.Error = err.Error()
	} else if elapsed > degradedLatency {
		health.Status = StatusDegraded
	}
	return health
}
