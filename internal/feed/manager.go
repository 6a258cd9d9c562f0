// Package feed pushes newly created reports to connected dashboards.
package feed

import (
	"context"
	"sync"

	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"
)

// ManagerService owns the set of connected clients. Only Run touches Clients.
type ManagerService struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.FeedEvent

	// Relayed is set when created reports arrive through redis pub/sub, in which
	// case ReportCreated must not broadcast a second copy.
	Relayed bool

	done     chan struct{}
	doneOnce sync.Once
}

func NewManagerService() *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.FeedEvent, 64),
		done:         make(chan struct{}),
	}
}

// Register hands c to the dispatcher loop. It reports false when the loop has
// stopped or ctx ends first.
func (m *ManagerService) Register(ctx context.Context, c Client) bool {
	select {
	case m.RegisterCh <- c:
		return true
	case <-m.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// ReportCreated announces a report created by this instance.
func (m *ManagerService) ReportCreated(report *models.Report) {
	if m.Relayed {
		return
	}
	select {
	case m.BroadcastCh <- models.FeedEvent{Type: models.FeedReportCreated, Report: report}:
	default:
		logger.Warning("feed backlog full, dropping event for %s", report.CaseNumber)
	}
}

// Run is the dispatcher loop.
func (m *ManagerService) Run(ctx context.Context) {
	logger.Info("Report feed started.")
	defer m.doneOnce.Do(func() { close(m.done) })
	for {
		select {
		case <-ctx.Done():
			for id, c := range m.Clients {
				c.Close()
				delete(m.Clients, id)
			}
			return

		case c := <-m.RegisterCh:
			m.Clients[c.GetClientID()] = c
			logger.Info("Feed client %s connected (%d total)", c.GetClientID(), len(m.Clients))

		case c := <-m.UnregisterCh:
			if _, ok := m.Clients[c.GetClientID()]; ok {
				delete(m.Clients, c.GetClientID())
				c.Close()
				logger.Info("Feed client %s disconnected", c.GetClientID())
			}

		case ev := <-m.BroadcastCh:
			for id, c := range m.Clients {
				select {
				case c.GetSendChannel() <- ev:
				default:
					// slow consumer
					delete(m.Clients, id)
					c.Close()
					logger.Warning("feed client %s too slow, dropped", id)
				}
			}
		}
	}
}
