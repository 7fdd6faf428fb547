package health

import (
	"context"
	"sync"
	"time"

	"cwaproxy/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Probe periodically issues one upstream call and keeps the outcome for
// the health endpoint. It retains only the probe status, never forecast
// data.
type Probe struct {
	client   service.ForecastClient
	logger   *zap.Logger
	cron     *cron.Cron
	schedule string
	location string

	mu          sync.RWMutex
	lastStatus  string
	lastChecked time.Time
	lastError   string
}

func NewProbe(client service.ForecastClient, schedule, location string, logger *zap.Logger) *Probe {
	return &Probe{
		client:     client,
		logger:     logger,
		cron:       cron.New(),
		schedule:   schedule,
		location:   location,
		lastStatus: "unknown",
	}
}

func (p *Probe) Start() error {
	if _, err := p.cron.AddFunc(p.schedule, p.run); err != nil {
		return err
	}
	p.cron.Start()

	p.logger.Info("Health probe started",
		zap.String("schedule", p.schedule),
		zap.String("location", p.location))

	// Probe immediately so /health has data before the first tick.
	go p.run()

	return nil
}

func (p *Probe) Stop() {
	p.logger.Info("Stopping health probe")
	p.cron.Stop()
}

func (p *Probe) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := p.client.GetForecast36h(ctx, p.location)

	p.mu.Lock()
	p.lastChecked = time.Now()
	if err != nil {
		p.lastStatus = "unreachable"
		p.lastError = err.Error()
	} else {
		p.lastStatus = "ok"
		p.lastError = ""
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("Upstream health probe failed", zap.Error(err))
	}
}

// Status reports the outcome of the most recent probe.
func (p *Probe) Status() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := map[string]interface{}{
		"upstream":     p.lastStatus,
		"last_checked": p.lastChecked,
	}
	if p.lastError != "" {
		status["last_error"] = p.lastError
	}
	return status
}
