package monitor

import (
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const probeTimeout = 2 * time.Second

// Monitor periodically probes the health endpoints of both upstream services
// so the aggregation layer can report reachability without issuing live calls
// on every health request.
type Monitor struct {
	crmURL string
	iotURL string
	client *fasthttp.Client

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(crmURL, iotURL string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		crmURL:   strings.TrimRight(crmURL, "/"),
		iotURL:   strings.TrimRight(iotURL, "/"),
		client:   &fasthttp.Client{},
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.CRM && m.status.IoT
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{
		CRM:       m.probe(m.crmURL),
		IoT:       m.probe(m.iotURL),
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) probe(baseURL string) bool {
	if baseURL == "" {
		return false
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(baseURL + "/health")
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := m.client.DoTimeout(req, resp, probeTimeout); err != nil {
		m.logger.Warn("upstream probe failed", zap.String("url", baseURL), zap.Error(err))
		return false
	}
	return resp.StatusCode() < fasthttp.StatusInternalServerError
}
