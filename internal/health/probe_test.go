package health

import (
	"context"
	"errors"
	"testing"

	"cwaproxy/internal/models"
	"go.uber.org/zap"
)

type stubClient struct {
	err      error
	lastName string
}

func (s *stubClient) GetForecast36h(ctx context.Context, locationName string) (*models.CWAResponse, error) {
	s.lastName = locationName
	if s.err != nil {
		return nil, s.err
	}
	return &models.CWAResponse{Success: "true"}, nil
}

func TestProbeReportsOK(t *testing.T) {
	stub := &stubClient{}
	p := NewProbe(stub, "@every 5m", "臺北市", zap.NewNop())

	if status := p.Status(); status["upstream"] != "unknown" {
		t.Errorf("initial upstream = %v, want unknown", status["upstream"])
	}

	p.run()

	status := p.Status()
	if status["upstream"] != "ok" {
		t.Errorf("upstream = %v, want ok", status["upstream"])
	}
	if _, present := status["last_error"]; present {
		t.Errorf("last_error present on success: %v", status)
	}
	if stub.lastName != "臺北市" {
		t.Errorf("probed location = %q, want 臺北市", stub.lastName)
	}
}

func TestProbeReportsFailure(t *testing.T) {
	stub := &stubClient{err: errors.New("connection refused")}
	p := NewProbe(stub, "@every 5m", "臺北市", zap.NewNop())

	p.run()

	status := p.Status()
	if status["upstream"] != "unreachable" {
		t.Errorf("upstream = %v, want unreachable", status["upstream"])
	}
	if status["last_error"] != "connection refused" {
		t.Errorf("last_error = %v", status["last_error"])
	}
}
