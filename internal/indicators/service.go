// Package indicators fetches the aggregate approval/rejection snapshot
// shown on the administrator dashboard.
package indicators

import (
	"context"
	"math"
	"net/http"

	"credit-intake-client/internal/common/logger"
	"credit-intake-client/internal/models"
)

// Sender is the outbound request contract. Satisfied by *gateway.Gateway.
type Sender interface {
	Send(ctx context.Context, method, path string, body, out interface{}) error
}

type Service struct {
	api Sender
	log logger.Logger
}

func NewService(api Sender, log logger.Logger) *Service {
	return &Service{api: api, log: log}
}

// Snapshot fetches a fresh indicator snapshot. Called on every dashboard
// entry; the result is read-only.
func (s *Service) Snapshot(ctx context.Context) (*models.Indicators, error) {
	var ind models.Indicators
	if err := s.api.Send(ctx, http.MethodGet, "/api/indicadores", nil, &ind); err != nil {
		return nil, err
	}
	s.log.Debug("indicator snapshot fetched", map[string]interface{}{
		"totalSolicitudes": ind.TotalSolicitudes,
	})
	return &ind, nil
}

// RejectionRate derives the displayed rejected-rate from the approval rate,
// rounded to one decimal as shown on the dashboard.
func RejectionRate(ind *models.Indicators) float64 {
	return math.Round((100-ind.TasaAprobacion)*10) / 10
}
