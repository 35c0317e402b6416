// Package intake validates and submits credit applications and serves the
// branch reference data the form depends on.
package intake

import (
	"context"
	"errors"
	"net/http"
	"sync"

	apperrors "credit-intake-client/internal/common/errors"
	"credit-intake-client/internal/common/logger"
	"credit-intake-client/internal/common/metrics"
	"credit-intake-client/internal/models"
)

// ErrSubmissionInFlight is returned when Submit is called while an earlier
// submission has not completed. At most one submission is in flight.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Sender is the outbound request contract. Satisfied by *gateway.Gateway.
type Sender interface {
	Send(ctx context.Context, method, path string, body, out interface{}) error
}

type Service struct {
	api Sender
	log logger.Logger

	mu         sync.Mutex
	submitting bool
	branches   []models.Branch
}

func NewService(api Sender, log logger.Logger) *Service {
	return &Service{api: api, log: log}
}

// Submit validates the draft locally and, only when every constraint
// holds, creates the application on the decision service. A failed
// submission leaves the draft intact for resubmission; a successful one
// returns the result and the caller discards the draft. There is no
// automatic retry.
func (s *Service) Submit(ctx context.Context, draft models.ApplicationDraft) (*models.ApplicationResult, error) {
	if violations := ValidateDraft(draft); len(violations) > 0 {
		first := violations[0]
		return nil, &apperrors.ValidationError{Field: first.Field, Reason: first.Reason}
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	var result models.ApplicationResult
	if err := s.api.Send(ctx, http.MethodPost, "/api/solicitudes", draft, &result); err != nil {
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues(result.Estado).Inc()
	s.log.Info("application submitted", map[string]interface{}{
		"id":     result.ID,
		"estado": result.Estado,
	})
	return &result, nil
}

// Branches returns the branch reference data, fetched once and then served
// from cache for the lifetime of the service.
func (s *Service) Branches(ctx context.Context) ([]models.Branch, error) {
	s.mu.Lock()
	cached := s.branches
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var branches []models.Branch
	if err := s.api.Send(ctx, http.MethodGet, "/api/sucursales", nil, &branches); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.branches = branches
	s.mu.Unlock()
	return branches, nil
}

// Simulate asks the service to generate count random applications.
func (s *Service) Simulate(ctx context.Context, count int) (*models.SimulationResult, error) {
	if count < 1 || count > 1000 {
		return nil, &apperrors.ValidationError{
			Field:  "cantidad",
			Reason: "must be between 1 and 1000",
		}
	}

	var result models.SimulationResult
	err := s.api.Send(ctx, http.MethodPost, "/api/solicitudes/simular",
		models.SimulationRequest{Cantidad: count}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
