package intake

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "credit-intake-client/internal/common/errors"
	"credit-intake-client/internal/common/logger"
	"credit-intake-client/internal/models"
)

// fakeSender stubs the gateway: handler decides the response, calls counts
// every dispatch.
type fakeSender struct {
	calls   int64
	handler func(method, path string, body, out interface{}) error
}

func (f *fakeSender) Send(ctx context.Context, method, path string, body, out interface{}) error {
	atomic.AddInt64(&f.calls, 1)
	if f.handler == nil {
		return nil
	}
	return f.handler(method, path, body, out)
}

func respondWith(t *testing.T, payload string) func(method, path string, body, out interface{}) error {
	t.Helper()
	return func(method, path string, body, out interface{}) error {
		if out == nil {
			return nil
		}
		return json.Unmarshal([]byte(payload), out)
	}
}

func newService(t *testing.T, sender *fakeSender) *Service {
	t.Helper()
	return NewService(sender, logger.NewTestLogger(t))
}

func TestSubmit_InvalidDraftNeverTouchesNetwork(t *testing.T) {
	sender := &fakeSender{}
	svc := newService(t, sender)

	draft := validDraft()
	draft.MontoSolicitado = 500

	result, err := svc.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.Nil(t, result)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "monto_solicitado", ve.Field)

	assert.Equal(t, int64(0), atomic.LoadInt64(&sender.calls))
}

func TestSubmit_ApprovedCarriesAllFinancialFields(t *testing.T) {
	sender := &fakeSender{handler: respondWith(t, `{
		"id": 42, "cliente_id": 7, "sucursal_id": 1,
		"monto_solicitado": 5000, "ingreso_mensual": 2000,
		"score_crediticio": 700, "plazo_meses": 24,
		"estado": "aprobado", "fecha_solicitud": "2025-06-01T10:00:00",
		"cuota_mensual": 235.37, "tasa_interes_anual": 12.0,
		"total_a_pagar": 5648.88, "total_intereses": 648.88
	}`)}
	svc := newService(t, sender)

	result, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Approved())
	require.NotNil(t, result.CuotaMensual)
	require.NotNil(t, result.TasaInteresAnual)
	require.NotNil(t, result.TotalAPagar)
	require.NotNil(t, result.TotalIntereses)
	assert.Nil(t, result.MotivoRechazo)
	assert.InDelta(t, 235.37, *result.CuotaMensual, 0.001)
}

func TestSubmit_RejectedCarriesReasonAndNoFinancials(t *testing.T) {
	sender := &fakeSender{handler: respondWith(t, `{
		"id": 43, "cliente_id": 8, "sucursal_id": 1,
		"monto_solicitado": 50000, "ingreso_mensual": 2000,
		"score_crediticio": 550, "plazo_meses": 24,
		"estado": "rechazado", "fecha_solicitud": "2025-06-01T10:00:00",
		"motivo_rechazo": "Score crediticio insuficiente"
	}`)}
	svc := newService(t, sender)

	result, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	assert.False(t, result.Approved())
	require.NotNil(t, result.MotivoRechazo)
	assert.Equal(t, "Score crediticio insuficiente", *result.MotivoRechazo)
	assert.Nil(t, result.CuotaMensual)
	assert.Nil(t, result.TasaInteresAnual)
	assert.Nil(t, result.TotalAPagar)
	assert.Nil(t, result.TotalIntereses)
}

func TestSubmit_ServerErrorSurfacedVerbatim(t *testing.T) {
	sender := &fakeSender{handler: func(method, path string, body, out interface{}) error {
		return &apperrors.ServerError{Status: 400, Detail: "solicitud duplicada"}
	}}
	svc := newService(t, sender)

	_, err := svc.Submit(context.Background(), validDraft())
	var se *apperrors.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 400, se.Status)
	assert.Equal(t, "solicitud duplicada", apperrors.Humanize(err))
}

func TestSubmit_AtMostOneInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var firstCall int32
	sender := &fakeSender{handler: func(method, path string, body, out interface{}) error {
		if atomic.CompareAndSwapInt32(&firstCall, 0, 1) {
			close(started)
			<-release
		}
		return json.Unmarshal([]byte(`{"id": 1, "estado": "aprobado",
			"cuota_mensual": 1, "tasa_interes_anual": 1, "total_a_pagar": 1, "total_intereses": 1}`), out)
	}}
	svc := newService(t, sender)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), validDraft())
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never started")
	}

	_, err := svc.Submit(context.Background(), validDraft())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)

	// Once the first completes, submitting is possible again.
	_, err = svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
}

func TestBranches_FetchedOnceThenCached(t *testing.T) {
	sender := &fakeSender{handler: respondWith(t, `[
		{"id": 1, "nombre": "Centro", "ciudad": "Córdoba", "direccion": "Av. Colón 100", "created_at": "2025-01-01T00:00:00"},
		{"id": 2, "nombre": "Norte", "ciudad": "Córdoba", "direccion": "Av. Rafael Núñez 5000", "created_at": "2025-01-01T00:00:00"}
	]`)}
	svc := newService(t, sender)

	first, err := svc.Branches(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Centro", first[0].Nombre)

	second, err := svc.Branches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&sender.calls), "branch list is fetched once")
}

func TestSimulate_CountBoundsValidatedLocally(t *testing.T) {
	sender := &fakeSender{}
	svc := newService(t, sender)

	for _, count := range []int{0, -1, 1001} {
		_, err := svc.Simulate(context.Background(), count)
		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve, "count %d", count)
		assert.Equal(t, "cantidad", ve.Field)
	}
	assert.Equal(t, int64(0), atomic.LoadInt64(&sender.calls))
}

func TestSimulate_Success(t *testing.T) {
	sender := &fakeSender{handler: func(method, path string, body, out interface{}) error {
		req, ok := body.(models.SimulationRequest)
		require.True(t, ok)
		assert.Equal(t, 5, req.Cantidad)
		return json.Unmarshal([]byte(`{"total_generadas": 5, "aprobadas": 3, "rechazadas": 2, "solicitudes": []}`), out)
	}}
	svc := newService(t, sender)

	result, err := svc.Simulate(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalGeneradas)
	assert.Equal(t, 3, result.Aprobadas)
	assert.Equal(t, 2, result.Rechazadas)
}
