package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-intake-client/internal/models"
)

func validDraft() models.ApplicationDraft {
	return models.ApplicationDraft{
		Nombre:           "Ana",
		Apellido:         "Ruiz",
		Email:            "ana@x.com",
		FechaNacimiento:  "1990-01-01",
		MontoSolicitado:  5000,
		IngresoMensual:   2000,
		ScoreCrediticio:  700,
		TieneTarjeta:     false,
		TieneCreditoAuto: false,
		PlazoMeses:       24,
		SucursalID:       1,
	}
}

func TestValidateDraft_ValidDraftHasNoViolations(t *testing.T) {
	assert.Empty(t, ValidateDraft(validDraft()))
}

func TestValidateDraft_SingleFieldViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.ApplicationDraft)
		wantField string
	}{
		{
			name:      "empty first name",
			mutate:    func(d *models.ApplicationDraft) { d.Nombre = "" },
			wantField: "nombre",
		},
		{
			name:      "empty surname",
			mutate:    func(d *models.ApplicationDraft) { d.Apellido = "" },
			wantField: "apellido",
		},
		{
			name:      "malformed email",
			mutate:    func(d *models.ApplicationDraft) { d.Email = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "amount below minimum",
			mutate:    func(d *models.ApplicationDraft) { d.MontoSolicitado = 999 },
			wantField: "monto_solicitado",
		},
		{
			name:      "zero income",
			mutate:    func(d *models.ApplicationDraft) { d.IngresoMensual = 0 },
			wantField: "ingreso_mensual",
		},
		{
			name:      "score below range",
			mutate:    func(d *models.ApplicationDraft) { d.ScoreCrediticio = 299 },
			wantField: "score_crediticio",
		},
		{
			name:      "score above range",
			mutate:    func(d *models.ApplicationDraft) { d.ScoreCrediticio = 851 },
			wantField: "score_crediticio",
		},
		{
			name:      "term not in the enumerated set",
			mutate:    func(d *models.ApplicationDraft) { d.PlazoMeses = 13 },
			wantField: "plazo_meses",
		},
		{
			name:      "no branch selected",
			mutate:    func(d *models.ApplicationDraft) { d.SucursalID = 0 },
			wantField: "sucursal_id",
		},
		{
			name:      "empty birth date",
			mutate:    func(d *models.ApplicationDraft) { d.FechaNacimiento = "" },
			wantField: "fecha_nacimiento",
		},
		{
			name:      "unparseable birth date",
			mutate:    func(d *models.ApplicationDraft) { d.FechaNacimiento = "01/01/1990" },
			wantField: "fecha_nacimiento",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			violations := ValidateDraft(draft)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.wantField, violations[0].Field)
			assert.NotEmpty(t, violations[0].Reason)
		})
	}
}

func TestValidateDraft_EmptyDraftReportsEveryRequiredField(t *testing.T) {
	violations := ValidateDraft(models.ApplicationDraft{})

	fields := make(map[string]bool, len(violations))
	for _, v := range violations {
		fields[v.Field] = true
	}

	for _, field := range []string{
		"nombre", "apellido", "email", "fecha_nacimiento",
		"monto_solicitado", "ingreso_mensual", "score_crediticio",
		"plazo_meses", "sucursal_id",
	} {
		assert.True(t, fields[field], "expected a violation for %s", field)
	}
}

func TestValidateDraft_ViolationOrderIsDeterministic(t *testing.T) {
	draft := validDraft()
	draft.Nombre = ""
	draft.SucursalID = 0
	draft.MontoSolicitado = 1

	violations := ValidateDraft(draft)
	require.Len(t, violations, 3)
	assert.Equal(t, "nombre", violations[0].Field)
	assert.Equal(t, "monto_solicitado", violations[1].Field)
	assert.Equal(t, "sucursal_id", violations[2].Field)
}

func TestValidateDraft_OptionalPhoneMayBeEmpty(t *testing.T) {
	draft := validDraft()
	draft.Telefono = ""
	assert.Empty(t, ValidateDraft(draft))

	draft.Telefono = "+54 11 5555-0000"
	assert.Empty(t, ValidateDraft(draft))
}
