package models

// Application outcome values as returned by the decision service.
const (
	EstadoAprobado  = "aprobado"
	EstadoRechazado = "rechazado"
)

// ValidTerms are the selectable repayment terms, in months.
var ValidTerms = []int{12, 24, 36, 48, 60}

// ApplicationDraft is the client-held form state for a credit application.
// Field names follow the decision service's wire format.
type ApplicationDraft struct {
	Nombre           string  `json:"nombre"`
	Apellido         string  `json:"apellido"`
	Email            string  `json:"email"`
	Telefono         string  `json:"telefono,omitempty"`
	FechaNacimiento  string  `json:"fecha_nacimiento"` // YYYY-MM-DD
	MontoSolicitado  float64 `json:"monto_solicitado"`
	IngresoMensual   float64 `json:"ingreso_mensual"`
	ScoreCrediticio  int     `json:"score_crediticio"`
	TieneTarjeta     bool    `json:"tiene_tarjeta_credito"`
	TieneCreditoAuto bool    `json:"tiene_credito_automotriz"`
	PlazoMeses       int     `json:"plazo_meses"`
	SucursalID       int     `json:"sucursal_id"`
}

// ApplicationResult is the decision service's response to a submitted
// application. The four financial fields are populated only when the
// application was approved; MotivoRechazo only when it was rejected.
type ApplicationResult struct {
	ID               int     `json:"id"`
	ClienteID        int     `json:"cliente_id"`
	SucursalID       int     `json:"sucursal_id"`
	MontoSolicitado  float64 `json:"monto_solicitado"`
	IngresoMensual   float64 `json:"ingreso_mensual"`
	ScoreCrediticio  int     `json:"score_crediticio"`
	TieneTarjeta     bool    `json:"tiene_tarjeta_credito"`
	TieneCreditoAuto bool    `json:"tiene_credito_automotriz"`
	PlazoMeses       int     `json:"plazo_meses"`
	Estado           string  `json:"estado"`
	MotivoRechazo    *string `json:"motivo_rechazo,omitempty"`
	FechaSolicitud   string  `json:"fecha_solicitud"`

	ClienteNombre  *string `json:"cliente_nombre,omitempty"`
	ClienteEmail   *string `json:"cliente_email,omitempty"`
	SucursalNombre *string `json:"sucursal_nombre,omitempty"`

	CuotaMensual     *float64 `json:"cuota_mensual,omitempty"`
	TasaInteresAnual *float64 `json:"tasa_interes_anual,omitempty"`
	TotalAPagar      *float64 `json:"total_a_pagar,omitempty"`
	TotalIntereses   *float64 `json:"total_intereses,omitempty"`
}

// Approved reports whether the application was approved.
func (r *ApplicationResult) Approved() bool {
	return r.Estado == EstadoAprobado
}

// SimulationRequest asks the service to generate a batch of random
// applications.
type SimulationRequest struct {
	Cantidad int `json:"cantidad"`
}

// SimulationResult summarizes a generated batch.
type SimulationResult struct {
	TotalGeneradas int                 `json:"total_generadas"`
	Aprobadas      int                 `json:"aprobadas"`
	Rechazadas     int                 `json:"rechazadas"`
	Solicitudes    []ApplicationResult `json:"solicitudes"`
}
