package models

// BranchIndicators is the per-branch slice of the aggregate snapshot.
type BranchIndicators struct {
	SucursalID         int     `json:"sucursal_id"`
	SucursalNombre     string  `json:"sucursal_nombre"`
	Ciudad             string  `json:"ciudad"`
	TotalSolicitudes   int     `json:"total_solicitudes"`
	Aprobadas          int     `json:"aprobadas"`
	Rechazadas         int     `json:"rechazadas"`
	MontoPromedio      float64 `json:"monto_promedio"`
	MontoAprobadoTotal float64 `json:"monto_aprobado_total"`
}

// Indicators is the aggregate approval/rejection snapshot shown on the
// dashboard. Read-only, refreshed on dashboard entry.
type Indicators struct {
	TotalSolicitudes     int                `json:"total_solicitudes"`
	TotalAprobadas       int                `json:"total_aprobadas"`
	TotalRechazadas      int                `json:"total_rechazadas"`
	TasaAprobacion       float64            `json:"tasa_aprobacion"`
	MontoTotalSolicitado float64            `json:"monto_total_solicitado"`
	MontoTotalAprobado   float64            `json:"monto_total_aprobado"`
	ScorePromedio        float64            `json:"score_promedio"`
	PorSucursal          []BranchIndicators `json:"por_sucursal"`
}
