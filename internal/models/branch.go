package models

// Branch is reference data for a service branch (sucursal). Fetched once
// and held read-only for the lifetime of a form view.
type Branch struct {
	ID        int     `json:"id"`
	Nombre    string  `json:"nombre"`
	Ciudad    string  `json:"ciudad"`
	Direccion string  `json:"direccion"`
	Telefono  *string `json:"telefono,omitempty"`
	CreatedAt string  `json:"created_at"`
}
