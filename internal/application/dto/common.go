package dto

import "time"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// SuccessResponse cuerpo de respuesta exitosa.
type SuccessResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP. Fields lista los campos inválidos (campo -> regla).
type ErrorResponse struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ParseDateRange interpreta from/to (YYYY-MM-DD). to es inclusivo: se extiende al final del día.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		d, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return nil, nil, err
		}
		f = &d
	}
	if to != "" {
		d, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return nil, nil, err
		}
		end := d.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	return f, t, nil
}
