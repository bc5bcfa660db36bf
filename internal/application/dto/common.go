package dto

// MaxPageLimit tope de filas por página.
const MaxPageLimit = 100

// PageRequest paginación para listados (query: limit, offset).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica defaults: limit 20 si no viene, tope MaxPageLimit, offset no negativo.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DueEntriesResponse respuesta de GET /api/finance/entries/due.
type DueEntriesResponse struct {
	Items []FinanceEntryResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (VALIDATION, NOT_FOUND, INVALID_STATE...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
