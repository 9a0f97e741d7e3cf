package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse cuerpo de confirmación simple (deletes, verificaciones).
type MessageResponse struct {
	Message string `json:"message"`
}

// PageResponse metadatos de página en las respuestas de listados.
type PageResponse struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// ListResponse lista paginada. Los items ya vienen proyectados, por eso son
// mapas de inclusión y no structs fijos.
type ListResponse struct {
	Items []map[string]any `json:"items"`
	Page  PageResponse     `json:"page"`
}
