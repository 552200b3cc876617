package handler

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}
