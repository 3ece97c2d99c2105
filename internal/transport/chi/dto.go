package chi

// queryRequest is the body of POST /query.
type queryRequest struct {
	Query              string  `json:"query"`
	K                  *int    `json:"k,omitempty"`
	FilterAvailability *string `json:"filter_availability,omitempty"`
	MinExperience      *int    `json:"min_experience,omitempty"`
	SystemPrompt       *string `json:"system_prompt,omitempty"`
}

// customPromptRequest is the body of POST /query/custom-prompt.
type customPromptRequest struct {
	Query        string `json:"query"`
	SystemPrompt string `json:"system_prompt"`
}

// queryResponse is the shared response shape of every query route.
type queryResponse struct {
	Query       string   `json:"query"`
	LLMResponse string   `json:"llm_response"`
	Sources     []string `json:"sources"`
}

// healthResponse is the passing GET /health response.
type healthResponse struct {
	Status      string `json:"status"`
	Collection  string `json:"collection"`
	VectorCount int    `json:"vector_count"`
}

// errorResponse is the single error shape of the API.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeUnauthorized       = "unauthorized"
	codeInvalidRequest     = "invalid_request"
	codeCollectionNotFound = "collection_not_found"
	codeEmbeddingProvider  = "embedding_provider_error"
	codeGenerationProvider = "generation_provider_error"
	codeInternalError      = "internal_error"
	codeHealthCheckFailed  = "health_check_failed"
)
