package http

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	LoadedHorizons []int  `json:"loaded_horizons"`
}

// HorizonsResponse is the response body for GET /api/v1/horizons.
type HorizonsResponse struct {
	Horizons []int `json:"horizons"`
}

// SchoolsResponse is the response body for GET /api/v1/horizons/:horizon/schools.
type SchoolsResponse struct {
	Horizon int      `json:"horizon"`
	Schools []string `json:"schools"`
}

// FeaturesResponse is the response body for GET /api/v1/horizons/:horizon/features.
type FeaturesResponse struct {
	Horizon  int      `json:"horizon"`
	Features []string `json:"features"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}
