package types

// Params tunes the neighbor search.
type Params struct {
	NNeighbors     *int `json:"n_neighbors" binding:"omitempty,gt=0"`
	ReturnDistance bool `json:"return_distance"`
}

// PredictionIn is the body of the predict endpoint.
type PredictionIn struct {
	NutritionInput []float64 `json:"nutrition_input" binding:"required,len=9"`
	Ingredients    []string  `json:"ingredients"`
	Diseases       []string  `json:"diseases"`
	Params         *Params   `json:"params"`
}

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	HealthCheck string `json:"health_check"`
}
