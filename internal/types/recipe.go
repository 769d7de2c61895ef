package types

// RecipeOutput is one recommended recipe on the wire. Field names follow
// the dataset's column names.
type RecipeOutput struct {
	Name                  string   `json:"Name"`
	CookTime              string   `json:"CookTime"`
	PrepTime              string   `json:"PrepTime"`
	TotalTime             string   `json:"TotalTime"`
	RecipeIngredientParts []string `json:"RecipeIngredientParts"`
	Calories              float64  `json:"Calories"`
	FatContent            float64  `json:"FatContent"`
	SaturatedFatContent   float64  `json:"SaturatedFatContent"`
	CholesterolContent    float64  `json:"CholesterolContent"`
	SodiumContent         float64  `json:"SodiumContent"`
	CarbohydrateContent   float64  `json:"CarbohydrateContent"`
	FiberContent          float64  `json:"FiberContent"`
	SugarContent          float64  `json:"SugarContent"`
	ProteinContent        float64  `json:"ProteinContent"`
	RecipeInstructions    []string `json:"RecipeInstructions"`
	// Distance is the cosine distance to the query, set only on request.
	Distance *float64 `json:"Distance,omitempty"`
}

// PredictionOut is the response of the predict endpoint. Output is never null.
type PredictionOut struct {
	Output  []RecipeOutput `json:"output"`
	Message string         `json:"message,omitempty"`
}
