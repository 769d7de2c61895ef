package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/service"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/types"
)

// NoRecommendationsMessage accompanies an empty output.
const NoRecommendationsMessage = "no recommendations found"

type RecommendHandler struct {
	service service.IRecommendService
}

func NewRecommendHandler(svc service.IRecommendService) *RecommendHandler {
	return &RecommendHandler{service: svc}
}

func (h *RecommendHandler) RegisterRoutes(router gin.IRoutes, predict ...gin.HandlerFunc) {
	router.GET("/", h.HealthCheck)
	router.POST("/predict/", append(predict, h.Predict)...)
}

// HealthCheck reports liveness.
func (h *RecommendHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{HealthCheck: "OK"})
}

// Predict returns recipes whose nutrient profile is closest to the request.
func (h *RecommendHandler) Predict(c *gin.Context) {
	var in types.PredictionIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Recommend(c.Request.Context(), toRequest(in))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	out := types.PredictionOut{
		Output: service.FormatRecommendations(res.Recommendations, res.ReturnDistance),
	}
	if len(out.Output) == 0 {
		out.Message = NoRecommendationsMessage
	}
	c.JSON(http.StatusOK, out)
}

func toRequest(in types.PredictionIn) service.Request {
	req := service.Request{
		NutritionInput: in.NutritionInput,
		Ingredients:    in.Ingredients,
		Diseases:       in.Diseases,
	}
	if in.Params != nil {
		req.Params = &service.Params{ReturnDistance: in.Params.ReturnDistance}
		if in.Params.NNeighbors != nil {
			req.Params.NNeighbors = *in.Params.NNeighbors
		}
	}
	return req
}
