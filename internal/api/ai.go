package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgenius/internal/recipe"
	"foodgenius/internal/transform"
)

// Result sources reported by the transform endpoint.
const (
	SourceRules  = "rules"
	SourceLLM    = "llm"
	SourceLLMRaw = "llm-raw"
)

const veganizeSystemPrompt = "You are a professional chef specialising in plant-based cooking. " +
	"Rewrite the given recipe so it is fully vegan. Reply with a single JSON object with the keys " +
	"\"title\", \"ingredients\" (list of {\"name\", \"amount\"}), \"steps\" (list of strings) and " +
	"\"replacements\" (list of {\"from\", \"to\", \"note\"}). Do not add any text outside the JSON."

type transformRequest struct {
	RecipeID     string   `json:"recipe_id" binding:"required"`
	Goal         string   `json:"goal" binding:"required"`
	ServingsFrom *float64 `json:"servings_from"`
	ServingsTo   *float64 `json:"servings_to"`
	UseLLM       bool     `json:"use_llm"`
}

type transformResponse struct {
	Result any    `json:"result"`
	Source string `json:"source"`
}

type chatRequest struct {
	RecipeID string `json:"recipe_id"`
	Question string `json:"question" binding:"required"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Transform handles veganize and scale requests.
func (h *Handler) Transform(c *gin.Context) {
	var req transformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	goal, err := transform.ParseGoal(req.Goal)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	var factor float64
	if goal == transform.GoalScale {
		if req.ServingsFrom == nil || req.ServingsTo == nil {
			c.String(http.StatusBadRequest, "servings_from and servings_to are required for scale")
			return
		}
		if *req.ServingsFrom <= 0 || *req.ServingsTo <= 0 {
			c.String(http.StatusBadRequest, "servings_from and servings_to must be positive")
			return
		}
		factor = *req.ServingsTo / *req.ServingsFrom
	}

	r := h.lookupRecipe(c, req.RecipeID)
	if r == nil {
		return
	}

	t := transform.New(h.RefData.Substitutions())

	switch goal {
	case transform.GoalScale:
		c.JSON(http.StatusOK, transformResponse{Result: t.Scale(r, factor), Source: SourceRules})
	case transform.GoalVeganize:
		if !req.UseLLM {
			c.JSON(http.StatusOK, transformResponse{Result: t.Veganize(r), Source: SourceRules})
			return
		}
		h.veganizeWithLLM(c, r)
	}
}

func (h *Handler) veganizeWithLLM(c *gin.Context, r *recipe.Recipe) {
	if h.LLM == nil {
		c.String(http.StatusServiceUnavailable, "no language model configured")
		return
	}

	payload, err := json.Marshal(struct {
		Title       string              `json:"title"`
		Ingredients []recipe.Ingredient `json:"ingredients"`
		Steps       []string            `json:"steps"`
	}{r.Title, r.Ingredients, r.Steps})
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to encode recipe: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), llmTimeout)
	defer cancel()

	text, err := h.LLM.GenerateText(ctx, string(payload), veganizeSystemPrompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "language model timed out")
			return
		}
		h.Logger.Error("veganize generation failed", zap.String("recipe_id", r.ID), zap.Error(err))
		c.String(http.StatusBadGateway, "llm err: "+err.Error())
		return
	}

	result, source := parseLLMResult(text)
	c.JSON(http.StatusOK, transformResponse{Result: result, Source: source})
}
