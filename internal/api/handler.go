package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgenius/internal/imaging"
	"foodgenius/internal/order"
	"foodgenius/internal/recipe"
	"foodgenius/internal/search"
	"foodgenius/internal/transform"
)

// RecipeStore defines the interface for recipe catalog operations.
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]recipe.Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (*recipe.Recipe, error)
}

// OrderStore defines the interface for order persistence.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *order.Order) error
	ListOrders(ctx context.Context, email string) ([]order.Order, error)
}

// TextGenerator defines the interface for the language model behind chat and
// LLM transforms.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt, system string) (string, error)
}

// ReferenceData supplies the current synonym and substitution tables.
type ReferenceData interface {
	Synonyms() search.Synonyms
	Substitutions() transform.Substitutions
}

// ImageURLs renders image addresses.
type ImageURLs interface {
	RecipeImage(publicID string) string
	Logo(width, height int) string
}

// ImageLibrary serves locally stored images.
type ImageLibrary interface {
	Find(name string) (string, error)
	Thumbnail(name string, width, height uint) ([]byte, string, error)
}

// Handler handles HTTP requests.
type Handler struct {
	RecipeStore  RecipeStore
	OrderStore   OrderStore
	LLM          TextGenerator
	RefData      ReferenceData
	Images       ImageURLs
	ImageLibrary ImageLibrary
	Logger       *zap.Logger
}

// NewHandler creates a new Handler. llm may be nil, in which case chat and
// LLM transforms answer 503.
func NewHandler(recipeStore RecipeStore, orderStore OrderStore, llm TextGenerator, refData ReferenceData, images ImageURLs, library ImageLibrary, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		RecipeStore:  recipeStore,
		OrderStore:   orderStore,
		LLM:          llm,
		RefData:      refData,
		Images:       images,
		ImageLibrary: library,
		Logger:       logger,
	}
}

const (
	storeTimeout = 5 * time.Second
	llmTimeout   = 60 * time.Second

	chatSystemPrompt = "You are a professional cooking assistant. Answer briefly, clearly and practically."
)

func (h *Handler) imageURL(publicID string) string {
	if h.Images == nil {
		return publicID
	}
	return h.Images.RecipeImage(publicID)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// SearchRecipes handles ingredient search over the catalog.
func (h *Handler) SearchRecipes(c *gin.Context) {
	opts := search.DefaultOptions()

	mode, err := search.ParseMode(c.Query("mode"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	opts.Mode = mode

	if opts.MinHits, err = queryInt(c, "min_k", opts.MinHits); err != nil {
		c.String(http.StatusBadRequest, "min_k must be an integer")
		return
	}
	if opts.Limit, err = queryInt(c, "limit", opts.Limit); err != nil {
		c.String(http.StatusBadRequest, "limit must be an integer")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	catalog, err := h.RecipeStore.ListRecipes(ctx)
	if err != nil {
		h.Logger.Error("failed to load catalog, returning no results", zap.Error(err))
		c.JSON(http.StatusOK, []recipe.Summary{})
		return
	}

	engine := search.NewEngine(h.RefData.Synonyms())
	results := engine.Search(c.Query("q"), catalog, opts)

	summaries := make([]recipe.Summary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, r.Recipe.ToSummary(h.imageURL))
	}
	h.Logger.Debug("recipe search",
		zap.String("q", c.Query("q")),
		zap.String("mode", string(opts.Mode)),
		zap.Int("catalog", len(catalog)),
		zap.Int("results", len(summaries)))

	c.JSON(http.StatusOK, summaries)
}

// lookupRecipe writes the error response itself and returns nil when the
// recipe cannot be served.
func (h *Handler) lookupRecipe(c *gin.Context, id string) *recipe.Recipe {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	r, err := h.RecipeStore.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return nil
		}
		h.Logger.Error("failed to get recipe", zap.String("id", id), zap.Error(err))
		c.String(http.StatusInternalServerError, "database error: "+err.Error())
		return nil
	}
	if r == nil {
		c.String(http.StatusNotFound, "Recipe not found")
		return nil
	}
	return r
}

// GetRecipe handles requests to retrieve a single recipe by id.
func (h *Handler) GetRecipe(c *gin.Context) {
	r := h.lookupRecipe(c, c.Param("id"))
	if r == nil {
		return
	}
	c.JSON(http.StatusOK, r.ToDetail(h.imageURL))
}

// Logo returns the logo URL sized to the optional width and height.
func (h *Handler) Logo(c *gin.Context) {
	width, err := queryInt(c, "width", 0)
	if err != nil {
		c.String(http.StatusBadRequest, "width must be an integer")
		return
	}
	height, err := queryInt(c, "height", 0)
	if err != nil {
		c.String(http.StatusBadRequest, "height must be an integer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.Images.Logo(width, height)})
}

// Image serves a local image, resized when w or h is given.
func (h *Handler) Image(c *gin.Context) {
	name := c.Param("name")
	width, errW := queryInt(c, "w", 0)
	height, errH := queryInt(c, "h", 0)
	if errW != nil || errH != nil || width < 0 || height < 0 {
		c.String(http.StatusBadRequest, "w and h must be non-negative integers")
		return
	}

	if width == 0 && height == 0 {
		path, err := h.ImageLibrary.Find(name)
		if err != nil {
			c.String(http.StatusNotFound, "Image not found")
			return
		}
		c.File(path)
		return
	}

	data, contentType, err := h.ImageLibrary.Thumbnail(name, uint(width), uint(height))
	if err != nil {
		if errors.Is(err, imaging.ErrImageNotFound) {
			c.String(http.StatusNotFound, "Image not found")
			return
		}
		h.Logger.Error("failed to resize image", zap.String("name", name), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to resize image: "+err.Error())
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func llmErrorStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout
	}
	return http.StatusBadGateway
}

// extractJSONObject returns the text between the first '{' and the last '}',
// which is where models put the object when they wrap it in prose or
// markdown fences.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start > end {
		return "", false
	}
	return text[start : end+1], true
}

// parseLLMResult decodes model output as a JSON object, falling back to a
// raw-text wrapper.
func parseLLMResult(text string) (any, string) {
	if obj, ok := extractJSONObject(text); ok {
		var result map[string]any
		if err := json.Unmarshal([]byte(obj), &result); err == nil {
			return result, SourceLLM
		}
	}
	return gin.H{"raw": text}, SourceLLMRaw
}

// Chat answers a cooking question, optionally in the context of a recipe.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if h.LLM == nil {
		c.String(http.StatusServiceUnavailable, "no language model configured")
		return
	}

	prompt := req.Question
	if req.RecipeID != "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		r, err := h.RecipeStore.GetRecipeByID(ctx, req.RecipeID)
		cancel()
		if err != nil {
			h.Logger.Warn("chat context unavailable", zap.String("recipe_id", req.RecipeID), zap.Error(err))
		} else if r != nil {
			prompt = r.ContextText() + req.Question
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), llmTimeout)
	defer cancel()

	answer, err := h.LLM.GenerateText(ctx, prompt, chatSystemPrompt)
	if err != nil {
		h.Logger.Error("chat generation failed", zap.Error(err))
		c.String(llmErrorStatus(err), "llm err: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, chatResponse{Answer: answer})
}
