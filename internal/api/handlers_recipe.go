package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	respond "github.com/Clinton-Cochrane/mobile-grocery/internal/api/respond"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/api/validate"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/auth"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/services"
)

const maxBodyBytes = 1 << 20

// RecipeHandler is the HTTP transport over RecipeService.
type RecipeHandler struct {
	svc        *services.RecipeService
	authorizer auth.Authorizer
}

func NewRecipeHandler(svc *services.RecipeService, authorizer auth.Authorizer) *RecipeHandler {
	return &RecipeHandler{svc: svc, authorizer: authorizer}
}

// recipeRequest is the writable part of a recipe.
type recipeRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Ingredients  []string         `json:"ingredients"`
	Instructions []string         `json:"instructions"`
	Difficulty   string           `json:"difficulty"`
	Time         *model.Timing    `json:"time"`
	Servings     int              `json:"servings"`
	Nutrition    *model.Nutrition `json:"nutrition"`
	Utensils     []string         `json:"utensils"`
	Tags         []string         `json:"tags"`
	SourceURL    string           `json:"url"`
}

func (req recipeRequest) toModel() *model.Recipe {
	return &model.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Difficulty:   req.Difficulty,
		Time:         req.Time,
		Servings:     req.Servings,
		Nutrition:    req.Nutrition,
		Utensils:     req.Utensils,
		Tags:         req.Tags,
		SourceURL:    req.SourceURL,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// actor authorizes a mutation; on failure the 401 has already been written.
func (h *RecipeHandler) actor(w http.ResponseWriter, r *http.Request, operation string) (*auth.ActorInfo, bool) {
	actor, err := auth.AuthorizeRequest(r, h.authorizer, operation)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	return actor, true
}

// writeServiceError maps domain errors onto status codes. Anything unknown
// is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve model.ValidationError
	switch {
	case errors.As(err, &ve):
		respond.WriteBadRequest(w, ve.Field+": "+ve.Message)
	case errors.Is(err, model.ErrInvalidID):
		respond.WriteBadRequest(w, "id: "+model.ErrInvalidID.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "recipe not found")
	case errors.Is(err, model.ErrForbidden):
		respond.WriteForbidden(w, "recipe belongs to another user")
	default:
		zerolog.Ctx(r.Context()).Error().Stack().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		respond.WriteInternalError(w)
	}
}

// ListRecipes GET /recipes
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), query.ParseCriteria(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, page)
}

// GetRecipe GET /recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// CreateRecipe POST /recipes
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r, "recipe.create")
	if !ok {
		return
	}
	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec := req.toModel()
	if err := validate.CreateRecipe(rec); err != nil {
		writeServiceError(w, r, err)
		return
	}
	out, err := h.svc.Create(r.Context(), actor.Subject, rec)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// UpdateRecipe PUT /recipes/{id}
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r, "recipe.update")
	if !ok {
		return
	}
	var patch model.RecipePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := validate.UpdateRecipe(&patch); err != nil {
		writeServiceError(w, r, err)
		return
	}
	out, err := h.svc.Update(r.Context(), actor.Subject, mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteRecipe DELETE /recipes/{id}
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r, "recipe.delete")
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), actor.Subject, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id})
}

// ShoppingList POST /shopping-list
func (h *RecipeHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipeIDs []string `json:"recipeIds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.ShoppingList(req.RecipeIDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	list, err := h.svc.ShoppingList(r.Context(), req.RecipeIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, list)
}
