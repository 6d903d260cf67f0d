package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/httpx"
	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/middleware"
	"github.com/diewo77/food-tracker/internal/models"
	"github.com/diewo77/food-tracker/internal/nutrition"
	"github.com/diewo77/food-tracker/internal/services"
	"github.com/diewo77/food-tracker/validation"
	"github.com/diewo77/food-tracker/view"
)

// ChartBar is one bar of the totals chart. Percent is relative to the largest total.
type ChartBar struct {
	Code    string
	Value   float64
	Percent float64
}

// TrackerView is the view-model of the logged-in page.
type TrackerView struct {
	Foods        []string
	SelectedFood string
	Weight       string
	Entries      []models.FoodLog
	Totals       models.Macros
	Chart        []ChartBar
}

// NewTrackerView builds the page model from the catalog names and a log summary.
func NewTrackerView(foods []string, sum *services.Summary) TrackerView {
	v := TrackerView{Foods: foods, Weight: "0"}
	if len(foods) > 0 {
		v.SelectedFood = foods[0]
	}
	if sum == nil {
		return v
	}
	v.Entries = sum.Entries
	v.Totals = sum.Totals
	v.Chart = []ChartBar{
		{Code: "fats", Value: sum.Totals.Fats},
		{Code: "carbs", Value: sum.Totals.Carbs},
		{Code: "proteins", Value: sum.Totals.Proteins},
		{Code: "calories", Value: sum.Totals.Calories},
	}
	var top float64
	for _, b := range v.Chart {
		top = math.Max(top, b.Value)
	}
	if top > 0 {
		for i := range v.Chart {
			v.Chart[i].Percent = math.Round(v.Chart[i].Value/top*1000) / 10
		}
	}
	return v
}

// TrackerHandler serves the logged-in food tracker page.
type TrackerHandler struct {
	Tracker *services.TrackerService
}

func NewTrackerHandler(tracker *services.TrackerService) *TrackerHandler {
	return &TrackerHandler{Tracker: tracker}
}

// Show renders the food form, the user's log and the totals.
func (h *TrackerHandler) Show(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	sum, err := h.Tracker.Summary(r.Context(), uid)
	if err != nil {
		log.Printf("tracker summary user=%d: %v", uid, err)
		h.fail(w, r)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, sum)
		return
	}
	renderTemplate(w, r, "tracker", map[string]any{
		"View":  NewTrackerView(h.Tracker.Catalog.Names(), sum),
		"Flash": middleware.TakeFlash(w, r),
	})
}

// AddFood scales the chosen food, appends it to the log and redirects back to Show.
func (h *TrackerHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	foodName := strings.TrimSpace(r.FormValue("food_name"))
	rawWeight := r.FormValue("weight")
	v := validation.Violations{}
	validation.Required("food_name", foodName, v)
	weight := validation.Float("weight", rawWeight, v)
	if _, bad := v["weight"]; !bad {
		validation.NonNegativeFloat("weight", weight, v)
	}

	var row *models.FoodLog
	if v.Empty() {
		var err error
		row, err = h.Tracker.AddFood(r.Context(), uid, foodName, weight)
		switch {
		case err == nil:
		case errors.Is(err, catalog.ErrUnknownFood):
			v["food_name"] = "unknown_food"
		case errors.Is(err, nutrition.ErrNegativeWeight):
			v["weight"] = "invalid_weight"
		default:
			log.Printf("add food user=%d food=%q: %v", uid, foodName, err)
			h.fail(w, r)
			return
		}
	}
	if !v.Empty() {
		h.rejected(w, r, uid, foodName, rawWeight, v)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, row)
		return
	}
	middleware.Flash(w, fmt.Sprintf(tr(r, "food_added"), row.FoodName, view.FormatNumber(row.Weight)))
	http.Redirect(w, r, "/tracker", http.StatusSeeOther)
}

// rejected re-renders the page with the submitted values and field errors.
func (h *TrackerHandler) rejected(w http.ResponseWriter, r *http.Request, uid uint, foodName, rawWeight string, v validation.Violations) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_form", v)
		return
	}
	sum, err := h.Tracker.Summary(r.Context(), uid)
	if err != nil {
		log.Printf("tracker summary user=%d: %v", uid, err)
		h.fail(w, r)
		return
	}
	tv := NewTrackerView(h.Tracker.Catalog.Names(), sum)
	if foodName != "" {
		tv.SelectedFood = foodName
	}
	tv.Weight = rawWeight
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	renderTemplate(w, r, "tracker", map[string]any{"View": tv, "Violations": v})
}

func (h *TrackerHandler) fail(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Error(w, tr(r, "internal_error"), http.StatusInternalServerError)
}
