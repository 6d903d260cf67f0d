package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diewo77/food-tracker/internal/models"
	"github.com/diewo77/food-tracker/internal/services"
)

func TestNewTrackerView(t *testing.T) {
	sum := &services.Summary{
		Entries: []models.FoodLog{{FoodName: "Apple"}},
		Totals:  models.Macros{Fats: 5, Carbs: 20, Proteins: 10, Calories: 200},
	}
	v := NewTrackerView([]string{"Apple", "Banana"}, sum)
	if v.SelectedFood != "Apple" || v.Weight != "0" {
		t.Fatalf("defaults: %+v", v)
	}
	want := map[string]float64{"fats": 2.5, "carbs": 10, "proteins": 5, "calories": 100}
	if len(v.Chart) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(v.Chart))
	}
	for _, b := range v.Chart {
		if b.Percent != want[b.Code] {
			t.Errorf("%s percent = %v, want %v", b.Code, b.Percent, want[b.Code])
		}
	}

	empty := NewTrackerView(nil, &services.Summary{})
	for _, b := range empty.Chart {
		if b.Percent != 0 {
			t.Fatalf("zero totals should give empty bars: %+v", empty.Chart)
		}
	}
}

func TestAddFoodAppendsAndRedirects(t *testing.T) {
	f := setup(t)
	u := f.mustUser(t, "alice", "pw1")
	h := NewTrackerHandler(f.tracker)

	w := httptest.NewRecorder()
	h.AddFood(w, asUser(form(http.MethodPost, "/tracker/foods", url.Values{"food_name": {"Apple"}, "weight": {"200"}}), u.ID, u.Username))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/tracker" {
		t.Fatalf("expected 303 to /tracker, got %d %q", w.Code, w.Header().Get("Location"))
	}
	rows, err := f.tracker.Logs.ListForUser(context.Background(), u.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d (%v)", len(rows), err)
	}

	w = httptest.NewRecorder()
	h.Show(w, asUser(httptest.NewRequest(http.MethodGet, "/tracker", nil), u.ID, u.Username))
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.Contains(body, "<td>Apple</td>") || !strings.Contains(body, "<td>0.4</td>") {
		t.Fatalf("tracker page missing Apple row (%d): %s", w.Code, body)
	}
}

func TestAddFoodJSON(t *testing.T) {
	f := setup(t)
	u := f.mustUser(t, "alice", "pw1")
	h := NewTrackerHandler(f.tracker)

	r := asUser(form(http.MethodPost, "/tracker/foods", url.Values{"food_name": {"Apple"}, "weight": {"50,5"}}), u.ID, u.Username)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.AddFood(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var row models.FoodLog
	if err := json.Unmarshal(w.Body.Bytes(), &row); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if row.Weight != 50.5 || row.UserID != u.ID {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestAddFoodRejected(t *testing.T) {
	f := setup(t)
	u := f.mustUser(t, "alice", "pw1")
	h := NewTrackerHandler(f.tracker)

	tests := []struct {
		name   string
		values url.Values
		msg    string
	}{
		{"unknown food", url.Values{"food_name": {"Unobtainium"}, "weight": {"100"}}, "field-error"},
		{"negative weight", url.Values{"food_name": {"Apple"}, "weight": {"-1"}}, "field-error"},
		{"not a number", url.Values{"food_name": {"Apple"}, "weight": {"abc"}}, "field-error"},
		{"missing food", url.Values{"weight": {"100"}}, "field-error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.AddFood(w, asUser(form(http.MethodPost, "/tracker/foods", tt.values), u.ID, u.Username))
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.msg) {
				t.Fatalf("expected %q in body: %s", tt.msg, w.Body.String())
			}
		})
	}
	rows, _ := f.tracker.Logs.ListForUser(context.Background(), u.ID)
	if len(rows) != 0 {
		t.Fatalf("rejected input must not write rows, got %d", len(rows))
	}
}
