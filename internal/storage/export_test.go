// ABOUTME: Tests for export and import of whole repositories.
// ABOUTME: Covers JSON/YAML round trips, user id remapping, and the Markdown summary.
package storage

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

// seedStore fills r with two users, their records, and one progress row.
func seedStore(t *testing.T, r Repository) (alice, bob *models.User) {
	t.Helper()

	var err error
	alice, err = r.CreateUser(models.NewUser("alice"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bob, err = r.CreateUser(models.NewUser("bob").WithGoals(models.Goals{Calories: 2500}))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	sugar := 12.0
	if _, err := r.CreateMeal(models.NewMeal(bob.ID, "Cereal").WithDate(day.Add(8 * time.Hour)).
		AddItem(models.MealItem{Name: "Flakes", Calories: 220, Protein: 6, Sugar: &sugar})); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}
	meters := 2000.0
	if _, err := r.CreateWorkout(models.NewWorkout(bob.ID, models.WorkoutRowing).WithDate(day).
		WithDuration(8).WithDetails(&models.RowingDetails{RowingMeters: &meters, RowingSplit: "2:00.00"})); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}
	if _, err := r.CreateFoodItem(&models.FoodItem{Name: "Egg", Calories: 70, Protein: 6}); err != nil {
		t.Fatalf("CreateFoodItem failed: %v", err)
	}
	p := models.NewDailyProgress(bob.ID, day)
	p.CaloriesConsumed = 220
	p.RowingMeters = 2000
	if _, err := r.PutDailyProgress(p); err != nil {
		t.Fatalf("PutDailyProgress failed: %v", err)
	}
	return alice, bob
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	out, err := ExportJSON(db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(out, &data); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if data.Version != ExportVersion || data.Tool != "dailylog" {
		t.Errorf("unexpected header: %s %s", data.Version, data.Tool)
	}
	if len(data.Users) != 2 || len(data.Meals) != 1 || len(data.Workouts) != 1 || len(data.DailyProgress) != 1 {
		t.Fatalf("unexpected counts: %d users, %d meals, %d workouts, %d progress",
			len(data.Users), len(data.Meals), len(data.Workouts), len(data.DailyProgress))
	}
	if m, ok := data.Workouts[0].RowingMeters(); !ok || m != 2000 {
		t.Errorf("rowing details lost in JSON: %v %v", m, ok)
	}
}

func TestExportYAMLRoundTrip(t *testing.T) {
	src := NewMemoryStore()
	seedStore(t, src)

	out, err := ExportYAML(src)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}
	if !strings.Contains(string(out), "rowing_split:") {
		t.Errorf("expected rowing split in YAML, got:\n%s", out)
	}

	data, err := ParseExport(out, "yaml")
	if err != nil {
		t.Fatalf("ParseExport failed: %v", err)
	}
	if len(data.Workouts) != 1 {
		t.Fatalf("expected 1 workout, got %d", len(data.Workouts))
	}
	if m, ok := data.Workouts[0].RowingMeters(); !ok || m != 2000 {
		t.Errorf("rowing meters = %v, %v", m, ok)
	}
	if data.Meals[0].Items[0].Sugar == nil || *data.Meals[0].Items[0].Sugar != 12 {
		t.Error("expected item sugar to survive YAML")
	}
}

func TestParseExportUnknownFormat(t *testing.T) {
	if _, err := ParseExport([]byte("{}"), "toml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, err := ParseExport([]byte("{not json"), "json"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportRemapsUserIDs(t *testing.T) {
	src := NewMemoryStore()
	_, bob := seedStore(t, src)
	data, err := GetAllData(src)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}

	// The destination already has users, so bob gets a different id.
	dst := setupLocalStore(t)
	for _, name := range []string{"x", "y", "z"} {
		if _, err := dst.CreateUser(models.NewUser(name)); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	summary, err := ImportData(dst, data)
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if summary.Users != 2 || summary.Meals != 1 || summary.Workouts != 1 || summary.DailyProgress != 1 || summary.FoodItems != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	newBob, err := dst.GetUserByUsername("bob")
	if err != nil || newBob == nil {
		t.Fatalf("bob not imported: %v", err)
	}
	if newBob.ID == bob.ID {
		t.Fatalf("expected a new id, got the source id %d", bob.ID)
	}
	if newBob.Goals.Calories != 2500 {
		t.Errorf("goals not imported: %+v", newBob.Goals)
	}

	meals, err := dst.ListMealsByDate(newBob.ID, day)
	if err != nil {
		t.Fatalf("ListMealsByDate failed: %v", err)
	}
	if len(meals) != 1 || meals[0].Title != "Cereal" {
		t.Errorf("meal not moved to the new user: %+v", meals)
	}
	p, err := dst.GetDailyProgress(newBob.ID, day)
	if err != nil || p == nil {
		t.Fatalf("progress not imported: %v", err)
	}
	if p.RowingMeters != 2000 {
		t.Errorf("rowing meters = %v, want 2000", p.RowingMeters)
	}
}

func TestImportMergesExistingUsername(t *testing.T) {
	dst := NewMemoryStore()
	existing, err := dst.CreateUser(models.NewUser("bob"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	data := &ExportData{
		Users: []*models.User{{ID: 7, Username: "bob"}},
		Meals: []*models.Meal{{ID: 1, UserID: 7, Title: "Toast", Date: day}},
	}
	summary, err := ImportData(dst, data)
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if summary.Users != 0 {
		t.Errorf("expected no new users, got %d", summary.Users)
	}
	meals, _ := dst.ListMeals(&existing.ID)
	if len(meals) != 1 {
		t.Errorf("expected the meal under the existing user, got %d", len(meals))
	}
}

func TestImportRejectsOrphans(t *testing.T) {
	data := &ExportData{
		Meals: []*models.Meal{{ID: 1, UserID: 99, Title: "Ghost", Date: day}},
	}
	_, err := ImportData(NewMemoryStore(), data)
	if !errors.Is(err, ErrUnknownOwner) {
		t.Fatalf("expected ErrUnknownOwner, got %v", err)
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	_, bob := seedStore(t, db)
	early := models.NewDailyProgress(bob.ID, day.AddDate(0, 0, -10))
	early.CaloriesConsumed = 999
	if _, err := db.PutDailyProgress(early); err != nil {
		t.Fatalf("PutDailyProgress failed: %v", err)
	}

	md, err := ExportMarkdown(db, bob.ID, nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "# Daily Log - bob") {
		t.Errorf("missing title:\n%s", md)
	}
	if !strings.Contains(md, "| 2024-03-10 | 220 |") || !strings.Contains(md, "| 2024-02-29 | 999 |") {
		t.Errorf("missing rows:\n%s", md)
	}

	since := day.Add(-time.Hour * 24)
	md, err = ExportMarkdown(db, bob.ID, &since)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if strings.Contains(md, "2024-02-29") {
		t.Errorf("since filter ignored:\n%s", md)
	}

	if _, err := ExportMarkdown(db, 4242, nil); err == nil {
		t.Error("expected error for unknown user")
	}
}
