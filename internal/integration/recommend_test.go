package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/config"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/database"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/dataset"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/metrics"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/server"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/service"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/types"
)

const header = "RecipeId,Name,CookTime,PrepTime,TotalTime,RecipeIngredientParts,Calories,FatContent,SaturatedFatContent,CholesterolContent,SodiumContent,CarbohydrateContent,FiberContent,SugarContent,ProteinContent,RecipeInstructions"

var rows = []struct {
	name        string
	ingredients []string
	nutrients   string
}{
	{"Chicken Curry", []string{"chicken", "curry powder"}, "300,10,2,20,400,40,5,8,15"},
	{"Chicken Salad", []string{"Chicken breast", "lettuce"}, "250,12,3,60,300,10,3,4,30"},
	{"Roast Chicken", []string{"whole chicken", "butter"}, "500,30,10,150,800,5,1,1,45"},
	{"Chicken Soup", []string{"chicken stock", "carrot"}, "150,4,1,30,900,15,2,3,12"},
	{"Fried Chicken", []string{"chicken thighs", "flour"}, "600,35,8,120,700,30,1,1,40"},
	{"Chicken Stir Fry", []string{"chicken", "soy sauce"}, "350,12,2,70,1000,25,4,6,32"},
	{"Honey Cake", []string{"honey", "sugar"}, "400,15,5,50,200,60,1,40,5"},
	{"Garden Salad", []string{"lettuce", "tomato"}, "80,1,0,0,50,12,4,6,2"},
}

func encode(parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `""` + p + `""`
	}
	return `"c(` + strings.Join(quoted, ", ") + `)"`
}

func writeDataset(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	fmt.Fprintln(zw, header)
	for i, r := range rows {
		fmt.Fprintf(zw, "%d,%s,PT30M,PT10M,PT40M,%s,%s,%s\n", i+1, r.name, encode(r.ingredients), r.nutrients, encode([]string{"Prepare", "Cook"}))
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "dataset.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newServer(t *testing.T, store *dataset.Store) *httptest.Server {
	t.Helper()
	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: "0", CORSAllowedOrigins: []string{"http://localhost:8501"}}
	svc := service.NewRecommendService(store, service.DefaultRestrictionPolicy(), service.NewIngredientFilter(5), zap.NewNop(), metrics.New(), 5)
	ts := httptest.NewServer(server.New(cfg, svc, server.Options{Logger: zap.NewNop()}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func predict(t *testing.T, ts *httptest.Server, body map[string]interface{}) (int, types.PredictionOut) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/predict/", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out types.PredictionOut
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func outputNames(out types.PredictionOut) []string {
	names := make([]string, len(out.Output))
	for i, o := range out.Output {
		names[i] = o.Name
	}
	return names
}

func TestPredictFromCSVDataset(t *testing.T) {
	store, report, err := dataset.Open(context.Background(), writeDataset(t), nil)
	require.NoError(t, err)
	require.Equal(t, len(rows), report.Loaded)
	ts := newServer(t, store)

	status, out := predict(t, ts, map[string]interface{}{
		"nutrition_input": []float64{300, 10, 2, 20, 400, 40, 5, 8, 15},
		"ingredients":     []string{"chicken"},
		"diseases":        []string{"diabetes"},
		"params":          map[string]interface{}{"n_neighbors": 5, "return_distance": true},
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Output, 5)
	assert.Equal(t, "Chicken Curry", out.Output[0].Name)
	assert.Equal(t, []string{"chicken", "curry powder"}, out.Output[0].RecipeIngredientParts)
	assert.Equal(t, []string{"Prepare", "Cook"}, out.Output[0].RecipeInstructions)
	for i, o := range out.Output {
		assert.Contains(t, o.Name, "Chicken")
		require.NotNil(t, o.Distance)
		if i > 0 {
			assert.GreaterOrEqual(t, *o.Distance, *out.Output[i-1].Distance)
		}
	}

	// "sugar" is stripped for diabetics, leaving no ingredient constraint.
	status, out = predict(t, ts, map[string]interface{}{
		"nutrition_input": []float64{400, 15, 5, 50, 200, 60, 1, 40, 5},
		"ingredients":     []string{"sugar"},
		"diseases":        []string{"diabetes"},
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Output, 5)
	assert.Equal(t, "Honey Cake", out.Output[0].Name)

	status, out = predict(t, ts, map[string]interface{}{
		"nutrition_input": []float64{300, 10, 2, 20, 400, 40, 5, 8, 15},
		"ingredients":     []string{"saffron"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out.Output, 5)

	status, _ = predict(t, ts, map[string]interface{}{"nutrition_input": []float64{1, 2, 3}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, out = predict(t, ts, map[string]interface{}{
		"nutrition_input": []float64{300, 10, 2, 20, 400, 40, 5, 8, 15},
		"params":          map[string]interface{}{"n_neighbors": 50},
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotNil(t, out.Output)
	assert.Empty(t, out.Output)
	assert.Equal(t, "no recommendations found", out.Message)
}

func TestDatabaseSourceMatchesCSV(t *testing.T) {
	ctx := context.Background()
	csvStore, _, err := dataset.Open(ctx, writeDataset(t), nil)
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "recipes.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	for i := 0; i < csvStore.Len(); i++ {
		r := csvStore.At(i)
		require.NoError(t, db.Create(&r).Error)
	}

	dbStore, report, err := dataset.LoadDB(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, csvStore.Len(), report.Loaded)

	body := map[string]interface{}{
		"nutrition_input": []float64{200, 8, 2, 40, 500, 20, 3, 5, 20},
		"ingredients":     []string{"chicken"},
	}
	_, fromCSV := predict(t, newServer(t, csvStore), body)
	_, fromDB := predict(t, newServer(t, dbStore), body)
	assert.Equal(t, outputNames(fromCSV), outputNames(fromDB))
	assert.Len(t, fromDB.Output, 5)
}
