package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

// Report summarizes a dataset load.
type Report struct {
	Loaded  int
	Skipped int
}

const (
	colName         = "Name"
	colCookTime     = "CookTime"
	colPrepTime     = "PrepTime"
	colTotalTime    = "TotalTime"
	colIngredients  = "RecipeIngredientParts"
	colInstructions = "RecipeInstructions"
)

var gzipMagic = []byte{0x1f, 0x8b}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("dataset: missing required column")

// LoadCSV reads a header-addressed CSV dataset, gzip-compressed or plain.
// Rows whose nutrient cells are empty, negative or not finite are skipped
// and counted in the report.
func LoadCSV(r io.Reader) ([]model.Recipe, Report, error) {
	var report Report

	br := bufio.NewReader(r)
	src := io.Reader(br)
	if magic, err := br.Peek(2); err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, report, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, report, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, report, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, report, err
	}

	var recipes []model.Recipe
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("failed to read dataset row: %w", err)
		}

		recipe, ok := cols.recipe(record)
		if !ok {
			report.Skipped++
			continue
		}
		recipes = append(recipes, recipe)
	}

	report.Loaded = len(recipes)
	return recipes, report, nil
}

type columnIndex struct {
	name, cookTime, prepTime, totalTime int
	ingredients, instructions          int
	nutrients                          [model.NutrientCount]int
	width                              int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	cols := columnIndex{
		name:         lookup(colName),
		cookTime:     lookup(colCookTime),
		prepTime:     lookup(colPrepTime),
		totalTime:    lookup(colTotalTime),
		ingredients:  lookup(colIngredients),
		instructions: lookup(colInstructions),
	}
	for i, name := range model.NutrientColumns {
		cols.nutrients[i] = lookup(name)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	for _, i := range append([]int{cols.name, cols.cookTime, cols.prepTime, cols.totalTime, cols.ingredients, cols.instructions}, cols.nutrients[:]...) {
		if i+1 > cols.width {
			cols.width = i + 1
		}
	}
	return cols, nil
}

func (c columnIndex) recipe(record []string) (model.Recipe, bool) {
	if len(record) < c.width {
		return model.Recipe{}, false
	}

	var nutrients model.NutrientVector
	for i, col := range c.nutrients {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return model.Recipe{}, false
		}
		nutrients[i] = v
	}

	r := model.Recipe{
		Name:         record[c.name],
		CookTime:     record[c.cookTime],
		PrepTime:     record[c.prepTime],
		TotalTime:    record[c.totalTime],
		Ingredients:  model.ParseQuoted(record[c.ingredients]),
		Instructions: model.ParseQuoted(record[c.instructions]),
	}
	r.SetNutrients(nutrients)
	return r, true
}
