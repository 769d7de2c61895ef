package service

import (
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/dataset"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

func testRecipe(name string, ingredients []string, v model.NutrientVector) model.Recipe {
	r := model.Recipe{
		Name:         name,
		CookTime:     "PT30M",
		PrepTime:     "PT10M",
		TotalTime:    "PT40M",
		Ingredients:  ingredients,
		Instructions: model.QuotedList{"Prepare", "Cook"},
	}
	r.SetNutrients(v)
	return r
}

// testRecipes has six chicken dishes followed by four others.
func testRecipes() []model.Recipe {
	return []model.Recipe{
		testRecipe("Chicken Curry", []string{"chicken", "curry powder", "onion"}, model.NutrientVector{300, 10, 2, 20, 400, 40, 5, 8, 15}),
		testRecipe("Chicken Salad", []string{"Chicken breast", "lettuce"}, model.NutrientVector{250, 12, 3, 60, 300, 10, 3, 4, 30}),
		testRecipe("Roast Chicken", []string{"whole chicken", "butter", "salt"}, model.NutrientVector{500, 30, 10, 150, 800, 5, 1, 1, 45}),
		testRecipe("Chicken Soup", []string{"chicken stock", "carrot", "celery"}, model.NutrientVector{150, 4, 1, 30, 900, 15, 2, 3, 12}),
		testRecipe("Fried Chicken", []string{"chicken thighs", "flour", "oil"}, model.NutrientVector{600, 35, 8, 120, 700, 30, 1, 1, 40}),
		testRecipe("Chicken Stir Fry", []string{"chicken", "soy sauce", "broccoli"}, model.NutrientVector{350, 12, 2, 70, 1000, 25, 4, 6, 32}),
		testRecipe("Honey Cake", []string{"honey", "flour", "sugar"}, model.NutrientVector{400, 15, 5, 50, 200, 60, 1, 40, 5}),
		testRecipe("Garden Salad", []string{"lettuce", "tomato", "cucumber"}, model.NutrientVector{80, 1, 0, 0, 50, 12, 4, 6, 2}),
		testRecipe("Beef Stew", []string{"beef", "potato", "carrot"}, model.NutrientVector{450, 20, 8, 90, 600, 30, 5, 5, 35}),
		testRecipe("Fruit Bowl", []string{"banana", "apple", "sugar"}, model.NutrientVector{200, 1, 0, 0, 5, 50, 6, 35, 2}),
	}
}

func testStore() *dataset.Store {
	return dataset.NewStore(testRecipes())
}
