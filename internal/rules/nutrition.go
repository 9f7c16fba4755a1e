package rules

import (
	"github.com/sleepcoach/backend/internal/classify"
)

const (
	// SolidsStartMonths: solid-food criteria do not apply before this age.
	SolidsStartMonths = 6

	// MilkOunceCeilingMonths and MaxMilkOunces: from 12 months, milk
	// beyond 16 oz a day displaces solids and is flagged.
	MilkOunceCeilingMonths = 12
	MaxMilkOunces          = 16.0

	// MaxFeedingGapHours is the largest acceptable gap between two
	// feedings during the day.
	MaxFeedingGapHours = 5.0
)

// NutritionRule is one age band of the feeding-requirements table.
// RequiredGroups must all be covered by the day's feedings; OneOfGroups
// requires at least one of its members on top of that.
type NutritionRule struct {
	MinMonths        int
	MaxMonths        int
	MinMilkFeedings  int
	MinSolidFeedings int
	RequiredGroups   []classify.NutritionGroup
	OneOfGroups      []classify.NutritionGroup
}

var nutritionRules = []NutritionRule{
	{
		MinMonths: 0, MaxMonths: 2,
		MinMilkFeedings: 8, MinSolidFeedings: 0,
		RequiredGroups: []classify.NutritionGroup{classify.GroupProtein, classify.GroupFiber},
		OneOfGroups:    []classify.NutritionGroup{classify.GroupFat, classify.GroupCarbohydrate},
	},
	{
		MinMonths: 3, MaxMonths: 5,
		MinMilkFeedings: 6, MinSolidFeedings: 0,
		RequiredGroups: []classify.NutritionGroup{classify.GroupProtein, classify.GroupFiber},
		OneOfGroups:    []classify.NutritionGroup{classify.GroupFat, classify.GroupCarbohydrate},
	},
	{
		MinMonths: 6, MaxMonths: 8,
		MinMilkFeedings: 4, MinSolidFeedings: 2,
		RequiredGroups: []classify.NutritionGroup{classify.GroupProtein, classify.GroupFiber},
		OneOfGroups:    []classify.NutritionGroup{classify.GroupFat, classify.GroupCarbohydrate},
	},
	{
		MinMonths: 9, MaxMonths: 11,
		MinMilkFeedings: 4, MinSolidFeedings: 3,
		RequiredGroups: classify.AllGroups(),
	},
	{
		MinMonths: 12, MaxMonths: 23,
		MinMilkFeedings: 3, MinSolidFeedings: 3,
		RequiredGroups: classify.AllGroups(),
	},
	{
		MinMonths: 24, MaxMonths: 216,
		MinMilkFeedings: 2, MinSolidFeedings: 3,
		RequiredGroups: classify.AllGroups(),
	},
}

// NutritionRuleForAge always returns a row: ages above the table fall
// back to the oldest band, negative ages clamp to the youngest.
// Nutrition guidance must always have a floor.
func NutritionRuleForAge(months int) *NutritionRule {
	if months < 0 {
		return &nutritionRules[0]
	}
	for i := range nutritionRules {
		if months >= nutritionRules[i].MinMonths && months <= nutritionRules[i].MaxMonths {
			return &nutritionRules[i]
		}
	}
	return &nutritionRules[len(nutritionRules)-1]
}

func NutritionRules() []NutritionRule {
	out := make([]NutritionRule, len(nutritionRules))
	copy(out, nutritionRules)
	return out
}
