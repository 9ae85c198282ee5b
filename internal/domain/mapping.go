package domain

import "strings"

var categoryAliases = []struct {
	category TicketCategory
	words    []string
}{
	{CategoryPlumbing, []string{"plumb", "leak", "pipe", "drain", "toilet", "faucet", "water"}},
	{CategoryElectrical, []string{"electric", "power", "outlet", "socket", "light", "wiring"}},
	{CategoryAppliance, []string{"appliance", "fridge", "refrigerator", "oven", "stove", "washer", "dryer", "dishwasher"}},
	{CategoryHVAC, []string{"hvac", "heating", "heater", "cooling", "air condition", "ventilation"}},
	{CategoryStructural, []string{"structur", "wall", "roof", "ceiling", "floor", "window", "door"}},
	{CategoryPestControl, []string{"pest", "insect", "rodent", "mice", "rats", "bug", "cockroach", "termite"}},
}

// ParseCategory maps free text onto the closed category set.
// Unrecognised text maps to CategoryOther.
func ParseCategory(s string) TicketCategory {
	s = normalizeFreeText(s)
	if s == "" {
		return CategoryOther
	}
	for _, c := range []TicketCategory{CategoryPlumbing, CategoryElectrical, CategoryAppliance, CategoryHVAC, CategoryStructural, CategoryPestControl, CategoryOther} {
		if s == normalizeFreeText(string(c)) {
			return c
		}
	}
	for _, alias := range categoryAliases {
		for _, w := range alias.words {
			if strings.Contains(s, w) {
				return alias.category
			}
		}
	}
	return CategoryOther
}

// ParsePriority maps free text onto the closed priority set.
// Unrecognised text maps to PriorityMedium.
func ParsePriority(s string) TicketPriority {
	switch normalizeFreeText(s) {
	case "low", "minor":
		return PriorityLow
	case "medium", "normal", "moderate":
		return PriorityMedium
	case "high", "important":
		return PriorityHigh
	case "urgent", "emergency", "critical":
		return PriorityUrgent
	}
	return PriorityMedium
}

func normalizeFreeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return s
}
