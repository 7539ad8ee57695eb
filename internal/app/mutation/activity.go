package mutation

import "famiverse/internal/domain/familiar"

// activityShortlists maps a user's dominant public-posting-activity category
// to the mutation categories it favors. Unknown activity categories fall
// back to uniform selection.
var activityShortlists = map[string][]familiar.Category{
	"art":    {familiar.CategoryColor, familiar.CategoryPattern, familiar.CategoryAppendage},
	"music":  {familiar.CategoryAppendage, familiar.CategoryColor, familiar.CategoryPattern},
	"tech":   {familiar.CategoryLegs, familiar.CategorySize, familiar.CategoryAppendage},
	"nature": {familiar.CategoryPattern, familiar.CategoryLegs, familiar.CategoryColor},
	"sports": {familiar.CategoryLegs, familiar.CategorySize, familiar.CategoryAppendage},
	"food":   {familiar.CategorySize, familiar.CategoryColor, familiar.CategoryPattern},
}
