package opt

import "tripagent/internal/model"

// Category sets for the indoor/outdoor balancer. The two sets are disjoint;
// categories outside both are neither.
var (
	outdoorCategories = map[string]bool{
		"outdoor": true,
		"beach":   true,
		"park":    true,
		"garden":  true,
	}
	indoorCategories = map[string]bool{
		"indoor":   true,
		"museum":   true,
		"shopping": true,
		"temple":   true,
	}
)

func IsOutdoor(s model.Spot) bool { return outdoorCategories[s.Category] }

func IsIndoor(s model.Spot) bool { return indoorCategories[s.Category] }
