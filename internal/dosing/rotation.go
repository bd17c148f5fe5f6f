package dosing

import "github.com/semaglide/backend/pkg/model"

// rotationSites is the site universe used for rotation advice. The
// arm, thigh and abdomen pairs rotate well; buttock sites are accepted
// on dose logs but not actively recommended.
var rotationSites = []model.InjectionSite{
	model.SiteLeftThigh,
	model.SiteRightThigh,
	model.SiteLeftAbdomen,
	model.SiteRightAbdomen,
	model.SiteLeftArm,
	model.SiteRightArm,
}

// recentSiteWindow is how many of the most recent injections are
// excluded from rotation recommendations.
const recentSiteWindow = 3

// RecommendSites returns injection sites not used in the most recent
// injections. recentFirst must be ordered newest first. If every
// rotation site was used recently, the full universe is returned so
// the caller always has something to offer.
func RecommendSites(recentFirst []model.InjectionSite) []model.InjectionSite {
	recent := recentFirst
	if len(recent) > recentSiteWindow {
		recent = recent[:recentSiteWindow]
	}

	used := make(map[model.InjectionSite]bool, len(recent))
	for _, site := range recent {
		used[site] = true
	}

	available := make([]model.InjectionSite, 0, len(rotationSites))
	for _, site := range rotationSites {
		if !used[site] {
			available = append(available, site)
		}
	}
	if len(available) == 0 {
		return append([]model.InjectionSite(nil), rotationSites...)
	}
	return available
}
