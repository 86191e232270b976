// Package classify decides which captured exchanges are noise: tracking and
// analytics beacons, image assets, and font assets. The lists are best-effort
// heuristics; traffic that slips through is cheaper than useful traffic
// dropped, so every predicate errs toward keeping an exchange.
package classify

import (
	"regexp"
	"strings"
)

// trackingFragments are host/path substrings of known tracking, analytics,
// and ad networks. Containment is checked on the lowercased URL, not on a
// parsed host, mirroring how ad blockers match filter fragments.
var trackingFragments = []string{
	"google-analytics.com",
	"googletagmanager.com",
	"googlesyndication.com",
	"googleadservices.com",
	"doubleclick.net",
	"adservice.google",
	"facebook.com/tr",
	"connect.facebook.net",
	"hotjar.com",
	"mixpanel.com",
	"segment.io",
	"segment.com",
	"amplitude.com",
	"clarity.ms",
	"scorecardresearch.com",
	"quantserve.com",
	"newrelic.com",
	"nr-data.net",
	"sentry.io",
	"fonts.googleapis.com",
	"fonts.gstatic.com",
}

// imageExtPattern matches URLs ending in a raster/vector image extension,
// optionally followed by a query string.
var imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg|ico|bmp|tiff)(\?.*)?$`)

// imagePathPattern matches URLs with a conventional image directory segment.
var imagePathPattern = regexp.MustCompile(`(?i)/(imgs|images|img)/`)

// fontExtPattern matches URLs ending in a web font extension.
var fontExtPattern = regexp.MustCompile(`(?i)\.(woff2?|ttf|otf|eot)(\?.*)?$`)

// IsTrackingDomain reports whether the URL contains a known tracking or
// analytics fragment.
func IsTrackingDomain(url string) bool {
	lower := strings.ToLower(url)
	for _, frag := range trackingFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// IsImage reports whether the exchange looks like an image asset, by URL
// extension, URL path, or the browser's declared resource type. An empty
// resource type means unknown and only the URL heuristics apply.
func IsImage(url, resourceType string) bool {
	if resourceType == "image" {
		return true
	}
	return imageExtPattern.MatchString(url) || imagePathPattern.MatchString(url)
}

// IsFont reports whether the exchange looks like a font asset.
func IsFont(url, resourceType string) bool {
	if resourceType == "font" {
		return true
	}
	return fontExtPattern.MatchString(url)
}

// ShouldFilter reports whether an exchange is noise and should be excluded
// by default: tracking/analytics traffic, images, and fonts. resourceType is
// best-effort; pass "" when the browser did not expose one.
func ShouldFilter(url, resourceType string) bool {
	if IsTrackingDomain(url) {
		return true
	}
	if resourceType == "image" || resourceType == "font" {
		return true
	}
	return imageExtPattern.MatchString(url) || imagePathPattern.MatchString(url)
}
