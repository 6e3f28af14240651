// CLAUDE:SUMMARY Classifies one raw coverage record into byte metrics and first-party/third-party origin.
package coverage

import (
	"net/url"
	"strings"
)

// DefaultVendorPatterns are the path fragments that mark a same-origin
// resource as a vendor bundle. Substring match on the lowercased URL path.
// A heuristic: "/lib/" catches legitimately named first-party files too, and
// unconventionally named vendor bundles slip through.
var DefaultVendorPatterns = []string{
	"/vendor/",
	"/vendors/",
	"/node_modules/",
	"/lib/",
	"/libs/",
	"vendor.",
	"vendors-",
	"vendors~",
	"chunk.vendors",
}

// Classify derives a coverage Entry from a raw record. Pure function: the
// same record always yields the same entry, and it never fails; origin
// parsing degrades to first-party on any malformed URL.
func Classify(rec Record, pageURL string, vendorPatterns []string) Entry {
	if vendorPatterns == nil {
		vendorPatterns = DefaultVendorPatterns
	}

	total := rec.SourceLength
	if total < 0 {
		total = 0
	}

	var used int64
	for _, r := range rec.Ranges {
		if r.End > r.Start {
			used += r.End - r.Start
		}
	}
	// Well-formed ranges cannot exceed the source length; clamp anyway so the
	// usedBytes+unusedBytes==totalBytes invariant survives bad input.
	if used > total {
		used = total
	}

	e := Entry{
		URL:         rec.URL,
		TotalBytes:  total,
		UsedBytes:   used,
		UnusedBytes: total - used,
		External:    IsThirdParty(rec.URL, pageURL, vendorPatterns),
	}
	if total > 0 {
		e.UsagePercent = float64(used) / float64(total) * 100
	}
	return e
}

// IsThirdParty reports whether rawURL belongs to a different origin than the
// page, or matches a same-origin vendor-bundle naming convention.
//
// data: and blob: URLs are always first-party (inline code has no meaningful
// origin), and any URL that fails to parse is treated as first-party rather
// than failing the whole report.
func IsThirdParty(rawURL, pageURL string, vendorPatterns []string) bool {
	if strings.HasPrefix(rawURL, "data:") || strings.HasPrefix(rawURL, "blob:") {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	p, err := url.Parse(pageURL)
	if err != nil || p.Host == "" {
		return false
	}

	// Origin is scheme+host+port; url.URL.Host carries the port.
	if !strings.EqualFold(u.Scheme, p.Scheme) || !strings.EqualFold(u.Host, p.Host) {
		return true
	}

	path := strings.ToLower(u.Path)
	for _, pat := range vendorPatterns {
		if strings.Contains(path, pat) {
			return true
		}
	}
	return false
}
