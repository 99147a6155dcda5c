package ingestion

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/leadgen/lead-extractor-service/internal/models"
)

const (
	linkedinJobSearchURL = "https://www.linkedin.com/jobs/search"
	defaultKeyword       = "Manager"
	defaultRegion        = "United States"

	unknownName    = "Unknown"
	notAvailable   = "N/A"
	placeholderURL = "#"
)

// buildSearchURL turns the caller filters into the LinkedIn job search URL the
// actor task scrapes. The job title wins over the industry as keyword.
func buildSearchURL(filters models.SearchFilters) string {
	keyword := firstNonEmpty(filters.JobTitle, filters.Industry, defaultKeyword)
	location := firstNonEmpty(filters.Location, defaultRegion)

	return linkedinJobSearchURL + "?keywords=" + encodeComponent(keyword) + "&location=" + encodeComponent(location)
}

// componentUnescaper restores the characters QueryEscape encodes but a
// browser's encodeURIComponent leaves alone.
var componentUnescaper = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// encodeComponent percent-encodes s the way a browser encodes a URI
// component, so spaces become %20 rather than +.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(strings.ReplaceAll(url.QueryEscape(s), "+", "%20"))
}

// normalizeItem maps one scraper item onto a lead draft. Missing or
// non-string fields fall back to placeholders; the raw item is kept as
// the lead's attached payload.
func normalizeItem(raw json.RawMessage) models.LeadDraft {
	var item map[string]any
	// Items that are not objects still produce a placeholder lead.
	_ = json.Unmarshal(raw, &item)

	name := firstNonEmpty(stringField(item, "recruiter_name"), stringField(item, "company_name"), unknownName)
	jobTitle := firstNonEmpty(stringField(item, "title"), notAvailable)
	company := firstNonEmpty(stringField(item, "company_name"), notAvailable)
	location := firstNonEmpty(stringField(item, "location"), notAvailable)
	linkedinURL := firstNonEmpty(stringField(item, "job_url"), placeholderURL)

	return models.LeadDraft{
		Name:        &name,
		JobTitle:    &jobTitle,
		Company:     &company,
		Location:    &location,
		LinkedinURL: &linkedinURL,
		ApolloData:  raw,
	}
}

// dedupeByURL collapses drafts sharing a LinkedIn URL. The survivor for a URL
// is its last occurrence, placed where the URL was first seen.
func dedupeByURL(drafts []models.LeadDraft) []models.LeadDraft {
	index := make(map[string]int, len(drafts))
	unique := make([]models.LeadDraft, 0, len(drafts))

	for _, d := range drafts {
		key := ""
		if d.LinkedinURL != nil {
			key = *d.LinkedinURL
		}
		if i, ok := index[key]; ok {
			unique[i] = d
			continue
		}
		index[key] = len(unique)
		unique = append(unique, d)
	}

	return unique
}

func stringField(item map[string]any, key string) string {
	if item == nil {
		return ""
	}
	s, _ := item[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
