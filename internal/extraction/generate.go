// Package extraction drives a simulated extraction job against the API:
// it generates sample leads for the requested filters and records progress
// on an extraction record while posting them.
package extraction

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/leadgen/lead-extractor-service/internal/models"
)

// MaxGenerated caps the number of leads a single simulated run produces
const MaxGenerated = 50

const defaultIndustry = "technology"

var firstNames = []string{
	"John", "Sarah", "Michael", "Emma", "David", "Lisa", "James", "Rachel", "Robert", "Jennifer",
	"William", "Jessica", "Christopher", "Ashley", "Matthew", "Amanda", "Anthony", "Stephanie", "Mark", "Nicole",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var jobTitles = map[string][]string{
	"technology":    {"Software Engineer", "Product Manager", "Data Scientist", "DevOps Engineer", "UX Designer"},
	"finance":       {"Financial Analyst", "Investment Banker", "Portfolio Manager", "Risk Analyst", "Credit Officer"},
	"healthcare":    {"Physician", "Nurse Practitioner", "Healthcare Administrator", "Medical Research Scientist", "Pharmacist"},
	"marketing":     {"Marketing Manager", "Digital Marketing Specialist", "Content Strategist", "Brand Manager", "Growth Manager"},
	"sales":         {"Sales Manager", "Account Executive", "Business Development Manager", "Sales Director", "Channel Manager"},
	"consulting":    {"Management Consultant", "Strategy Consultant", "Business Analyst", "Process Improvement Specialist", "Change Manager"},
	"education":     {"Professor", "Academic Administrator", "Educational Consultant", "Curriculum Developer", "Research Director"},
	"manufacturing": {"Operations Manager", "Quality Engineer", "Supply Chain Manager", "Production Supervisor", "Plant Manager"},
}

var companies = map[string][]string{
	"technology":    {"TechCorp", "DataSys Solutions", "InnovateX", "CloudTech", "DigitalForce", "NextGen Software", "FutureTech", "CyberSolutions"},
	"finance":       {"FinanceFirst", "Capital Advisors", "Investment Partners", "Wealth Management Co", "Global Finance Group", "Strategic Capital"},
	"healthcare":    {"MedTech Solutions", "Healthcare Partners", "Medical Innovations", "Health Systems Inc", "Care Connect", "Wellness Corp"},
	"marketing":     {"Creative Agency", "Brand Builders", "Digital Marketing Pro", "Growth Solutions", "Marketing Masters", "Campaign Central"},
	"sales":         {"Sales Excellence", "Revenue Growth Co", "Business Solutions", "Client Success Partners", "Sales Acceleration", "Deal Makers"},
	"consulting":    {"Strategy Consultants", "Business Advisors", "Management Solutions", "Process Experts", "Transformation Partners"},
	"education":     {"Education Excellence", "Learning Solutions", "Academic Partners", "Knowledge Systems", "Education Innovations"},
	"manufacturing": {"Manufacturing Corp", "Industrial Solutions", "Production Systems", "Quality Manufacturing", "Operations Excellence"},
}

var locations = []string{
	"New York, NY", "Los Angeles, CA", "Chicago, IL", "Houston, TX", "Phoenix, AZ",
	"Philadelphia, PA", "San Antonio, TX", "San Diego, CA", "Dallas, TX", "San Jose, CA",
	"Austin, TX", "Jacksonville, FL", "Fort Worth, TX", "Columbus, OH", "Charlotte, NC",
	"San Francisco, CA", "Indianapolis, IN", "Seattle, WA", "Denver, CO", "Boston, MA",
}

var whitespace = regexp.MustCompile(`\s+`)

// Industries lists the industries with dedicated title and company tables
func Industries() []string {
	out := make([]string, 0, len(jobTitles))
	for k := range jobTitles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type profile struct {
	Score      int    `json:"score"`
	Department string `json:"department"`
	Seniority  string `json:"seniority"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// Generate returns count sample leads for the filters. A non-empty job title
// or location is used verbatim; an unknown industry falls back to technology.
func Generate(rng *rand.Rand, filters models.SearchFilters, count int) []models.LeadDraft {
	industry := filters.Industry
	if industry == "" {
		industry = defaultIndustry
	}
	titles, ok := jobTitles[industry]
	if !ok {
		titles = jobTitles[defaultIndustry]
	}
	orgs, ok := companies[industry]
	if !ok {
		orgs = companies[defaultIndustry]
	}

	drafts := make([]models.LeadDraft, 0, count)
	for i := 0; i < count; i++ {
		first := pick(rng, firstNames)
		last := pick(rng, lastNames)
		company := pick(rng, orgs)

		title := filters.JobTitle
		if title == "" {
			title = pick(rng, titles)
		}
		location := filters.Location
		if location == "" {
			location = pick(rng, locations)
		}

		name := first + " " + last
		url := fmt.Sprintf("https://linkedin.com/in/%s%s", strings.ToLower(first), strings.ToLower(last))

		data, _ := json.Marshal(profile{
			Score:      rng.Intn(40) + 60,
			Department: industry,
			Seniority:  seniority(rng),
			Email: fmt.Sprintf("%s.%s@%s.com",
				strings.ToLower(first), strings.ToLower(last),
				whitespace.ReplaceAllString(strings.ToLower(company), "")),
			Phone: fmt.Sprintf("+1 (555) %d-%d", rng.Intn(900)+100, rng.Intn(9000)+1000),
		})

		drafts = append(drafts, models.LeadDraft{
			Name:        &name,
			JobTitle:    &title,
			Company:     &company,
			Location:    &location,
			LinkedinURL: &url,
			ApolloData:  data,
		})
	}

	return drafts
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func seniority(rng *rand.Rand) string {
	switch {
	case rng.Float64() > 0.7:
		return "Senior"
	case rng.Float64() > 0.4:
		return "Manager"
	default:
		return "Individual Contributor"
	}
}
