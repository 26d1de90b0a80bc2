// Package business holds the static registry of the businesses managed by
// the application. Rows in the store are partitioned by these identifiers.
package business

import "sort"

// DefaultID is the business assigned to rows that predate partitioning.
const DefaultID = "island_harvest"

// Profile describes one managed business.
type Profile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	BusinessType string   `json:"business_type"`
	Modules      []string `json:"modules"`
	Active       bool     `json:"active"`
}

var profiles = map[string]Profile{
	"island_harvest": {
		ID:           "island_harvest",
		Name:         "Island Harvest Hub",
		Tagline:      "Farm-to-Table Distribution • Port Antonio, Jamaica",
		Description:  "Connecting local farmers with hotels and restaurants",
		Location:     "Port Antonio, Jamaica",
		BusinessType: "distribution",
		Modules:      []string{"customers", "suppliers", "orders", "financials", "operations", "communications"},
		Active:       true,
	},
	"bornfidis_provisions": {
		ID:           "bornfidis_provisions",
		Name:         "Bornfidis Provisions",
		Tagline:      "Agriculture & Food Logistics • Jamaica",
		Description:  "Agricultural operations and food logistics solutions",
		Location:     "Jamaica",
		BusinessType: "agriculture",
		Modules:      []string{"suppliers", "inventory", "logistics", "financials", "operations"},
		Active:       true,
	},
	"private_chef": {
		ID:           "private_chef",
		Name:         "Private Chef Services",
		Tagline:      "Culinary Excellence • Okemo Valley, Vermont",
		Description:  "Professional private chef services and catering",
		Location:     "Okemo Valley, Vermont",
		BusinessType: "service",
		Modules:      []string{"clients", "bookings", "menus", "financials", "communications"},
		Active:       true,
	},
	"bornfidis_sportswear": {
		ID:           "bornfidis_sportswear",
		Name:         "Bornfidis Sportswear",
		Tagline:      "Sustainable Activewear • Jamaica & Vermont",
		Description:  "Adapt, Explore, Empower - Sustainable athletic wear",
		Location:     "Jamaica & Vermont",
		BusinessType: "retail",
		Modules:      []string{"inventory", "orders", "customers", "financials", "ecommerce"},
		Active:       true,
	},
}

// Get returns the profile for a business id.
func Get(id string) (Profile, bool) {
	p, ok := profiles[id]
	return p, ok
}

// IsKnown reports whether a business id is registered.
func IsKnown(id string) bool {
	_, ok := profiles[id]
	return ok
}

// Active returns all active profiles ordered by id.
func Active() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
