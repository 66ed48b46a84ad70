package app

import (
	"fmt"
	"strings"

	"lead_finder/internal/domain"
)

// fallbackSeed is one synthetic lead served when live search is unavailable.
// The street is joined with the requested city into a full address.
type fallbackSeed struct {
	name     string
	street   string
	phone    string
	rating   float64
	ratings  int
	category string
	price    int
	lat, lng float64
}

var fallbackSeeds = []fallbackSeed{
	{"Shree Krishna Restaurant", "Shop 12, MG Road", "+91-9876543210", 4.5, 287, "Restaurant", 2, 28.6139, 77.2090},
	{"Sharma Sweets & Namkeen", "17, Bazaar Street", "+91-9654321098", 4.6, 512, "Sweet Shop", 1, 28.6178, 77.2056},
	{"Punjabi Dhaba", "Highway Junction", "+91-9823456712", 4.3, 198, "Restaurant", 1, 28.6201, 77.2145},
	{"South Indian Cafe", "22, Temple Street", "+91-9765432187", 4.4, 345, "Cafe", 1, 28.6256, 77.2123},
	{"Biryani House", "Old City", "+91-9887654321", 4.7, 623, "Restaurant", 2, 28.6189, 77.2078},
	{"Raj Electronics & Mobiles", "45, Gandhi Chowk", "+91-9845678901", 4.2, 156, "Electronics Store", 2, 28.6198, 77.2135},
	{"Patel Textile Showroom", "56-58, Cloth Market", "+91-9876549876", 3.9, 145, "Clothing Store", 2, 28.6245, 77.2112},
	{"Kumar Hardware & Sanitary", "Ground Floor, Market Complex", "+91-9823456789", 4.4, 267, "Hardware Store", 2, 28.6156, 77.2189},
	{"Fashion Plaza", "Central Market", "+91-9712345678", 4.0, 234, "Clothing Store", 2, 28.6223, 77.2167},
	{"Jain Book Depot", "Library Road", "+91-9834567890", 4.5, 187, "Book Store", 1, 28.6278, 77.2189},
	{"Gupta Medical Store", "Near City Hospital, Station Road", "+91-9123456789", 4.7, 423, "Pharmacy", 1, 28.6254, 77.2167},
	{"Lakshmi Beauty Parlour", "1st Floor, Nehru Market", "+91-9876501234", 4.3, 234, "Beauty Salon", 1, 28.6321, 77.2201},
	{"Modern Gym & Fitness Center", "2nd Floor, Mall Road", "+91-9912345678", 4.1, 178, "Gym", 2, 28.6289, 77.2178},
	{"Ayurvedic Clinic", "Green Park", "+91-9898765432", 4.6, 312, "Healthcare", 2, 28.6267, 77.2145},
	{"Yoga & Wellness Center", "Park View", "+91-9767890123", 4.4, 198, "Yoga Studio", 1, 28.6298, 77.2123},
	{"Singh Auto Repair", "Plot 23, Industrial Area", "+91-9988776655", 4.0, 89, "Car Repair", 2, 28.6081, 77.2298},
	{"Verma Cyber Cafe & Printing", "Near Bus Stand, Main Road", "+91-9765432109", 3.8, 92, "Internet Cafe", 1, 28.6312, 77.2234},
	{"Quick Laundry Service", "Behind Market", "+91-9678901234", 4.2, 145, "Laundry", 1, 28.6234, 77.2167},
	{"Professional Tailoring", "Shop 34, Shopping Complex", "+91-9845123456", 4.5, 178, "Tailor", 1, 28.6189, 77.2134},
	{"Mobile Repair Center", "Electronic Market", "+91-9712348765", 4.1, 267, "Repair Shop", 1, 28.6201, 77.2156},
	{"Smart Coaching Classes", "Upper Floor, School Road", "+91-9834567123", 4.3, 289, "Coaching Center", 2, 28.6278, 77.2201},
	{"English Speaking Institute", "2nd Floor, Main Market", "+91-9923456789", 4.0, 156, "Training Center", 2, 28.6245, 77.2178},
	{"Computer Training Academy", "IT Park", "+91-9798765432", 4.4, 312, "Computer Institute", 2, 28.6289, 77.2234},
	{"Mehta Plumbing Services", "Residential Area", "+91-9667788990", 4.2, 123, "Plumber", 1, 28.6167, 77.2212},
	{"Electrician Services", "Near Power House", "+91-9778899001", 4.1, 98, "Electrician", 1, 28.6198, 77.2189},
	{"Home Cleaning Services", "Sector 5", "+91-9889900112", 4.3, 187, "Cleaning Service", 2, 28.6223, 77.2145},
	{"Fresh Fruits & Vegetables", "Vegetable Market", "+91-9756789012", 4.0, 234, "Grocery", 1, 28.6212, 77.2101},
	{"Dairy Products Shop", "Milk Market", "+91-9645678901", 4.5, 345, "Dairy", 1, 28.6234, 77.2123},
	{"Organic Food Store", "Health Plaza", "+91-9534567890", 4.6, 278, "Organic Store", 2, 28.6267, 77.2167},
	{"Gaming Zone", "Mall Complex", "+91-9423456789", 4.2, 456, "Gaming Center", 2, 28.6289, 77.2189},
	{"Photography Studio", "Art Street", "+91-9312345678", 4.4, 267, "Photo Studio", 2, 28.6278, 77.2156},
	{"Pet Clinic & Store", "Green Avenue", "+91-9201234567", 4.5, 189, "Pet Shop", 2, 28.6256, 77.2212},
	{"Pet Grooming Salon", "Pet Care Complex", "+91-9190123456", 4.3, 145, "Pet Grooming", 2, 28.6245, 77.2234},
	{"Bike Service Center", "Auto Market", "+91-9089012345", 4.1, 234, "Bike Repair", 1, 28.6189, 77.2201},
	{"Car Accessories Shop", "Highway Road", "+91-9978901234", 4.0, 178, "Auto Parts", 2, 28.6167, 77.2278},
	{"Insurance Advisor", "Finance Street", "+91-9867890123", 4.3, 167, "Insurance", 2, 28.6298, 77.2145},
	{"Tax Consultant Office", "Business Center", "+91-9756789123", 4.4, 198, "Tax Service", 2, 28.6312, 77.2167},
	{"Travel Agency", "Tourism Hub", "+91-9645678912", 4.2, 234, "Travel Agent", 2, 28.6234, 77.2189},
}

// fallbackLeads builds the deterministic offline lead set for a city. A
// business type override replaces every entry's category. The list is
// capped at max but is never rating- or website-filtered.
func fallbackLeads(city, businessType string, max int) []domain.Lead {
	leads := make([]domain.Lead, 0, len(fallbackSeeds))
	for i, seed := range fallbackSeeds {
		if max > 0 && len(leads) >= max {
			break
		}
		category := seed.category
		if businessType != "" {
			category = businessType
		}
		leads = append(leads, domain.Lead{
			PlaceID:     fmt.Sprintf("mock_%s_%d", strings.ToLower(city), i+1),
			Name:        seed.name,
			Address:     fmt.Sprintf("%s, %s, India", seed.street, city),
			Phone:       seed.phone,
			Rating:      seed.rating,
			RatingCount: seed.ratings,
			Category:    category,
			PriceLevel:  seed.price,
			OpenNow:     true,
			Location:    &domain.Coords{Lat: seed.lat, Lng: seed.lng},
		})
	}
	return leads
}
