package app

// categoryKeywords drives the broad sweep when no business type is given.
// Each keyword becomes one text query of the form "<keyword> in <city>".
var categoryKeywords = []string{
	"restaurant", "cafe", "bar", "store", "shop", "retail", "salon",
	"bakery", "grocery", "food", "service", "repair", "contractor",
	"doctor", "dentist", "health", "fitness", "gym", "yoga", "spa",
	"beauty", "hair", "nail", "barber", "massage", "therapy",
	"auto", "car", "mechanic", "dealer", "parts", "tire", "detail",
	"real estate", "property", "apartment", "home", "house", "rental",
	"insurance", "financial", "bank", "accounting", "tax", "legal",
	"attorney", "lawyer", "education", "school", "tutor", "daycare",
	"child care", "pet", "veterinary", "animal", "landscaping", "lawn",
	"cleaning", "maid", "janitorial", "plumber", "electrician", "hvac",
	"construction", "roofing", "painting", "flooring", "furniture",
	"clothing", "apparel", "jewelry", "accessory", "shoe", "tailor",
	"electronics", "computer", "phone", "photography", "art",
	"craft", "hobby", "toy", "game", "book", "music", "instrument",
	"church", "religious", "nonprofit", "charity", "community",
	"event", "venue", "catering", "party", "wedding", "funeral",
	"moving", "storage", "shipping", "delivery", "transportation",
}

// nearbyPlaceTypes is the set of type codes the nearby-search endpoint
// accepts. Keywords outside this set get a text search only.
var nearbyPlaceTypes = map[string]struct{}{
	"accounting": {}, "airport": {}, "amusement_park": {}, "aquarium": {}, "art_gallery": {},
	"atm": {}, "bakery": {}, "bank": {}, "bar": {}, "beauty_salon": {}, "bicycle_store": {},
	"book_store": {}, "bowling_alley": {}, "bus_station": {}, "cafe": {}, "campground": {},
	"car_dealer": {}, "car_rental": {}, "car_repair": {}, "car_wash": {}, "casino": {},
	"cemetery": {}, "church": {}, "city_hall": {}, "clothing_store": {}, "convenience_store": {},
	"courthouse": {}, "dentist": {}, "department_store": {}, "doctor": {}, "drugstore": {},
	"electrician": {}, "electronics_store": {}, "embassy": {}, "fire_station": {}, "florist": {},
	"funeral_home": {}, "furniture_store": {}, "gas_station": {}, "gym": {}, "hair_care": {},
	"hardware_store": {}, "hindu_temple": {}, "home_goods_store": {}, "hospital": {}, "insurance_agency": {},
	"jewelry_store": {}, "laundry": {}, "lawyer": {}, "library": {}, "light_rail_station": {},
	"liquor_store": {}, "local_government_office": {}, "locksmith": {}, "lodging": {}, "meal_delivery": {},
	"meal_takeaway": {}, "mosque": {}, "movie_rental": {}, "movie_theater": {}, "moving_company": {},
	"museum": {}, "night_club": {}, "painter": {}, "park": {}, "parking": {}, "pet_store": {}, "pharmacy": {},
	"physiotherapist": {}, "plumber": {}, "police": {}, "post_office": {}, "primary_school": {},
	"real_estate_agency": {}, "restaurant": {}, "roofing_contractor": {}, "rv_park": {}, "school": {},
	"secondary_school": {}, "shoe_store": {}, "shopping_mall": {}, "spa": {}, "stadium": {}, "storage": {},
	"store": {}, "subway_station": {}, "supermarket": {}, "synagogue": {}, "taxi_stand": {}, "tourist_attraction": {},
	"train_station": {}, "transit_station": {}, "travel_agency": {}, "university": {}, "veterinary_care": {},
	"zoo": {},
}
