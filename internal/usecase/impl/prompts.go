package impl

import (
	"fmt"
	"strings"

	"hearth/internal/domain/entity"
)

// SystemPrompt returns the static domain context that keeps the model inside
// the Alder Point universe. Pure function, no side effects.
func SystemPrompt() string {
	return `You are a real-estate data generator for Alder Point, a fictional waterfront
neighborhood on the east shore of the San Francisco Bay. You produce realistic,
varied MLS listing records as strict JSON.

## NEIGHBORHOOD CONTEXT
- Sub-areas: Cannery Row (converted lofts and condos), The Bluffs (older
  single-family craftsman homes), Mariner's Reach (newer townhouses),
  Alder Point Village (mixed walkable core).
- Streets end in Ave, St, Ct, Ln or Way; zip codes are 94607 or 94608.
- Coordinates must fall between latitude 37.8 and 37.9 and longitude
  -122.3 and -122.2.
- Typical price bands: single_family $850k-$2.4m, condo $550k-$1.3m,
  townhouse $700k-$1.7m.
- Amenity vocabulary: hardwood/bamboo/tile/carpet flooring; quartz or granite
  counters; stainless appliances; bay windows; private deck; drought-tolerant
  landscaping; EV charger; solar panels; tankless water heater; in-unit laundry.
- School district is always "Alder Point Unified".
- MLS numbers look like "AP-" followed by seven digits and must be unique
  within one response.

## OUTPUT RULES
1. Return ONLY a JSON object, no prose, no markdown fences.
2. The object has exactly one key "properties" holding an array of records.
3. Every record must follow the schema in the user message exactly: same
   field names, same types, no extra fields.
4. Vary descriptions, agents and features across records; never repeat an
   address or MLS number.`
}

// BuildPrompt renders the per-batch instruction: one spec line per requested
// listing plus the literal JSON skeleton the response must follow.
// Pure function, no side effects.
func BuildPrompt(requests []entity.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d listing record(s) for Alder Point with these specs:\n\n", len(requests))
	for i, req := range requests {
		fmt.Fprintf(&b, "%d. property_type=%s, bedrooms=%d, bathrooms=%.1f, price between %d and %d, sqft between %d and %d, year_built between %d and %d\n",
			i+1, req.PropertyType, req.Bedrooms, req.Bathrooms,
			req.PriceMin, req.PriceMax, req.SqftMin, req.SqftMax,
			req.YearBuiltMin, req.YearBuiltMax)
	}

	b.WriteString(`
Respond with a JSON object shaped exactly like this skeleton (one entry per
spec, in the same order):

{
  "properties": [
    {
      "mls_number": "AP-1234567",
      "address": "123 Harbor View Ave",
      "zip_code": "94607",
      "latitude": 37.845,
      "longitude": -122.255,
      "bedrooms": 3,
      "bathrooms": 2.5,
      "sqft": 1850,
      "lot_size": 3200,
      "year_built": 1948,
      "property_type": "single_family",
      "stories": 2,
      "garage_spaces": 1,
      "price": 1250000,
      "hoa_fee": 0,
      "property_tax": 14500,
      "status": "active",
      "listing_type": "for_sale",
      "detail": {
        "list_date": "2024-03-15",
        "days_on_market": 12,
        "description": "Light-filled craftsman near the marina...",
        "key_features": ["bay windows", "updated kitchen"],
        "agent_name": "Dana Whitfield",
        "agent_phone": "510-555-0142",
        "agent_email": "dana@alderpointrealty.example",
        "brokerage": "Alder Point Realty",
        "open_house_dates": ["2024-03-22", "2024-03-23"],
        "virtual_tour_available": true,
        "original_price": 1295000,
        "price_history": [
          {"date": "2024-02-01", "price": 1295000, "event": "listed"},
          {"date": "2024-03-01", "price": 1250000, "event": "price_reduced"}
        ]
      },
      "features": {
        "flooring": ["hardwood", "tile"],
        "kitchen_features": ["quartz counters", "stainless appliances"],
        "bathroom_features": ["double vanity"],
        "has_fireplace": true,
        "fireplace_count": 1,
        "cooling": "central",
        "heating": "forced air",
        "yard_features": ["private deck"],
        "has_pool": false,
        "has_spa": false,
        "garage_type": "detached",
        "security_features": ["alarm system"],
        "accessibility_features": [],
        "green_features": ["solar panels"],
        "school_district": "Alder Point Unified",
        "walk_score": 82,
        "transit_score": 74,
        "bike_score": 88
      },
      "photos": [
        {"caption": "Front exterior", "room_type": "exterior", "is_primary": true, "sort_order": 0},
        {"caption": "Living room", "room_type": "living_room", "is_primary": false, "sort_order": 1}
      ]
    }
  ]
}
`)

	return b.String()
}
