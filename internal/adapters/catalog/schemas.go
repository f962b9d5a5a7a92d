package catalog

import "github.com/tripwise/backend/pkg/schema"

var hotelsFileSchema = schema.MustCompile("hotels catalog", `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "pricePerNight"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "city": {"type": "string"},
      "stars": {"type": ["integer", "null"]},
      "rating": {"type": ["number", "null"]},
      "reviewsCount": {"type": ["integer", "null"]},
      "distanceKmFromAirport": {"type": ["number", "null"]},
      "pricePerNight": {"type": "number"},
      "amenities": {"type": ["array", "null"], "items": {"type": "string"}},
      "cancellationPolicy": {"type": "string"},
      "paymentOptions": {"type": ["array", "null"], "items": {"type": "string"}},
      "roomOccupancyMax": {"type": ["integer", "null"]},
      "imageUrl": {"type": ["string", "null"]}
    }
  }
}`)

var restaurantsFileSchema = schema.MustCompile("restaurants catalog", `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "airport", "avg_meal_cost"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "airport": {"type": "string"},
      "terminal": {"type": "integer"},
      "category": {"type": "string"},
      "cuisine": {"type": "string"},
      "food_type": {"type": "string"},
      "distance": {"type": ["array", "null"], "items": {"type": "number"}},
      "hours": {"type": "string"},
      "rating": {"type": ["number", "null"]},
      "prep_time": {"type": ["number", "null"]},
      "avg_meal_cost": {"type": "number"},
      "review_count": {"type": ["integer", "null"]},
      "link": {"type": "string"}
    }
  }
}`)
