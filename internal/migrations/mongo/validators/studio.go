package validators

import "go.mongodb.org/mongo-driver/bson"

var StudioValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"owner",
			"approved",
			"price_per_hour",
			"minimum_duration_hours",
			"packages",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"owner": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"approved": bson.M{
				"bsonType": "bool",
			},

			"price_per_hour": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"minimum_duration_hours": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  8,
			},

			"packages": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"key", "price"},
					"properties": bson.M{
						"key": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 100,
						},
						"price": bson.M{
							"bsonType": []string{"double", "int", "long", "decimal"},
							"minimum":  0,
						},
					},
				},
			},

			"addons": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"key", "name", "price", "max_quantity"},
					"properties": bson.M{
						"key": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 100,
						},
						"max_quantity": bson.M{
							"bsonType": "int",
							"minimum":  1,
							"maximum":  50,
						},
					},
				},
			},

			"youtube_links": bson.M{
				"bsonType": "array",
				"maxItems": 2,
			},

			"rating_summary": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"average": bson.M{
						"bsonType": []string{"double", "int", "long"},
						"minimum":  0,
						"maximum":  5,
					},
					"count": bson.M{
						"bsonType": []string{"int", "long"},
						"minimum":  0,
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
