package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"studio",
			"customer",
			"date",
			"hours",
			"package_key",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"studio": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"customer": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"hours": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 24,
				"items": bson.M{
					"bsonType": "int",
					"minimum":  0,
					"maximum":  23,
				},
			},

			"package_key": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"addons": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"key", "quantity"},
					"properties": bson.M{
						"quantity": bson.M{
							"bsonType": "int",
							"minimum":  1,
						},
					},
				},
			},

			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"payment_status": bson.M{
				"enum": []string{"pending", "paid", "refunded"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
