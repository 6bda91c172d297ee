package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"studio",
			"date",
			"slots",
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

			"date": bson.M{
				"bsonType": "date",
			},

			"slots": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"hour", "is_available"},
					"properties": bson.M{
						"hour": bson.M{
							"bsonType": "int",
							"minimum":  0,
							"maximum":  23,
						},
						"is_available": bson.M{
							"bsonType": "bool",
						},
					},
				},
			},
		},
	},
}
