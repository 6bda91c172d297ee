package validators

import "go.mongodb.org/mongo-driver/bson"

var ReviewValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"studio",
			"reviewer",
			"rating",
			"description",
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

			"reviewer": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"rating": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  5,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 2000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
