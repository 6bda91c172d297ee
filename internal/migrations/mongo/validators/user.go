package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"password",
			"user_type",
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

			"email": bson.M{
				"bsonType": "string",
				"pattern":  "^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$",
			},

			"password": bson.M{
				"bsonType": "string",
			},

			"user_type": bson.M{
				"enum": []string{"customer", "owner", "admin"},
			},

			"is_verified": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
