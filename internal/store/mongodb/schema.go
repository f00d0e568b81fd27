package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
)

// namespaceExists is the server error code for CreateCollection on an existing collection.
const namespaceExists = 48

func nonNegativeInt() bson.D {
	return bson.D{{Key: "bsonType", Value: bson.A{"int", "long"}}, {Key: "minimum", Value: 0}}
}

func nonNegativeNumber() bson.D {
	return bson.D{{Key: "bsonType", Value: bson.A{"int", "long", "double", "decimal"}}, {Key: "minimum", Value: 0}}
}

func stringArray(minItems int) bson.D {
	d := bson.D{
		{Key: "bsonType", Value: "array"},
		{Key: "items", Value: bson.D{{Key: "bsonType", Value: "string"}, {Key: "minLength", Value: 1}}},
	}
	if minItems > 0 {
		d = append(d, bson.E{Key: "minItems", Value: minItems})
	}
	return d
}

// Validator is the $jsonSchema the recipe collection enforces.
func Validator() bson.D {
	nutrition := bson.D{}
	for _, k := range []string{"calories", "fat", "saturated_fat", "carbohydrates", "sugar", "fiber", "protein", "cholesterol", "sodium"} {
		nutrition = append(nutrition, bson.E{Key: k, Value: nonNegativeNumber()})
	}
	return bson.D{{Key: "$jsonSchema", Value: bson.D{
		{Key: "bsonType", Value: "object"},
		{Key: "required", Value: bson.A{"schemaVersion", "title", "ingredients", "instructions", "creationTime", "updateTime"}},
		{Key: "properties", Value: bson.D{
			{Key: "schemaVersion", Value: bson.D{{Key: "enum", Value: bson.A{model.SchemaVersion}}}},
			{Key: "title", Value: bson.D{{Key: "bsonType", Value: "string"}, {Key: "minLength", Value: 1}, {Key: "maxLength", Value: 200}}},
			{Key: "description", Value: bson.D{{Key: "bsonType", Value: "string"}, {Key: "maxLength", Value: 2000}}},
			{Key: "ingredients", Value: stringArray(1)},
			{Key: "instructions", Value: stringArray(0)},
			{Key: "difficulty", Value: bson.D{{Key: "enum", Value: bson.A{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard}}}},
			{Key: "time", Value: bson.D{
				{Key: "bsonType", Value: "object"},
				{Key: "properties", Value: bson.D{
					{Key: "prep", Value: nonNegativeInt()},
					{Key: "cook", Value: nonNegativeInt()},
					{Key: "total", Value: nonNegativeInt()},
				}},
			}},
			{Key: "servings", Value: nonNegativeInt()},
			{Key: "nutritional_values", Value: bson.D{
				{Key: "bsonType", Value: "object"},
				{Key: "properties", Value: nutrition},
			}},
			{Key: "utensils", Value: stringArray(0)},
			{Key: "tags", Value: stringArray(0)},
			{Key: "url", Value: bson.D{{Key: "bsonType", Value: "string"}}},
			{Key: "ownerId", Value: bson.D{{Key: "bsonType", Value: "string"}}},
			{Key: "creationTime", Value: bson.D{{Key: "bsonType", Value: "date"}}},
			{Key: "updateTime", Value: bson.D{{Key: "bsonType", Value: "date"}}},
		}},
	}}}
}

// Indexes backs the listing filters and the fixed sort.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}, Options: options.Index().SetName("title_id")},
		{Keys: bson.D{{Key: "difficulty", Value: 1}, {Key: "title", Value: 1}}, Options: options.Index().SetName("difficulty_title")},
		{Keys: bson.D{{Key: "ingredients", Value: 1}}, Options: options.Index().SetName("ingredients")},
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags")},
	}
}

// EnsureSchema creates the collection with its validator, or updates the
// validator of an existing one, then creates the indexes.
func EnsureSchema(ctx context.Context, db *mongo.Database, collection string) error {
	validator := Validator()
	err := db.CreateCollection(ctx, collection, options.CreateCollection().
		SetValidator(validator).
		SetValidationLevel("strict").
		SetValidationAction("error"))
	if err != nil {
		var cmdErr mongo.CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != namespaceExists {
			return errors.Wrap(err, "create collection")
		}
		cmd := bson.D{{Key: "collMod", Value: collection}, {Key: "validator", Value: validator}}
		if err := db.RunCommand(ctx, cmd).Err(); err != nil {
			return errors.Wrap(err, "update validator")
		}
	}
	if _, err := db.Collection(collection).Indexes().CreateMany(ctx, Indexes()); err != nil {
		return errors.Wrap(err, "create indexes")
	}
	return nil
}
