package config

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoString string = os.Getenv("MONGO_URI")

var DBName string = "lanechecker"

// MongoConnect opens a client against MONGO_URI. Report persistence is
// optional: callers skip it entirely when MongoString is empty.
func MongoConnect(dbname string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(MongoString))
	if err != nil {
		return nil, err
	}
	return client.Database(dbname), nil
}
