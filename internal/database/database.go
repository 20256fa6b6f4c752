package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
)

const defaultDatabase = "lingua"

// Mongo bundles the connected client with the database the app uses.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB and pings it. dbName wins over the database in the
// URI; with neither, "lingua" is used.
func Connect(mongoURI, dbName string, logger *zap.Logger) (*Mongo, error) {
	// Atlas clusters can take a while on cold start
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(mongoURI).
		SetServerSelectionTimeout(10 * time.Second)

	logger.Info("connecting to MongoDB")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	name := databaseName(mongoURI, dbName)
	logger.Info("connected to MongoDB", zap.String("database", name))

	return &Mongo{Client: client, DB: client.Database(name)}, nil
}

func (m *Mongo) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func databaseName(mongoURI, override string) string {
	if override != "" {
		return override
	}
	cs, err := connstring.Parse(mongoURI)
	if err != nil || cs.Database == "" {
		return defaultDatabase
	}
	return cs.Database
}
