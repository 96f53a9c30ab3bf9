package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore keeps every collection in one MongoDB database. Subscriptions
// use change streams, which require a replica set or Atlas cluster.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

func ConnectMongo(ctx context.Context, uri, dbName string, log *zap.Logger) (*MongoStore, error) {
	if uri == "" || dbName == "" {
		return nil, errors.New("mongo uri and database name are required")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info("connected to mongodb", zap.String("database", dbName))

	return &MongoStore{client: client, db: client.Database(dbName), log: log}, nil
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return toDocument(raw), nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, data any) (string, error) {
	m, err := toM(data)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	oid := primitive.NewObjectID()
	m["_id"] = oid

	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, data any, merge bool) error {
	m, err := toM(data)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	coll := s.db.Collection(collection)
	if merge {
		if len(m) == 0 {
			return nil
		}
		_, err = coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": m}, options.Update().SetUpsert(true))
	} else {
		_, err = coll.ReplaceOne(ctx, idFilter(id), m, options.Replace().SetUpsert(true))
	}
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields bson.M) error {
	result, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, q Query) ([]Document, error) {
	filter := bson.D{}
	if q.ID != "" {
		filter = append(filter, bson.E{Key: "_id", Value: idFilter(q.ID)["_id"]})
	}
	for _, f := range q.Where {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}

	cursor, err := s.db.Collection(q.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}

	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

// Subscribe opens the change stream before the first read so no write
// between the initial snapshot and the first event is missed.
func (s *MongoStore) Subscribe(ctx context.Context, q Query) (*Subscription, error) {
	pipeline := mongo.Pipeline{}
	if q.ID != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "documentKey._id", Value: idFilter(q.ID)["_id"]},
		}}})
	}

	ctx, cancel := context.WithCancel(ctx)
	cs, err := s.db.Collection(q.Collection).Watch(ctx, pipeline)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", q.Collection, err)
	}

	return newSubscription(ctx, cancel, func(ctx context.Context, emit emitFunc) error {
		defer cs.Close(context.Background())

		for {
			docs, err := s.Query(ctx, q)
			if err != nil {
				return err
			}
			if !emit(Snapshot{Documents: docs, ReadAt: time.Now()}) {
				return nil
			}

			if !cs.Next(ctx) {
				return cs.Err()
			}
			for cs.TryNext(ctx) {
			}
			if err := cs.Err(); err != nil {
				return err
			}
		}
	}), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
