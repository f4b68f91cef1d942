// Package mongostore implements the store contract on MongoDB. It is the
// backend for multi-client deployments where several browser sessions and
// portal instances share one database.
package mongostore

import (
	"context"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the MongoDB-backed store.Store.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	users   *Users
	reports *Reports
	theme   *Theme
}

// Connect opens a client for uri and binds the store to database dbName.
func Connect(ctx context.Context, uri, dbName string, maxPool, minPool uint64) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPool).
		SetMinPoolSize(minPool)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return New(client, client.Database(dbName)), nil
}

// New wraps an existing client/database. Used by tests that manage their
// own connection.
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:  client,
		db:      db,
		users:   &Users{c: db.Collection("users")},
		reports: &Reports{c: db.Collection("reports"), users: db.Collection("users")},
		theme:   &Theme{c: db.Collection("theme")},
	}
}

func (s *Store) Users() store.UserStore     { return s.users }
func (s *Store) Reports() store.ReportStore { return s.reports }
func (s *Store) Theme() store.ThemeStore    { return s.theme }

// EnsureSchema creates the unique index backing case-insensitive username
// uniqueness. Safe to run on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the bound database. Used by tests to discard throwaway
// databases.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
