// internal/app/store/mongostore/users.go
package mongostore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/normalize"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Users provides access to the users collection.
type Users struct {
	c *mongo.Collection
}

func (s *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	filter := bson.M{"username_ci": normalize.UsernameCI(username)}
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns every user in registration order.
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user after normalizing the username. The unique
// index on username_ci turns races into ErrDuplicateUsername.
func (s *Users) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Username = normalize.Username(u.Username)
	u.UsernameCI = normalize.UsernameCI(u.Username)
	if u.VisibleReportIDs == nil {
		u.VisibleReportIDs = []string{}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, store.ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Users) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetGrant adds or removes reportID in the user's grant set. $addToSet and
// $pull give the set semantics: granting twice leaves one entry, revoking
// an absent grant changes nothing.
func (s *Users) SetGrant(ctx context.Context, id, reportID string, grant bool) error {
	op := "$pull"
	if grant {
		op = "$addToSet"
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		op:     bson.M{"visible_report_ids": reportID},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
