// internal/app/store/mongostore/reports.go
package mongostore

import (
	"context"
	"time"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Reports provides access to the reports collection. It also holds the
// users collection because deleting a report must prune grants.
type Reports struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func (s *Reports) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var r models.Report
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// List returns every report in publish order.
func (s *Reports) List(ctx context.Context) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reports []models.Report
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Reports) Create(ctx context.Context, r models.Report) (models.Report, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

func (s *Reports) SetVisibility(ctx context.Context, id string, visible bool) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_visible": visible, "updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes the report and prunes its id from every user's grant set.
// Grants are pruned first so a concurrent reader never resolves a grant to
// a report that no longer exists; between the two writes the worst case is
// a still-present report that nobody is granted, which resolves to nothing.
func (s *Reports) Delete(ctx context.Context, id string) error {
	if _, err := s.users.UpdateMany(ctx, bson.M{}, bson.M{
		"$pull": bson.M{"visible_report_ids": id},
	}); err != nil {
		return err
	}
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
