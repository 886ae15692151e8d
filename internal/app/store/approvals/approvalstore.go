package approvalstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no request matches.
	ErrNotFound = errors.New("approval request not found")
	// ErrNotPending is returned by Decide when the request exists but has
	// already been decided.
	ErrNotPending = errors.New("approval request is not pending")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("approval_requests")}
}

// EnsureIndexes creates the dashboard and per-user indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_requests_status_created"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_requests_user"),
		},
	})
	return err
}

// Create inserts a pending request.
func (s *Store) Create(ctx context.Context, r models.ApprovalRequest) (models.ApprovalRequest, error) {
	r.ID = primitive.NewObjectID()
	if r.Status == "" {
		r.Status = models.RequestPending
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.ApprovalRequest{}, err
	}
	return r, nil
}

// GetByID loads a request.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ApprovalRequest, error) {
	var r models.ApprovalRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Decide moves a pending request to status. The status filter makes the
// transition happen at most once even with concurrent deciders.
func (s *Store) Decide(ctx context.Context, id primitive.ObjectID, status string, decidedBy primitive.ObjectID) (models.ApprovalRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"status":     status,
		"decided_by": decidedBy,
		"updated_at": time.Now().UTC(),
	}}

	var r models.ApprovalRequest
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": models.RequestPending}, update, opts).Decode(&r)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.ApprovalRequest{}, err
	}
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return models.ApprovalRequest{}, getErr
	}
	return models.ApprovalRequest{}, ErrNotPending
}

// Reopen returns a request that is still in status from back to pending.
// It is a no-op when the request has moved on or was never decided.
func (s *Store) Reopen(ctx context.Context, id primitive.ObjectID, from string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{
		"$set":   bson.M{"status": models.RequestPending, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"decided_by": ""},
	})
	return err
}

// List returns requests newest first. An empty status lists all.
func (s *Store) List(ctx context.Context, status string) ([]models.ApprovalRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ApprovalRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
