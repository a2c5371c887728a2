package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

const collectionUserRoles = "user_roles"

// RoleRepository persists the identity→role mapping. One document per
// identity, enforced by a unique index on identity_id.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionUserRoles)}
}

// Get returns the assignment for identityID, or (nil, nil) when the identity
// is pending (no document).
func (r *RoleRepository) Get(ctx context.Context, identityID string) (*domain.RoleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.RoleAssignment
	err := r.col.FindOne(ctx, bson.M{"identity_id": identityID}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &a, nil
}

// List returns every role assignment.
func (r *RoleRepository) List(ctx context.Context) ([]domain.RoleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var assignments []domain.RoleAssignment
	if err := cur.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("list roles: decode: %w", err)
	}
	return assignments, nil
}

// Upsert inserts or updates the assignment in a single statement, matching
// relational ON CONFLICT DO UPDATE semantics: updated_at is refreshed on
// every write, created_at only set on insert. Last write wins.
func (r *RoleRepository) Upsert(ctx context.Context, identityID string, role domain.Role) (*domain.RoleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"role": role, "updated_at": now},
		"$setOnInsert": bson.M{"identity_id": identityID, "created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var a domain.RoleAssignment
	err := r.col.FindOneAndUpdate(ctx, bson.M{"identity_id": identityID}, update, opts).Decode(&a)
	if err != nil {
		return nil, fmt.Errorf("upsert role: %w", err)
	}
	return &a, nil
}

// Delete removes the assignment, reporting whether a document existed.
func (r *RoleRepository) Delete(ctx context.Context, identityID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"identity_id": identityID})
	if err != nil {
		return false, fmt.Errorf("delete role: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the unique identity_id index.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "identity_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
