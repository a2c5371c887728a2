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
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

const (
	collectionPages    = "pages"
	collectionCounters = "counters"
)

// PageRepository persists content pages. Pages carry a small monotonically
// increasing integer id allocated from a counters document, and slug
// uniqueness is enforced by a unique index.
type PageRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewPageRepository(db *mongo.Database) *PageRepository {
	return &PageRepository{
		col:      db.Collection(collectionPages),
		counters: db.Collection(collectionCounters),
	}
}

// newestFirst sorts by creation time descending.
var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// ListForRole returns pages whose allowed_roles set contains role. Matching
// a scalar against an array field is exactly the membership test wanted here.
func (r *PageRepository) ListForRole(ctx context.Context, role domain.Role) ([]domain.Page, error) {
	return r.list(ctx, bson.M{"allowed_roles": role})
}

// ListAll returns every page, unfiltered.
func (r *PageRepository) ListAll(ctx context.Context) ([]domain.Page, error) {
	return r.list(ctx, bson.M{})
}

func (r *PageRepository) list(ctx context.Context, filter bson.M) ([]domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer cur.Close(ctx)

	var pages []domain.Page
	if err := cur.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("list pages: decode: %w", err)
	}
	return pages, nil
}

func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	return r.get(ctx, bson.M{"slug": slug})
}

func (r *PageRepository) GetByID(ctx context.Context, id int64) (*domain.Page, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *PageRepository) get(ctx context.Context, filter bson.M) (*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Page
	err := r.col.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPageNotFound
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return &p, nil
}

// Create allocates the next page id and inserts the document. A unique-index
// violation on slug surfaces as *domain.DuplicateSlugError, leaving any
// existing page untouched.
func (r *PageRepository) Create(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.DuplicateSlugError{Slug: p.Slug}
		}
		return nil, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

// Update applies a partial update in one statement. An empty update reads
// and returns the current record unchanged.
func (r *PageRepository) Update(ctx context.Context, id int64, data ports.UpdatePageData) (*domain.Page, error) {
	if data.Empty() {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if data.Slug != nil {
		set["slug"] = *data.Slug
	}
	if data.Title != nil {
		set["title"] = *data.Title
	}
	if data.Content != nil {
		set["content"] = *data.Content
	}
	if data.AllowedRoles != nil {
		set["allowed_roles"] = data.AllowedRoles
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p domain.Page
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPageNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			slug := ""
			if data.Slug != nil {
				slug = *data.Slug
			}
			return nil, &domain.DuplicateSlugError{Slug: slug}
		}
		return nil, fmt.Errorf("update page: %w", err)
	}
	return &p, nil
}

// Delete removes a page, reporting whether it existed.
func (r *PageRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete page: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// nextID atomically increments the pages counter document.
func (r *PageRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": collectionPages},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next page id: %w", err)
	}
	return counter.Seq, nil
}

// EnsureIndexes creates the unique slug index and the listing sort index.
func (r *PageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "allowed_roles", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
