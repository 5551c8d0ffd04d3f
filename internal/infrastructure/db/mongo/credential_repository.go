package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/ports"
)

const collectionCredentials = "credentials"

type CredentialRepository struct {
	col *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{col: db.Collection(collectionCredentials)}
}

type mongoCredential struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	SystemName       string             `bson:"system_name"`
	Username         string             `bson:"username"`
	URL              string             `bson:"url,omitempty"`
	Notes            string             `bson:"notes,omitempty"`
	SecretCiphertext string             `bson:"secret_ciphertext"`
	Category         string             `bson:"category"`
	LocationID       string             `bson:"location_id"`
	ExpiryDate       *time.Time         `bson:"expiry_date,omitempty"`
	CreatedBy        string             `bson:"created_by"`
	UpdatedBy        string             `bson:"updated_by"`
	CreatedAt        time.Time          `bson:"created_at"`
	LastUpdated      time.Time          `bson:"last_updated"`
}

func toMongoCredential(c *domain.Credential) mongoCredential {
	return mongoCredential{
		SystemName:       c.SystemName,
		Username:         c.Username,
		URL:              c.URL,
		Notes:            c.Notes,
		SecretCiphertext: c.SecretCiphertext,
		Category:         string(c.Category),
		LocationID:       c.LocationID,
		ExpiryDate:       c.ExpiryDate,
		CreatedBy:        c.CreatedBy,
		UpdatedBy:        c.UpdatedBy,
		CreatedAt:        c.CreatedAt,
		LastUpdated:      c.LastUpdated,
	}
}

func (mc *mongoCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:               mc.ID.Hex(),
		SystemName:       mc.SystemName,
		Username:         mc.Username,
		URL:              mc.URL,
		Notes:            mc.Notes,
		SecretCiphertext: mc.SecretCiphertext,
		Category:         domain.Category(mc.Category),
		LocationID:       mc.LocationID,
		ExpiryDate:       mc.ExpiryDate,
		CreatedBy:        mc.CreatedBy,
		UpdatedBy:        mc.UpdatedBy,
		CreatedAt:        mc.CreatedAt,
		LastUpdated:      mc.LastUpdated,
	}
}

func (r *CredentialRepository) Create(ctx context.Context, c *domain.Credential) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoCredential(c))
	if err != nil {
		return nil, fmt.Errorf("insert credential: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert credential: unexpected inserted id type %T", res.InsertedID)
	}

	out := *c
	out.ID = id.Hex()
	return &out, nil
}

func (r *CredentialRepository) Update(ctx context.Context, c *domain.Credential) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, domain.ErrCredentialNotFound
	}

	doc := toMongoCredential(c)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": doc})
	if err != nil {
		return nil, fmt.Errorf("update credential: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCredentialNotFound
	}
	return c, nil
}

func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCredentialNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}

func (r *CredentialRepository) FindByID(ctx context.Context, id string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCredentialNotFound
	}

	var mc mongoCredential
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return mc.toDomain(), nil
}

// List returns one page of credentials matching the filter plus the total
// match count across all pages.
func (r *CredentialRepository) List(ctx context.Context, filter ports.CredentialFilter) ([]domain.Credential, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.LocationID != "" {
		query["location_id"] = filter.LocationID
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"system_name": re},
			bson.M{"username": re},
			bson.M{"url": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count credentials: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "system_name", Value: 1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list credentials: %w", err)
	}
	defer cur.Close(ctx)

	out, err := decodeCredentials(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *CredentialRepository) ExpiringBetween(ctx context.Context, from, until time.Time) ([]domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"expiry_date": bson.M{"$gte": from, "$lt": until}}
	opts := options.Find().SetSort(bson.D{{Key: "expiry_date", Value: 1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list expiring credentials: %w", err)
	}
	defer cur.Close(ctx)

	return decodeCredentials(ctx, cur)
}

func (r *CredentialRepository) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"location_id": locationID})
	if err != nil {
		return 0, fmt.Errorf("count credentials by location: %w", err)
	}
	return n, nil
}

func (r *CredentialRepository) CountByCategory(ctx context.Context) (map[domain.Category]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate credentials by category: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[domain.Category]int64)
	for cur.Next(ctx) {
		var row struct {
			Category string `bson:"_id"`
			Count    int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode category count: %w", err)
		}
		out[domain.Category(row.Category)] = row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("aggregate credentials by category: %w", err)
	}
	return out, nil
}

func (r *CredentialRepository) LatestUpdated(ctx context.Context, limit int64) ([]domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "last_updated", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list latest credentials: %w", err)
	}
	defer cur.Close(ctx)

	return decodeCredentials(ctx, cur)
}

func (r *CredentialRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count credentials: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates necessary indexes on the credentials collection.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "location_id", Value: 1}}},
		{Keys: bson.D{{Key: "expiry_date", Value: 1}}},
		{Keys: bson.D{{Key: "last_updated", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeCredentials(ctx context.Context, cur *mongo.Cursor) ([]domain.Credential, error) {
	var out []domain.Credential
	for cur.Next(ctx) {
		var mc mongoCredential
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode credential: %w", err)
		}
		out = append(out, *mc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return out, nil
}
