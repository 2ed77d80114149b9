// Package docstore implements the catalog stores on MongoDB.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/db/models"
)

const (
	productsCollection = "products"
	settingsCollection = "settings"
	connectTimeout     = 10 * time.Second
)

var (
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = fmt.Errorf("product %w", catalog.ErrNotFound)
	// ErrEmptyURI is returned when no connection string is configured.
	ErrEmptyURI = errors.New("mongodb uri is empty")
)

// Client holds the connection and the database the stores live in.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the server. dbName defaults to "catalog".
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	if uri == "" {
		return nil, ErrEmptyURI
	}

	if dbName == "" {
		dbName = "catalog"
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	log.Info().Str("database", dbName).Msg("connected to mongodb")

	return &Client{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects from the server.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Products returns the product store.
func (c *Client) Products() *ProductStore {
	return &ProductStore{coll: c.db.Collection(productsCollection)}
}

// Settings returns the setting store.
func (c *Client) Settings() *SettingStore {
	return &SettingStore{coll: c.db.Collection(settingsCollection)}
}

// ProductStore implements catalog.ProductStore on a collection.
type ProductStore struct {
	coll *mongo.Collection
}

// List returns all products, oldest first.
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0)
	if err = cur.All(ctx, &products); err != nil {
		return nil, err
	}

	for i := range products {
		products[i].EnsureID()
	}

	return products, nil
}

// Get returns the product with id.
func (s *ProductStore) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product

	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}

		return nil, err
	}

	p.EnsureID()

	return &p, nil
}

// Create inserts p after assigning its id and timestamps.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	p.EnsureID()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	p.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, p)

	return err
}

// Update overwrites the mutable fields of p.ID.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()

	if p.Images == nil {
		p.Images = models.ImageList{}
	}

	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "desc", Value: p.Desc},
		{Key: "price", Value: p.Price},
		{Key: "sku", Value: p.SKU},
		{Key: "stock", Value: p.Stock},
		{Key: "images", Value: []string(p.Images)},
		{Key: "updatedAt", Value: p.UpdatedAt},
	}}})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes the product with id.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// SettingStore implements catalog.SettingStore on a collection keyed by type.
type SettingStore struct {
	coll *mongo.Collection
}

// All maps each stored type to its content.
func (s *SettingStore) All(ctx context.Context) (map[catalog.SettingType]string, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var settings []models.Setting
	if err = cur.All(ctx, &settings); err != nil {
		return nil, err
	}

	out := make(map[catalog.SettingType]string, len(settings))
	for _, st := range settings {
		out[catalog.SettingType(st.Type)] = st.Content
	}

	return out, nil
}

// Set upserts the document with _id t.
func (s *SettingStore) Set(ctx context.Context, t catalog.SettingType, content string) error {
	if !t.Valid() {
		return catalog.NewValidationError("Invalid setting type")
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: string(t)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		options.Update().SetUpsert(true),
	)

	return err
}
