package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartItemsCollection = "cart_items"
	countersCollection  = "counters"
)

var ErrDuplicateProduct = errors.New("product already in cart")

type cartItemDocument struct {
	ID        int64     `bson:"_id"`
	ProductID int64     `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
	AddedAt   time.Time `bson:"added_at"`
}

// MongoCartRepository keeps cart lines in MongoDB. Products still live in the
// catalog, so every read joins through products.
type MongoCartRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	products   ProductRepository
}

func NewMongoCartRepository(db *mongo.Database, products ProductRepository) *MongoCartRepository {
	return &MongoCartRepository{
		collection: db.Collection(cartItemsCollection),
		counters:   db.Collection(countersCollection),
		products:   products,
	}
}

func (m *MongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func (m *MongoCartRepository) GetAll(ctx context.Context) ([]domain.CartLine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []cartItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(docs))
	if len(docs) == 0 {
		return lines, nil
	}

	products, err := m.products.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, doc := range docs {
		p, ok := byID[doc.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, domain.NewCartLine(doc.ID, doc.ProductID, p.Name, p.Price, doc.Quantity))
	}

	return lines, nil
}

func (m *MongoCartRepository) GetByID(ctx context.Context, id int64) (*domain.CartLine, error) {
	return m.getOne(ctx, bson.M{"_id": id})
}

func (m *MongoCartRepository) GetByProductID(ctx context.Context, productID int64) (*domain.CartLine, error) {
	return m.getOne(ctx, bson.M{"product_id": productID})
}

func (m *MongoCartRepository) getOne(ctx context.Context, filter bson.M) (*domain.CartLine, error) {
	var doc cartItemDocument
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	p, err := m.products.GetProduct(ctx, doc.ProductID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrCartLineNotFound
		}
		return nil, err
	}

	line := domain.NewCartLine(doc.ID, doc.ProductID, p.Name, p.Price, doc.Quantity)
	return &line, nil
}

func (m *MongoCartRepository) Insert(ctx context.Context, productID int64, quantity int) (int64, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		return 0, err
	}

	doc := cartItemDocument{
		ID:        id,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	}
	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrDuplicateProduct
		}
		return 0, fmt.Errorf("failed to insert cart item: %w", err)
	}

	return id, nil
}

// nextID hands out increasing integer ids so cart line ids look the same as
// with the SQL store.
func (m *MongoCartRepository) nextID(ctx context.Context) (int64, error) {
	filter := bson.M{"_id": cartItemsCollection}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := m.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to allocate cart item id: %w", err)
	}
	return counter.Seq, nil
}

func (m *MongoCartRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	update := bson.M{"$set": bson.M{"quantity": quantity}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (m *MongoCartRepository) Delete(ctx context.Context, id int64) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (m *MongoCartRepository) DeleteAll(ctx context.Context) error {
	if _, err := m.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (m *MongoCartRepository) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := m.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to check cart item %d: %w", id, err)
	}
	return n > 0, nil
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(20)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}
