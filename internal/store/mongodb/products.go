package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	doc := productFromModel(p)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = s.stamp()

	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		return mapError(err)
	}
	p.ID = doc.ID.Hex()
	p.CreatedAt = doc.CreatedAt
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := s.products.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	p := doc.model()
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]model.Product, error) {
	cur, err := s.products.Find(ctx, productFilter(f), findOptions(featuredFirst, 0, f.Limit))
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.model())
	}
	return products, nil
}

func (s *Store) CountProducts(ctx context.Context, f store.ProductFilter) (int64, error) {
	return s.products.CountDocuments(ctx, productFilter(f))
}

func (s *Store) DeleteProduct(ctx context.Context, id, ownerID string) error {
	filter, err := byOwnedID(id, ownerID)
	if err != nil {
		return err
	}
	return deletedOne(s.products.DeleteOne(ctx, filter))
}

func (s *Store) SetProductSold(ctx context.Context, id, ownerID string, sold bool) error {
	filter, err := byOwnedID(id, ownerID)
	if err != nil {
		return err
	}
	return matchedOne(s.products.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"sold": sold}}))
}

func (s *Store) DeleteProductsByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.products.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
