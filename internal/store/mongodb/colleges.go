package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/passiton/backend/internal/model"
)

func (s *Store) SearchColleges(ctx context.Context, query string, limit int) ([]model.College, error) {
	filter := bson.M{"name": containsFold(query)}
	cur, err := s.colleges.Find(ctx, filter, findOptions(collegeRank, 0, limit))
	if err != nil {
		return nil, err
	}
	var docs []collegeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.College, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) FindCollegeByName(ctx context.Context, name string) (*model.College, error) {
	var doc collegeDoc
	err := s.colleges.FindOne(ctx, bson.M{"name": name}, options.FindOne().SetCollation(caseInsensitive)).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) CreateCollege(ctx context.Context, c *model.College) error {
	now := s.stamp()
	doc := collegeDoc{
		ID:         primitive.NewObjectID(),
		Name:       c.Name,
		AddedBy:    c.AddedBy,
		Verified:   c.Verified,
		UsageCount: c.UsageCount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.colleges.InsertOne(ctx, doc); err != nil {
		return mapError(err)
	}
	c.ID = doc.ID.Hex()
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *Store) updateCollege(ctx context.Context, id string, update bson.M) (*model.College, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc collegeDoc
	if err := s.colleges.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) IncrementCollegeUsage(ctx context.Context, id string) (*model.College, error) {
	return s.updateCollege(ctx, id, bson.M{
		"$inc": bson.M{"usageCount": 1},
		"$set": bson.M{"updatedAt": s.stamp()},
	})
}

func (s *Store) SetCollegeVerified(ctx context.Context, id string, verified bool) (*model.College, error) {
	return s.updateCollege(ctx, id, bson.M{
		"$set": bson.M{"verified": verified, "updatedAt": s.stamp()},
	})
}
