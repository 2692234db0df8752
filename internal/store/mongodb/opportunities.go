package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

func (s *Store) CreateOpportunity(ctx context.Context, o *model.Opportunity) error {
	doc := opportunityFromModel(o)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = s.stamp()

	if _, err := s.opportunities.InsertOne(ctx, doc); err != nil {
		return mapError(err)
	}
	o.ID = doc.ID.Hex()
	o.CreatedAt = doc.CreatedAt
	return nil
}

func (s *Store) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc opportunityDoc
	if err := s.opportunities.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	o := doc.model()
	return &o, nil
}

func (s *Store) ListOpportunities(ctx context.Context, f store.OpportunityFilter) ([]model.Opportunity, error) {
	cur, err := s.opportunities.Find(ctx, opportunityFilter(f), findOptions(featuredFirst, f.Skip, f.Limit))
	if err != nil {
		return nil, err
	}
	var docs []opportunityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]model.Opportunity, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.model())
	}
	return items, nil
}

func (s *Store) CountOpportunities(ctx context.Context, f store.OpportunityFilter) (int64, error) {
	return s.opportunities.CountDocuments(ctx, opportunityFilter(f))
}

var byTypePipeline = mongo.Pipeline{
	{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$type"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
}

func (s *Store) CountOpportunitiesByType(ctx context.Context) ([]model.TypeCount, error) {
	cur, err := s.opportunities.Aggregate(ctx, byTypePipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]model.TypeCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.TypeCount{Type: r.Type, Count: r.Count})
	}
	return out, nil
}

func (s *Store) UpdateOpportunity(ctx context.Context, id string, upd store.OpportunityUpdate) (*model.Opportunity, error) {
	if upd.Empty() {
		return s.GetOpportunity(ctx, id)
	}
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}

	var doc opportunityDoc
	err = s.opportunities.FindOneAndUpdate(ctx, filter, bson.M{"$set": opportunityUpdate(upd)}, returnAfter()).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	o := doc.model()
	return &o, nil
}

func (s *Store) SetOpportunityActive(ctx context.Context, id, ownerID string, active bool) error {
	filter, err := byOwnedID(id, ownerID)
	if err != nil {
		return err
	}
	return matchedOne(s.opportunities.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"active": active}}))
}

func (s *Store) DeleteOpportunity(ctx context.Context, id, ownerID string) error {
	filter, err := byOwnedID(id, ownerID)
	if err != nil {
		return err
	}
	return deletedOne(s.opportunities.DeleteOne(ctx, filter))
}

func (s *Store) DeleteOpportunitiesByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.opportunities.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
