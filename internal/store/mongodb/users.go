package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	doc := userFromModel(u)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = s.stamp()

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return mapError(err)
	}
	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	return nil
}

func (s *Store) findUser(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*model.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, filter)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"email": email}, options.FindOne().SetCollation(caseInsensitive))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	out := make(map[string]*model.User, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := objectID(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID.Hex()] = d.model()
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context, f store.UserFilter) ([]model.User, error) {
	cur, err := s.users.Find(ctx, userFilter(f), findOptions(newestFirst, f.Skip, f.Limit))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, *d.model())
	}
	return users, nil
}

func (s *Store) CountUsers(ctx context.Context, f store.UserFilter) (int64, error) {
	return s.users.CountDocuments(ctx, userFilter(f))
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) (*model.User, error) {
	if upd.Empty() {
		return s.GetUserByID(ctx, id)
	}
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	err = s.users.FindOneAndUpdate(ctx, filter, bson.M{"$set": userUpdate(upd)}, returnAfter()).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	filter, err := byID(id)
	if err != nil {
		return err
	}
	return deletedOne(s.users.DeleteOne(ctx, filter))
}
