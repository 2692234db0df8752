package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/passiton/backend/internal/store"
)

// containsFold matches s as a literal, case-insensitive substring.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// equalFold matches s exactly, ignoring case.
func equalFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func anyOf(fields []string, value any) bson.A {
	out := make(bson.A, 0, len(fields))
	for _, f := range fields {
		out = append(out, bson.M{f: value})
	}
	return out
}

func userFilter(f store.UserFilter) bson.M {
	filter := bson.M{}
	if f.Verified != nil {
		filter["verified"] = *f.Verified
	}
	if f.Search != "" {
		filter["$or"] = anyOf([]string{"fullName", "email", "username", "collegeName"}, containsFold(f.Search))
	}
	if f.CreatedSince != nil {
		filter["createdAt"] = bson.M{"$gte": *f.CreatedSince}
	}
	return filter
}

func productFilter(f store.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = equalFold(f.Category)
	}
	if f.Query != "" {
		filter["$or"] = anyOf([]string{"title", "category"}, containsFold(f.Query))
	}
	if f.State != "" {
		filter["state"] = f.State
	}
	if f.City != "" {
		filter["city"] = f.City
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Sold != nil {
		filter["sold"] = *f.Sold
	}
	if f.CreatedSince != nil {
		filter["createdAt"] = bson.M{"$gte": *f.CreatedSince}
	}
	return filter
}

func opportunityFilter(f store.OpportunityFilter) bson.M {
	filter := bson.M{}
	if f.Active != nil {
		filter["active"] = *f.Active
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.CreatedSince != nil {
		filter["createdAt"] = bson.M{"$gte": *f.CreatedSince}
	}
	return filter
}

func userUpdate(u store.UserUpdate) bson.M {
	set := bson.M{}
	if u.FullName != nil {
		set["fullName"] = *u.FullName
	}
	if u.Username != nil {
		set["username"] = *u.Username
	}
	if u.CollegeName != nil {
		set["collegeName"] = *u.CollegeName
	}
	if u.Mobile != nil {
		set["mobile"] = *u.Mobile
	}
	if u.Verified != nil {
		set["verified"] = *u.Verified
	}
	return set
}

func opportunityUpdate(u store.OpportunityUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Company != nil {
		set["company"] = *u.Company
	}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Active != nil {
		set["active"] = *u.Active
	}
	if u.Featured != nil {
		set["featured"] = *u.Featured
	}
	return set
}

var (
	newestFirst   = bson.D{{Key: "createdAt", Value: -1}}
	featuredFirst = bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}
	collegeRank   = bson.D{{Key: "verified", Value: -1}, {Key: "usageCount", Value: -1}, {Key: "createdAt", Value: -1}}
)
