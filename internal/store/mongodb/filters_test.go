package mongodb

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

func TestContainsFoldQuotesMetacharacters(t *testing.T) {
	re := containsFold("c++ (basics)")
	assert.Equal(t, "i", re.Options)

	compiled := regexp.MustCompile("(?i)" + re.Pattern)
	assert.True(t, compiled.MatchString("Intro to C++ (Basics) 2nd ed"))
	assert.False(t, compiled.MatchString("c basics"))
}

func TestEqualFoldIsAnchored(t *testing.T) {
	compiled := regexp.MustCompile("(?i)" + equalFold("books").Pattern)
	assert.True(t, compiled.MatchString("Books"))
	assert.False(t, compiled.MatchString("Textbooks"))
}

func TestUserFilter(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	verified := true

	filter := userFilter(store.UserFilter{Verified: &verified, Search: "ali", CreatedSince: &since})

	assert.Equal(t, true, filter["verified"])
	assert.Equal(t, bson.M{"$gte": since}, filter["createdAt"])
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 4)
	assert.Equal(t, bson.M{"fullName": containsFold("ali")}, or[0])

	assert.Empty(t, userFilter(store.UserFilter{}))
}

func TestProductFilter(t *testing.T) {
	sold := false
	filter := productFilter(store.ProductFilter{
		Category: "Books",
		Query:    "calc",
		State:    "Delhi",
		UserID:   "u-1",
		Sold:     &sold,
	})

	assert.Equal(t, equalFold("Books"), filter["category"])
	assert.Equal(t, "Delhi", filter["state"])
	assert.Equal(t, "u-1", filter["userId"])
	assert.Equal(t, false, filter["sold"])
	assert.NotContains(t, filter, "city")
	assert.Len(t, filter["$or"], 2)
}

func TestOpportunityFilterAndUpdate(t *testing.T) {
	active := true
	filter := opportunityFilter(store.OpportunityFilter{Active: &active, Type: "internship"})
	assert.Equal(t, bson.M{"active": true, "type": "internship"}, filter)

	featured := true
	title := "SDE Intern"
	set := opportunityUpdate(store.OpportunityUpdate{Featured: &featured, Title: &title})
	assert.Equal(t, bson.M{"featured": true, "title": "SDE Intern"}, set)
}

func TestUserUpdateOnlySetsProvidedFields(t *testing.T) {
	mobile := "9876543210"
	set := userUpdate(store.UserUpdate{Mobile: &mobile})
	assert.Equal(t, bson.M{"mobile": "9876543210"}, set)
}

func TestObjectIDRejectsMalformed(t *testing.T) {
	_, err := objectID("not-a-hex-id")
	assert.ErrorIs(t, err, store.ErrNotFound)

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestByOwnedID(t *testing.T) {
	oid := primitive.NewObjectID()

	filter, err := byOwnedID(oid.Hex(), "")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": oid}, filter)

	filter, err = byOwnedID(oid.Hex(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": oid, "userId": "u-1"}, filter)
}

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(mongo.ErrNoDocuments), store.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapError(dup), store.ErrDuplicate)

	boom := errors.New("socket closed")
	assert.Equal(t, boom, mapError(boom))
	assert.NoError(t, mapError(nil))
}

func TestOpportunityDocRoundTrip(t *testing.T) {
	deadline := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	o := &model.Opportunity{
		Title:    "SDE Intern",
		Type:     "internship",
		Deadline: &deadline,
		UserID:   "admin",
		Active:   true,
	}

	doc := opportunityFromModel(o)
	assert.Equal(t, []string{}, doc.Requirements)
	assert.Equal(t, []string{}, doc.Tags)

	doc.ID = primitive.NewObjectID()
	back := doc.model()
	assert.Equal(t, doc.ID.Hex(), back.ID)
	require.NotNil(t, back.Deadline)
	assert.True(t, deadline.Equal(*back.Deadline))
	assert.Equal(t, "admin", back.UserID)
}

func TestListingDocsOmitVerification(t *testing.T) {
	raw, err := bson.Marshal(productFromModel(&model.Product{Title: "Lab coat", SellerVerified: true}))
	require.NoError(t, err)
	_, err = bson.Raw(raw).LookupErr("sellerVerified")
	assert.Error(t, err)

	raw, err = bson.Marshal(opportunityFromModel(&model.Opportunity{Title: "SDE Intern", PosterVerified: true}))
	require.NoError(t, err)
	_, err = bson.Raw(raw).LookupErr("posterVerified")
	assert.Error(t, err)
}
