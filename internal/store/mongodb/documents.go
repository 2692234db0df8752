package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/passiton/backend/internal/model"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Username     string             `bson:"username"`
	FullName     string             `bson:"fullName"`
	Password     string             `bson:"password"`
	CollegeIDURL string             `bson:"collegeIdUrl"`
	Verified     bool               `bson:"verified"`
	CollegeName  string             `bson:"collegeName,omitempty"`
	Mobile       string             `bson:"mobile,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func userFromModel(u *model.User) userDoc {
	return userDoc{
		Email:        u.Email,
		Username:     u.Username,
		FullName:     u.FullName,
		Password:     u.PasswordHash,
		CollegeIDURL: u.CollegeIDURL,
		Verified:     u.Verified,
		CollegeName:  u.CollegeName,
		Mobile:       u.Mobile,
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDoc) model() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Username:     d.Username,
		FullName:     d.FullName,
		PasswordHash: d.Password,
		CollegeIDURL: d.CollegeIDURL,
		Verified:     d.Verified,
		CollegeName:  d.CollegeName,
		Mobile:       d.Mobile,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type productDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Price     int                `bson:"price"`
	Category  string             `bson:"category"`
	Image     string             `bson:"image"`
	College   string             `bson:"college"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	State     string             `bson:"state"`
	City      string             `bson:"city"`
	UserID    string             `bson:"userId"`
	Sold      bool               `bson:"sold"`
	Featured  bool               `bson:"featured"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func productFromModel(p *model.Product) productDoc {
	return productDoc{
		Title:     p.Title,
		Price:     p.Price,
		Category:  p.Category,
		Image:     p.Image,
		College:   p.College,
		Email:     p.Email,
		Phone:     p.Phone,
		State:     p.State,
		City:      p.City,
		UserID:    p.UserID,
		Sold:      p.Sold,
		Featured:  p.Featured,
		CreatedAt: p.CreatedAt,
	}
}

func (d productDoc) model() model.Product {
	return model.Product{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Price:     d.Price,
		Category:  d.Category,
		Image:     d.Image,
		College:   d.College,
		Email:     d.Email,
		Phone:     d.Phone,
		State:     d.State,
		City:      d.City,
		UserID:    d.UserID,
		Sold:      d.Sold,
		Featured:  d.Featured,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type opportunityDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Company      string             `bson:"company"`
	Type         string             `bson:"type"`
	Location     string             `bson:"location"`
	Duration     string             `bson:"duration,omitempty"`
	Salary       string             `bson:"salary,omitempty"`
	Description  string             `bson:"description"`
	Requirements []string           `bson:"requirements"`
	Tags         []string           `bson:"tags"`
	Featured     bool               `bson:"featured"`
	Deadline     *time.Time         `bson:"deadline,omitempty"`
	ContactEmail string             `bson:"contactEmail"`
	ContactPhone string             `bson:"contactPhone,omitempty"`
	UserID       string             `bson:"userId"`
	Active       bool               `bson:"active"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func opportunityFromModel(o *model.Opportunity) opportunityDoc {
	return opportunityDoc{
		Title:        o.Title,
		Company:      o.Company,
		Type:         o.Type,
		Location:     o.Location,
		Duration:     o.Duration,
		Salary:       o.Salary,
		Description:  o.Description,
		Requirements: nonNil(o.Requirements),
		Tags:         nonNil(o.Tags),
		Featured:     o.Featured,
		Deadline:     o.Deadline,
		ContactEmail: o.ContactEmail,
		ContactPhone: o.ContactPhone,
		UserID:       o.UserID,
		Active:       o.Active,
		CreatedAt:    o.CreatedAt,
	}
}

func (d opportunityDoc) model() model.Opportunity {
	o := model.Opportunity{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Company:      d.Company,
		Type:         d.Type,
		Location:     d.Location,
		Duration:     d.Duration,
		Salary:       d.Salary,
		Description:  d.Description,
		Requirements: nonNil(d.Requirements),
		Tags:         nonNil(d.Tags),
		Featured:     d.Featured,
		ContactEmail: d.ContactEmail,
		ContactPhone: d.ContactPhone,
		UserID:       d.UserID,
		Active:       d.Active,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.Deadline != nil {
		deadline := d.Deadline.UTC()
		o.Deadline = &deadline
	}
	return o
}

type collegeDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	AddedBy    string             `bson:"addedBy"`
	Verified   bool               `bson:"verified"`
	UsageCount int                `bson:"usageCount"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d collegeDoc) model() model.College {
	return model.College{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		AddedBy:    d.AddedBy,
		Verified:   d.Verified,
		UsageCount: d.UsageCount,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
