package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

type SeedResult struct {
	UsersCreated         int
	OpportunitiesCreated int
	OpportunitiesRemoved int64
}

type demoOpportunity struct {
	poster int
	model.Opportunity
}

var demoRecruiters = []model.User{
	{Email: "hr@techstart.example", Username: "techstart_hr", FullName: "HR Manager", CollegeName: "TechStart Solutions", Mobile: "9876543210"},
	{Email: "careers@innovatelabs.example", Username: "innovate_careers", FullName: "Career Team", CollegeName: "InnovateLabs", Mobile: "9876543211"},
	{Email: "mentors@mentorconnect.example", Username: "mentor_connect", FullName: "Mentor Connect", CollegeName: "MentorConnect", Mobile: "9876543212"},
}

var demoOpportunities = []demoOpportunity{
	{0, model.Opportunity{
		Title: "Full Stack Developer", Company: "TechStart Solutions", Type: "job",
		Location: "Bengaluru, Karnataka", Duration: "Full-time", Salary: "₹8-12 LPA",
		Description:  "Build and ship web applications end to end with a small product team.",
		Requirements: []string{"Node.js", "React", "MongoDB", "Git"},
		Tags:         []string{"Full-time", "Growth"},
		Featured:     true, ContactEmail: "hr@techstart.example",
	}},
	{1, model.Opportunity{
		Title: "Senior React Developer", Company: "InnovateLabs", Type: "job",
		Location: "Mumbai, Maharashtra", Duration: "Full-time", Salary: "₹15-20 LPA",
		Description:  "Lead frontend development for the flagship product and mentor junior engineers.",
		Requirements: []string{"React", "TypeScript", "5+ years experience"},
		Tags:         []string{"Senior Level", "Leadership"},
		Featured:     true, ContactEmail: "careers@innovatelabs.example",
	}},
	{0, model.Opportunity{
		Title: "Frontend Developer Intern", Company: "TechStart Solutions", Type: "internship",
		Location: "Remote", Duration: "3-6 months", Salary: "₹15,000/month",
		Description:  "Work on production React code with a mentor and a weekly review.",
		Requirements: []string{"JavaScript", "HTML/CSS", "Currently enrolled"},
		Tags:         []string{"Remote", "Certificate"},
		ContactEmail: "hr@techstart.example",
	}},
	{2, model.Opportunity{
		Title: "Career Mentorship in Software Engineering", Company: "MentorConnect", Type: "mentor",
		Location: "Online", Duration: "3 months",
		Description:  "Weekly one-on-one sessions on interviews, system design and career planning.",
		Requirements: []string{"Final-year student or recent graduate"},
		Tags:         []string{"1:1", "Career"},
		ContactEmail: "mentors@mentorconnect.example",
	}},
	{2, model.Opportunity{
		Title: "DSA Coaching Batch", Company: "MentorConnect", Type: "coaching",
		Location: "Online", Duration: "8 weeks", Salary: "₹2,999",
		Description:  "Structured data structures and algorithms practice with mock interviews.",
		Requirements: []string{"Basic programming in any language"},
		Tags:         []string{"Interview Prep"},
		ContactEmail: "mentors@mentorconnect.example",
	}},
	{1, model.Opportunity{
		Title: "Campus Hackathon 2025", Company: "InnovateLabs", Type: "event",
		Location: "Pune, Maharashtra", Duration: "48 hours",
		Description:  "A weekend hackathon for student teams with prizes and internship offers.",
		Tags:         []string{"Hackathon", "Prizes"},
		ContactEmail: "careers@innovatelabs.example",
	}},
}

// Seed creates the demo recruiters when missing and replaces their demo
// opportunities. Existing accounts are left untouched.
func Seed(ctx context.Context, repo store.Store, password string, log *slog.Logger) (SeedResult, error) {
	if log == nil {
		log = slog.Default()
	}
	if len(password) < minPasswordLength {
		return SeedResult{}, invalid("password", "Password must be at least 8 characters long")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return SeedResult{}, err
	}

	var res SeedResult
	posters := make([]*model.User, len(demoRecruiters))
	for i, tmpl := range demoRecruiters {
		u, err := repo.GetUserByEmail(ctx, tmpl.Email)
		if err != nil && !store.IsNotFound(err) {
			return res, err
		}
		if u == nil {
			nu := tmpl
			nu.PasswordHash = string(hash)
			nu.CollegeIDURL = "seed"
			nu.Verified = true
			if err := repo.CreateUser(ctx, &nu); err != nil {
				return res, fmt.Errorf("seed user %s: %w", tmpl.Email, err)
			}
			u = &nu
			res.UsersCreated++
		}
		posters[i] = u
	}

	for _, u := range posters {
		n, err := repo.DeleteOpportunitiesByUser(ctx, u.ID)
		if err != nil {
			return res, err
		}
		res.OpportunitiesRemoved += n
	}

	for _, d := range demoOpportunities {
		o := d.Opportunity
		o.Requirements = append([]string{}, o.Requirements...)
		o.Tags = append([]string{}, o.Tags...)
		o.UserID = posters[d.poster].ID
		o.Active = true
		if err := repo.CreateOpportunity(ctx, &o); err != nil {
			return res, fmt.Errorf("seed opportunity %q: %w", o.Title, err)
		}
		res.OpportunitiesCreated++
	}

	log.InfoContext(ctx, "demo data seeded",
		slog.Int("users_created", res.UsersCreated),
		slog.Int("opportunities_created", res.OpportunitiesCreated),
		slog.Int64("opportunities_removed", res.OpportunitiesRemoved),
	)
	return res, nil
}
