package model

import "time"

// AdminID is the identifier carried by the built-in administrator. It never
// refers to a stored user record.
const AdminID = "admin"

type IdentityKind int

const (
	KindUser IdentityKind = iota + 1
	KindAdmin
)

// Identity is the principal a request was resolved to. It is either the
// built-in administrator or a registered user read from the store.
type Identity struct {
	Kind  IdentityKind
	Admin *AdminPrincipal
	User  *User
}

type AdminPrincipal struct {
	Email string
}

func AdminIdentity(email string) Identity {
	return Identity{Kind: KindAdmin, Admin: &AdminPrincipal{Email: email}}
}

func UserIdentity(u *User) Identity {
	return Identity{Kind: KindUser, User: u}
}

func (i Identity) IsAdmin() bool {
	return i.Kind == KindAdmin
}

func (i Identity) ID() string {
	switch i.Kind {
	case KindAdmin:
		return AdminID
	case KindUser:
		return i.User.ID
	default:
		return ""
	}
}

func (i Identity) Email() string {
	switch i.Kind {
	case KindAdmin:
		return i.Admin.Email
	case KindUser:
		return i.User.Email
	default:
		return ""
	}
}

func (i Identity) Username() string {
	switch i.Kind {
	case KindAdmin:
		return AdminID
	case KindUser:
		return i.User.Username
	default:
		return ""
	}
}

func (i Identity) FullName() string {
	switch i.Kind {
	case KindAdmin:
		return "Administrator"
	case KindUser:
		return i.User.FullName
	default:
		return ""
	}
}

// SessionClaims is the canonical claim set embedded in a session token.
type SessionClaims struct {
	UserID   string
	Email    string
	Username string
	FullName string
	IsAdmin  bool
}

// ClaimsFor builds the claim snapshot issued at login or signup.
func ClaimsFor(id Identity) SessionClaims {
	return SessionClaims{
		UserID:   id.ID(),
		Email:    id.Email(),
		Username: id.Username(),
		FullName: id.FullName(),
		IsAdmin:  id.IsAdmin(),
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool `json:"success"`
	IsAdmin bool `json:"isAdmin"`
}

type SignupRequest struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	FullName     string `json:"fullName"`
	CollegeIDURL string `json:"collegeIdUrl"`
	CollegeName  string `json:"collegeName"`
	Mobile       string `json:"mobile"`
}

type SignupResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type MeUser struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	CollegeIDURL string `json:"collegeIdUrl,omitempty"`
	Verified     *bool  `json:"verified,omitempty"`
	CollegeName  string `json:"collegeName,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	IsAdmin      bool   `json:"isAdmin,omitempty"`
}

type AuthMeResponse struct {
	LoggedIn bool    `json:"loggedIn"`
	IsAdmin  bool    `json:"isAdmin"`
	User     *MeUser `json:"user,omitempty"`
}

// MeUserFrom renders the identity probe payload.
func MeUserFrom(id Identity) *MeUser {
	if id.IsAdmin() {
		return &MeUser{
			UserID:   AdminID,
			Email:    id.Email(),
			Username: id.Username(),
			FullName: id.FullName(),
			IsAdmin:  true,
		}
	}
	u := id.User
	verified := u.Verified
	return &MeUser{
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FullName:     u.FullName,
		CollegeIDURL: u.CollegeIDURL,
		Verified:     &verified,
		CollegeName:  u.CollegeName,
		Mobile:       u.Mobile,
	}
}

type User struct {
	ID           string    `json:"userId"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	CollegeIDURL string    `json:"collegeIdUrl"`
	Verified     bool      `json:"verified"`
	CollegeName  string    `json:"collegeName,omitempty"`
	Mobile       string    `json:"mobile,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
