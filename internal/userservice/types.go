package userservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sushihentaime/inkwell/internal/common"
)

type UserService struct {
	m        userStore
	tokens   *TokenIssuer
	verifier IdentityVerifier
	mb       common.MessageProducer
	logger   *slog.Logger

	// linkGoogleAccounts lets a Google sign-in reuse an account created with a password.
	linkGoogleAccounts bool
}

// Config wires the collaborators of a UserService. Broker may be nil.
type Config struct {
	Model              *UserModel
	Tokens             *TokenIssuer
	Verifier           IdentityVerifier
	Broker             common.MessageProducer
	Logger             *slog.Logger
	LinkGoogleAccounts bool
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID           uuid.UUID    `json:"id"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	GoogleAuth   bool         `json:"google_auth"`
	AccountInfo  AccountInfo  `json:"account_info"`
	Blogs        []string     `json:"blogs"`
	JoinedAt     time.Time    `json:"joined_at"`
}

type PersonalInfo struct {
	Fullname   string   `json:"fullname"`
	Email      string   `json:"email"`
	Password   Password `json:"-"`
	Username   string   `json:"username"`
	Bio        string   `json:"bio"`
	ProfileImg string   `json:"profile_img"`
}

type AccountInfo struct {
	TotalPosts int `json:"total_posts"`
	TotalReads int `json:"total_reads"`
}

// Password holds the bcrypt hash of a user's secret. Federated accounts have no hash.
type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// Session is what every sign-in flavour hands back to the client.
type Session struct {
	ProfileImg  string `json:"profile_img"`
	Username    string `json:"username"`
	Fullname    string `json:"fullname"`
	AccessToken string `json:"access_token"`
}

// GoogleProfile is the verified identity returned by an IdentityVerifier.
type GoogleProfile struct {
	Email   string
	Name    string
	Picture string
}
