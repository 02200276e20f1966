package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleGuest is the derived role for anonymous callers. It is never persisted.
	RoleGuest UserRole = "guest"
	// RoleUser is a regular registered user
	RoleUser UserRole = "user"
	// RoleAdmin is an administrator
	RoleAdmin UserRole = "admin"
)

// Category is a post category
type Category = string

const (
	CategoryNews       Category = "news"
	CategoryTechnology Category = "technology"
	CategorySecurity   Category = "security"
	CategoryBusiness   Category = "business"
)

// User is the user model. PasswordHash never serializes to JSON.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"role,notnull,default:'user'" json:"role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post is the post model
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:post"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Category      Category   `bun:"category,notnull" json:"category,omitempty"`
	Excerpt       string     `bun:"excerpt,notnull" json:"excerpt,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Comment is the comment model
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	PostID        uuid.UUID  `bun:"post_id,notnull,type:uuid" json:"post_id,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PostWithAuthor is the read model for post listings: the post joined with
// the author's username.
type PostWithAuthor struct {
	ID       uuid.UUID  `bun:"id" json:"id"`
	Title    string     `bun:"title" json:"title"`
	Category Category   `bun:"category" json:"category"`
	Excerpt  string     `bun:"excerpt" json:"excerpt"`
	Content  string     `bun:"content" json:"content"`
	Author   string     `bun:"author" json:"author"`
	Date     *time.Time `bun:"date" json:"date"`
}

// CommentWithAuthor is the read model for comment listings.
type CommentWithAuthor struct {
	ID      uuid.UUID  `bun:"id" json:"id"`
	Content string     `bun:"content" json:"content"`
	Date    *time.Time `bun:"date" json:"date"`
	UserID  uuid.UUID  `bun:"user_id" json:"user_id"`
	User    string     `bun:"user" json:"user"`
}
