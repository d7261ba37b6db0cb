package domain

import (
	"context"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time `gorm:"precision:6" json:"created_at"`
	UpdatedAt time.Time `gorm:"precision:6" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// UserInput 新建用户；Password 必须已经是哈希值
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UserUpdate struct {
	Name  string
	Email string
	Role  string
}

type UserListParams struct {
	Page   int
	Limit  int
	Search string
}

// NormalizeEmail 邮箱统一小写去空格后入库/查询
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidRole 仅允许 admin / user
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

type UserRepository interface {
	Create(ctx context.Context, in UserInput) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, p UserListParams) ([]User, Pagination, error)
	Update(ctx context.Context, id uint, in UserUpdate) (*User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
}
