package bootstrap

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookstore-admin/internal/domain"
	"bookstore-admin/internal/repo"
	"bookstore-admin/pkg/utils"
)

// Options 对应配置里的 db.autoMigrate 与 seed.*
type Options struct {
	AutoMigrate    bool
	AdminName      string
	AdminEmail     string
	AdminPassword  string
	SeedCategories bool
	Logger         *zap.Logger
}

// DefaultCategories 空库时写入的分类
var DefaultCategories = []domain.CategoryInput{
	{Name: "Fiction", Description: strPtr("Fictional literature including novels and short stories")},
	{Name: "Non-Fiction", Description: strPtr("Non-fictional books including biographies, history, and science")},
}

// Run 建表并写入初始数据；每一步都先检查是否已存在，可重复执行
func Run(ctx context.Context, db *gorm.DB, o Options) error {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if o.AutoMigrate {
		if err := repo.Migrate(ctx, db); err != nil {
			return errors.Wrap(err, "auto migrate")
		}
		log.Info("schema migrated")
	}

	if err := EnsureAdmin(ctx, repo.NewUserRepo(db), o.AdminName, o.AdminEmail, o.AdminPassword, log); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	if o.SeedCategories {
		if err := seedCategories(ctx, repo.NewCategoryRepo(db), log); err != nil {
			return errors.Wrap(err, "seed categories")
		}
	}
	return nil
}

// EnsureAdmin 邮箱不存在时创建管理员；email 或 password 为空则跳过
func EnsureAdmin(ctx context.Context, users domain.UserRepository, name, email, password string, log *zap.Logger) error {
	if email == "" || password == "" {
		log.Warn("admin seed skipped: email or password not configured")
		return nil
	}
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	if name == "" {
		name = "Admin User"
	}
	u, err := users.Create(ctx, domain.UserInput{Name: name, Email: email, Password: hash, Role: domain.RoleAdmin})
	if err != nil {
		return err
	}
	log.Info("admin user created", zap.Uint("id", u.ID), zap.String("email", u.Email))
	return nil
}

func seedCategories(ctx context.Context, cats domain.CategoryRepository, log *zap.Logger) error {
	_, pg, err := cats.List(ctx, domain.CategoryListParams{Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if pg.Total > 0 {
		return nil
	}
	for _, in := range DefaultCategories {
		if _, err := cats.Create(ctx, in); err != nil {
			return errors.Wrapf(err, "create category %s", in.Name)
		}
	}
	log.Info("default categories created", zap.Int("count", len(DefaultCategories)))
	return nil
}

func strPtr(s string) *string { return &s }
