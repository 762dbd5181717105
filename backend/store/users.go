package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"diaconia/backend/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(s.db.WithContext(ctx).Create(u).Error, "user")
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// FindByIDs returns the users found among ids, keyed by ID.
func (s *UserStore) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	users := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var list []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, translate(err, "users")
	}
	for _, u := range list {
		users[u.ID] = u
	}
	return users, nil
}

func (s *UserStore) Save(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error, "user")
}

// UserFilter narrows ListUsers. Zero values mean "no filter".
type UserFilter struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

// ListUsers returns a page of users, newest first, with the total matching count.
func (s *UserStore) ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "users")
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	var users []models.User
	err := query.Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, translate(err, "users")
	}
	return users, total, nil
}

// FindAdmin returns any admin account.
func (s *UserStore) FindAdmin(ctx context.Context) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Order("id ASC").
		First(&u).Error
	if err != nil {
		return nil, translate(err, "admin")
	}
	return &u, nil
}

func (s *UserStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

type UserStats struct {
	Total    int64 `json:"totalUsers"`
	Admins   int64 `json:"totalAdmins"`
	Students int64 `json:"totalStudents"`
	Active   int64 `json:"activeUsers"`
	Inactive int64 `json:"inactiveUsers"`
}

// Stats counts accounts by role and status.
func (s *UserStore) Stats(ctx context.Context) (*UserStats, error) {
	var rows []struct {
		Role     string
		IsActive bool
		N        int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, is_active, COUNT(*) AS n").
		Group("role, is_active").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "users")
	}

	stats := &UserStats{}
	for _, r := range rows {
		stats.Total += r.N
		switch r.Role {
		case models.RoleAdmin:
			stats.Admins += r.N
		case models.RoleStudent:
			stats.Students += r.N
		}
		if r.IsActive {
			stats.Active += r.N
		} else {
			stats.Inactive += r.N
		}
	}
	return stats, nil
}
