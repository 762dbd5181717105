package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"diaconia/backend/errs"
	"diaconia/backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestProgressSaveDetectsStaleWrites(t *testing.T) {
	ctx := context.Background()
	s := NewProgressStore(newTestDB(t))

	require.NoError(t, s.Create(ctx, models.NewCourseProgress(1, 1, time.Now())))

	first, err := s.Find(ctx, 1, 1)
	require.NoError(t, err)
	second, err := s.Find(ctx, 1, 1)
	require.NoError(t, err)

	first.Lesson(10, 0).Completed = true
	require.NoError(t, s.Save(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Lesson(11, 0).Completed = true
	err = s.Save(ctx, second)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, 1, second.Version, "a rejected save keeps the loaded version")

	stored, err := s.Find(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, stored.IsLessonCompleted(10, 0))
	assert.False(t, stored.IsLessonCompleted(11, 0))
}

func TestProgressUniquePerUserAndCourse(t *testing.T) {
	ctx := context.Background()
	s := NewProgressStore(newTestDB(t))

	require.NoError(t, s.Create(ctx, models.NewCourseProgress(1, 1, time.Now())))
	err := s.Create(ctx, models.NewCourseProgress(1, 1, time.Now()))
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = s.Find(ctx, 2, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFindCourseLoadsOrderedTree(t *testing.T) {
	ctx := context.Background()
	s := NewCourseStore(newTestDB(t))

	course := &models.Course{Title: "Louvor", Status: models.CourseStatusPublished}
	require.NoError(t, s.CreateCourse(ctx, course))

	second := &models.Module{CourseID: course.ID, Title: "Segundo", Position: 1}
	first := &models.Module{CourseID: course.ID, Title: "Primeiro", Position: 0}
	require.NoError(t, s.CreateModule(ctx, second))
	require.NoError(t, s.CreateModule(ctx, first))

	require.NoError(t, s.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, ModuleID: &first.ID, Title: "b", Position: 1}))
	require.NoError(t, s.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, ModuleID: &first.ID, Title: "a", Position: 0}))
	require.NoError(t, s.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, Title: "flat", Position: 0}))

	loaded, err := s.FindCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Modules, 2)
	assert.Equal(t, "Primeiro", loaded.Modules[0].Title)
	require.Len(t, loaded.Modules[0].Lessons, 2)
	assert.Equal(t, "a", loaded.Modules[0].Lessons[0].Title)
	require.Len(t, loaded.Lessons, 1, "the flat list only holds lessons without a module")
	assert.Equal(t, "flat", loaded.Lessons[0].Title)

	_, err = s.FindCourse(ctx, 9999)
	assert.EqualError(t, err, "course not found")
}

func TestListCourses(t *testing.T) {
	ctx := context.Background()
	s := NewCourseStore(newTestDB(t))

	for _, c := range []models.Course{
		{Title: "Escola bíblica", Category: "ensino", Status: models.CourseStatusPublished},
		{Title: "Liderança de células", Category: "liderança", Status: models.CourseStatusPublished},
		{Title: "Rascunho", Category: "ensino", Status: models.CourseStatusDraft},
	} {
		c := c
		require.NoError(t, s.CreateCourse(ctx, &c))
	}

	list, total, err := s.List(ctx, CourseFilter{Status: models.CourseStatusPublished})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = s.List(ctx, CourseFilter{Category: "ensino", Search: "bíblica"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Escola bíblica", list[0].Title)

	list, total, err = s.List(ctx, CourseFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 1)
}

func TestDeleteCourseRemovesTree(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := NewCourseStore(db)

	course := &models.Course{Title: "Temporário"}
	require.NoError(t, s.CreateCourse(ctx, course))
	module := &models.Module{CourseID: course.ID, Title: "M"}
	require.NoError(t, s.CreateModule(ctx, module))
	require.NoError(t, s.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, ModuleID: &module.ID, Title: "L"}))

	require.NoError(t, s.DeleteCourse(ctx, course.ID))

	var lessons int64
	require.NoError(t, db.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessons).Error)
	assert.Zero(t, lessons)
	assert.ErrorIs(t, s.DeleteCourse(ctx, course.ID), errs.ErrNotFound)
}

func TestUserEmailsAreUniqueAndCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(newTestDB(t))

	require.NoError(t, s.Create(ctx, &models.User{Name: "Ana", Email: "Ana@Example.org", PasswordHash: "x"}))
	err := s.Create(ctx, &models.User{Name: "Ana 2", Email: "ana@example.org", PasswordHash: "x"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	u, err := s.FindByEmail(ctx, " ANA@example.org ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.org", u.Email)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.True(t, u.IsActive)

	users, err := s.FindByIDs(ctx, []uint{u.ID, 404})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
