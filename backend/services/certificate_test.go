package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diaconia/backend/errs"
)

func TestIssueCertificate(t *testing.T) {
	f := newFixture(t)
	course := f.gridCourse(t, 1, 1)
	learner := f.user(t, "paula@example.org")
	module := course.Modules[0]

	_, err := f.certs.Issue(f.ctx, learner.ID, course.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound, "no progress yet")

	_, err = f.progress.GetProgress(f.ctx, learner.ID, course.ID)
	require.NoError(t, err)
	_, err = f.certs.Issue(f.ctx, learner.ID, course.ID)
	assert.True(t, errs.IsValidation(err), "course not completed")

	_, err = f.progress.CompleteLesson(f.ctx, learner.ID, course.ID, module.ID, module.Lessons[0].ID)
	require.NoError(t, err)

	cert, err := f.certs.Issue(f.ctx, learner.ID, course.ID)
	require.NoError(t, err)
	_, err = uuid.Parse(cert.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.org/certificates/"+cert.CertificateID, cert.CertificateURL)
	assert.Equal(t, learner.Name, cert.StudentName)
	assert.Equal(t, course.Title, cert.CourseName)
	assert.NotNil(t, cert.CompletedAt)

	again, err := f.certs.Issue(f.ctx, learner.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateID, again.CertificateID)

	p, err := f.store.Find(f.ctx, learner.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, p.CertificateIssued)
	require.NotNil(t, p.CertificateID)
	assert.Equal(t, cert.CertificateID, *p.CertificateID)
}

func TestIssueCertificateDisabled(t *testing.T) {
	f := newFixture(t)
	course := f.gridCourse(t, 1, 1)
	learner := f.user(t, "quim@example.org")
	disabled := false
	_, err := f.courses.Update(f.ctx, course.ID, CourseUpdate{CertificateEnabled: &disabled})
	require.NoError(t, err)

	_, err = f.certs.Issue(f.ctx, learner.ID, course.ID)
	assert.True(t, errs.IsValidation(err))
}

func TestVerifyCertificate(t *testing.T) {
	f := newFixture(t)
	course := f.gridCourse(t, 1, 1)
	learner := f.user(t, "rita@example.org")
	module := course.Modules[0]

	_, err := f.progress.CompleteLesson(f.ctx, learner.ID, course.ID, module.ID, module.Lessons[0].ID)
	require.NoError(t, err)
	issued, err := f.certs.Issue(f.ctx, learner.ID, course.ID)
	require.NoError(t, err)

	cert, err := f.certs.Verify(f.ctx, issued.CertificateID)
	require.NoError(t, err)
	assert.True(t, cert.Valid)
	assert.Equal(t, "rita@example.org", cert.StudentEmail)
	assert.Equal(t, course.Category, cert.CourseCategory)

	_, err = f.certs.Verify(f.ctx, uuid.NewString())
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.certs.Verify(f.ctx, "not-a-certificate")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
