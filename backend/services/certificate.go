package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"diaconia/backend/errs"
)

type Certificate struct {
	CertificateID  string     `json:"certificateId"`
	CertificateURL string     `json:"certificateUrl"`
	StudentName    string     `json:"studentName"`
	StudentEmail   string     `json:"studentEmail,omitempty"`
	CourseName     string     `json:"courseName"`
	CourseCategory string     `json:"courseCategory,omitempty"`
	CompletedAt    *time.Time `json:"completedAt"`
	Valid          bool       `json:"valid"`
}

type CertificateService struct {
	engine      *ProgressService
	users       UserRepo
	frontendURL string
	newID       func() string
}

func NewCertificateService(engine *ProgressService, users UserRepo, frontendURL string) *CertificateService {
	return &CertificateService{
		engine:      engine,
		users:       users,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		newID:       func() string { return uuid.NewString() },
	}
}

// Issue grants a certificate for a completed course. Issuing twice returns the same certificate.
func (s *CertificateService) Issue(ctx context.Context, userID, courseID uint) (*Certificate, error) {
	course, err := s.engine.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.CertificateEnabled {
		return nil, errs.Validation("this course does not issue certificates")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.engine.locks.Lock(progressKey{userID, courseID})
	defer unlock()

	p, err := s.engine.progress.Find(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !p.Completed {
		return nil, errs.Validation("course not completed yet, complete every lesson first")
	}

	if !p.CertificateIssued || p.CertificateID == nil {
		id := s.newID()
		p.CertificateIssued = true
		p.CertificateID = &id
		p.CertificateURL = s.frontendURL + "/certificates/" + id
		if err := s.engine.persist(ctx, p, false); err != nil {
			return nil, err
		}
		s.engine.log.Info("certificate issued",
			zap.Uint("user_id", userID),
			zap.Uint("course_id", courseID),
			zap.String("certificate_id", id),
		)
	}

	return &Certificate{
		CertificateID:  *p.CertificateID,
		CertificateURL: p.CertificateURL,
		StudentName:    user.Name,
		CourseName:     course.Title,
		CompletedAt:    p.CompletedAt,
		Valid:          true,
	}, nil
}

// Verify looks a certificate up by id for public verification.
func (s *CertificateService) Verify(ctx context.Context, certificateID string) (*Certificate, error) {
	if _, err := uuid.Parse(certificateID); err != nil {
		return nil, errs.NotFound("certificate")
	}
	p, err := s.engine.progress.FindByCertificate(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	course, err := s.engine.courses.FindCourse(ctx, p.CourseID)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		CertificateID:  certificateID,
		CertificateURL: p.CertificateURL,
		StudentName:    user.Name,
		StudentEmail:   user.Email,
		CourseName:     course.Title,
		CourseCategory: course.Category,
		CompletedAt:    p.CompletedAt,
		Valid:          true,
	}, nil
}
