package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/render"
)

type CVInput struct {
	Name       string
	Email      string
	Phone      string
	Education  string
	Experience string
	Skills     []string
	Photo      string
}

// CVService keeps one CV per user and a rendered copy for download.
type CVService struct {
	cvs      CVRepository
	renderer render.Renderer
	files    FileStore
	log      *slog.Logger
}

func NewCVService(cvs CVRepository, renderer render.Renderer, files FileStore, log *slog.Logger) *CVService {
	return &CVService{cvs: cvs, renderer: renderer, files: files, log: log}
}

func (s *CVService) Get(ctx context.Context, userID uint) (*models.CV, error) {
	return s.cvs.GetByUser(ctx, userID)
}

func (s *CVService) Create(ctx context.Context, userID uint, in CVInput) (*models.CV, error) {
	in = trimCV(in)
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email}); err != nil {
		return nil, err
	}
	if !validEmail(in.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	if _, err := s.cvs.GetByUser(ctx, userID); err == nil {
		return nil, apperr.Conflict("CV already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	cv := &models.CV{
		UserID:     userID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Education:  in.Education,
		Experience: in.Experience,
		Skills:     in.Skills,
		PhotoPath:  in.Photo,
	}
	cv.DocumentPath = s.renderDocument(ctx, cv)
	if err := s.cvs.Create(ctx, cv); err != nil {
		s.discard(cv.DocumentPath)
		return nil, err
	}
	return cv, nil
}

// Update replaces the CV fields that were supplied and re-renders the document.
func (s *CVService) Update(ctx context.Context, userID uint, in CVInput) (*models.CV, error) {
	cv, err := s.cvs.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	in = trimCV(in)
	if in.Email != "" && !validEmail(in.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	setIfPresent(&cv.Name, in.Name)
	setIfPresent(&cv.Email, in.Email)
	setIfPresent(&cv.Phone, in.Phone)
	setIfPresent(&cv.Education, in.Education)
	setIfPresent(&cv.Experience, in.Experience)
	setIfPresent(&cv.PhotoPath, in.Photo)
	if in.Skills != nil {
		cv.Skills = in.Skills
	}

	previous := cv.DocumentPath
	cv.DocumentPath = s.renderDocument(ctx, cv)
	if err := s.cvs.Update(ctx, cv); err != nil {
		s.discard(cv.DocumentPath)
		return nil, err
	}
	s.discard(previous)
	return cv, nil
}

func (s *CVService) Delete(ctx context.Context, userID uint) error {
	cv, err := s.cvs.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cvs.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	s.discard(cv.DocumentPath)
	s.discard(cv.PhotoPath)
	return nil
}

// renderDocument returns the stored document path, or "" when rendering
// fails; the CV itself is still saved.
func (s *CVService) renderDocument(ctx context.Context, cv *models.CV) string {
	data, ext, err := s.renderer.Render(ctx, cv)
	if err != nil {
		s.log.Error("cv rendering failed", slog.Uint64("user_id", uint64(cv.UserID)), slog.String("error", err.Error()))
		return ""
	}
	path, err := s.files.Put(ext, data)
	if err != nil {
		s.log.Error("cv document not stored", slog.Uint64("user_id", uint64(cv.UserID)), slog.String("error", err.Error()))
		return ""
	}
	return path
}

func (s *CVService) discard(path string) {
	if path == "" {
		return
	}
	if err := s.files.Remove(path); err != nil {
		s.log.Warn("failed to remove file", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func trimCV(in CVInput) CVInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Education = strings.TrimSpace(in.Education)
	in.Experience = strings.TrimSpace(in.Experience)
	if in.Skills != nil {
		skills := make([]string, 0, len(in.Skills))
		for _, sk := range in.Skills {
			if sk = strings.TrimSpace(sk); sk != "" {
				skills = append(skills, sk)
			}
		}
		in.Skills = skills
	}
	return in
}
