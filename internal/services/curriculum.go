package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/pkg/ordering"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type SubjectInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=4000"`
	Published   types.Published `json:"published" validate:"omitempty,oneof=Yes No"`
}

// NodeInput is the editable part of units, chapters and lessons.
type NodeInput struct {
	Name      string          `json:"name" validate:"required,max=255"`
	Published types.Published `json:"published" validate:"omitempty,oneof=Yes No"`
}

type CurriculumService interface {
	ListSubjects(ctx context.Context) ([]*types.Subject, error)
	GetSubject(ctx context.Context, id uuid.UUID) (*types.Subject, error)
	CreateSubject(ctx context.Context, in SubjectInput) (*types.Subject, error)
	UpdateSubject(ctx context.Context, id uuid.UUID, in SubjectInput) (*types.Subject, error)
	DeleteSubject(ctx context.Context, id uuid.UUID) error
	ReorderSubjects(ctx context.Context, ids []uuid.UUID) error

	ListUnits(ctx context.Context, subjectID uuid.UUID) ([]*types.Unit, error)
	GetUnit(ctx context.Context, id uuid.UUID) (*types.Unit, error)
	CreateUnit(ctx context.Context, subjectID uuid.UUID, in NodeInput) (*types.Unit, error)
	UpdateUnit(ctx context.Context, id uuid.UUID, in NodeInput) (*types.Unit, error)
	DeleteUnit(ctx context.Context, id uuid.UUID) error
	ReorderUnits(ctx context.Context, subjectID uuid.UUID, ids []uuid.UUID) error

	ListChapters(ctx context.Context, unitID uuid.UUID) ([]*types.Chapter, error)
	GetChapter(ctx context.Context, id uuid.UUID) (*types.Chapter, error)
	CreateChapter(ctx context.Context, unitID uuid.UUID, in NodeInput) (*types.Chapter, error)
	UpdateChapter(ctx context.Context, id uuid.UUID, in NodeInput) (*types.Chapter, error)
	DeleteChapter(ctx context.Context, id uuid.UUID) error
	ReorderChapters(ctx context.Context, unitID uuid.UUID, ids []uuid.UUID) error

	ListLessons(ctx context.Context, chapterID uuid.UUID) ([]*types.Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error)
	CreateLesson(ctx context.Context, chapterID uuid.UUID, in NodeInput) (*types.Lesson, error)
	UpdateLesson(ctx context.Context, id uuid.UUID, in NodeInput) (*types.Lesson, error)
	// DeleteLesson cascades the lesson's activities and lesson plan.
	DeleteLesson(ctx context.Context, id uuid.UUID) error
	ReorderLessons(ctx context.Context, chapterID uuid.UUID, ids []uuid.UUID) error
}

type curriculumService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjects    repos.SubjectRepo
	units       repos.UnitRepo
	chapters    repos.ChapterRepo
	lessons     repos.LessonRepo
	activities  ActivityService
	lessonPlans LessonPlanService
}

func NewCurriculumService(
	db *gorm.DB,
	log *logger.Logger,
	subjects repos.SubjectRepo,
	units repos.UnitRepo,
	chapters repos.ChapterRepo,
	lessons repos.LessonRepo,
	activities ActivityService,
	lessonPlans LessonPlanService,
) CurriculumService {
	return &curriculumService{
		db:          db,
		log:         log.With("service", "CurriculumService"),
		subjects:    subjects,
		units:       units,
		chapters:    chapters,
		lessons:     lessons,
		activities:  activities,
		lessonPlans: lessonPlans,
	}
}

func (s *curriculumService) tx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// newOrders reorders rows to follow ids and returns the dense base-1 order of each row.
func newOrders[T any](rows []*T, ids []uuid.UUID, idOf func(*T) uuid.UUID, set func(*T, int)) (map[uuid.UUID]int, error) {
	sorted, err := ordering.Reorder(rows, ids, idOf)
	if err != nil {
		return nil, apierr.BadRequest("invalid_order", err.Error())
	}
	out := make(map[uuid.UUID]int, len(sorted))
	ordering.Renumber(sorted, ordering.BaseOne, func(r *T, n int) {
		set(r, n)
		out[idOf(r)] = n
	})
	return out, nil
}

// currentOrders closes gaps left by a delete.
func currentOrders[T any](rows []*T, idOf func(*T) uuid.UUID) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(rows))
	for i, r := range rows {
		out[idOf(r)] = i + ordering.BaseOne
	}
	return out
}

func notFound(what string) error {
	return apierr.NotFound(what+"_not_found", what+" not found")
}

func hasChildren(what, child string, n int64) error {
	return apierr.Conflict(what+"_has_children", fmt.Sprintf("%s still has %d %s", what, n, child))
}

func idOfSubject(r *types.Subject) uuid.UUID { return r.ID }
func idOfUnit(r *types.Unit) uuid.UUID       { return r.ID }
func idOfChapter(r *types.Chapter) uuid.UUID { return r.ID }
func idOfLesson(r *types.Lesson) uuid.UUID   { return r.ID }

func (s *curriculumService) ListSubjects(ctx context.Context) ([]*types.Subject, error) {
	return s.subjects.List(dbctx.Context{Ctx: ctx})
}

func (s *curriculumService) GetSubject(ctx context.Context, id uuid.UUID) (*types.Subject, error) {
	row, err := s.subjects.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}
	if row == nil {
		return nil, notFound("subject")
	}
	return row, nil
}

func (s *curriculumService) CreateSubject(ctx context.Context, in SubjectInput) (*types.Subject, error) {
	if err := validateStruct("invalid_subject", &in); err != nil {
		return nil, err
	}
	var out *types.Subject
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		n, err := s.subjects.Count(dbc)
		if err != nil {
			return fmt.Errorf("count subjects: %w", err)
		}
		out, err = s.subjects.Create(dbc, &types.Subject{
			ID:          uuid.New(),
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Order:       int(n) + ordering.BaseOne,
			Published:   publishedOrNo(in.Published),
		})
		return err
	})
	return out, err
}

func (s *curriculumService) UpdateSubject(ctx context.Context, id uuid.UUID, in SubjectInput) (*types.Subject, error) {
	if err := validateStruct("invalid_subject", &in); err != nil {
		return nil, err
	}
	var out *types.Subject
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.subjects.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get subject: %w", err)
		}
		if row == nil {
			return notFound("subject")
		}
		row.Name = strings.TrimSpace(in.Name)
		row.Description = in.Description
		if in.Published != "" {
			row.Published = in.Published
		}
		out = row
		return s.subjects.Update(dbc, row)
	})
	return out, err
}

func (s *curriculumService) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	return s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.subjects.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get subject: %w", err)
		}
		if row == nil {
			return notFound("subject")
		}
		n, err := s.units.CountBySubject(dbc, id)
		if err != nil {
			return fmt.Errorf("count units: %w", err)
		}
		if n > 0 {
			return hasChildren("subject", "units", n)
		}
		if err := s.subjects.Delete(dbc, id); err != nil {
			return fmt.Errorf("delete subject: %w", err)
		}
		rest, err := s.subjects.List(dbc)
		if err != nil {
			return fmt.Errorf("list subjects: %w", err)
		}
		return s.subjects.UpdateOrders(dbc, currentOrders(rest, idOfSubject))
	})
}

func (s *curriculumService) ReorderSubjects(ctx context.Context, ids []uuid.UUID) error {
	return s.tx(ctx, func(dbc dbctx.Context) error {
		rows, err := s.subjects.List(dbc)
		if err != nil {
			return fmt.Errorf("list subjects: %w", err)
		}
		orders, err := newOrders(rows, ids, idOfSubject, func(r *types.Subject, n int) { r.Order = n })
		if err != nil {
			return err
		}
		return s.subjects.UpdateOrders(dbc, orders)
	})
}

func (s *curriculumService) ListUnits(ctx context.Context, subjectID uuid.UUID) ([]*types.Unit, error) {
	if _, err := s.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.units.ListBySubject(dbctx.Context{Ctx: ctx}, subjectID)
}

func (s *curriculumService) GetUnit(ctx context.Context, id uuid.UUID) (*types.Unit, error) {
	row, err := s.units.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}
	if row == nil {
		return nil, notFound("unit")
	}
	return row, nil
}

func (s *curriculumService) CreateUnit(ctx context.Context, subjectID uuid.UUID, in NodeInput) (*types.Unit, error) {
	if err := validateStruct("invalid_unit", &in); err != nil {
		return nil, err
	}
	var out *types.Unit
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		parent, err := s.subjects.GetByID(dbc, subjectID)
		if err != nil {
			return fmt.Errorf("get subject: %w", err)
		}
		if parent == nil {
			return notFound("subject")
		}
		n, err := s.units.CountBySubject(dbc, subjectID)
		if err != nil {
			return fmt.Errorf("count units: %w", err)
		}
		out, err = s.units.Create(dbc, &types.Unit{
			ID:        uuid.New(),
			SubjectID: subjectID,
			Name:      strings.TrimSpace(in.Name),
			Order:     int(n) + ordering.BaseOne,
			Published: publishedOrNo(in.Published),
		})
		return err
	})
	return out, err
}

func (s *curriculumService) UpdateUnit(ctx context.Context, id uuid.UUID, in NodeInput) (*types.Unit, error) {
	if err := validateStruct("invalid_unit", &in); err != nil {
		return nil, err
	}
	var out *types.Unit
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.units.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get unit: %w", err)
		}
		if row == nil {
			return notFound("unit")
		}
		row.Name = strings.TrimSpace(in.Name)
		if in.Published != "" {
			row.Published = in.Published
		}
		out = row
		return s.units.Update(dbc, row)
	})
	return out, err
}

func (s *curriculumService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.units.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get unit: %w", err)
		}
		if row == nil {
			return notFound("unit")
		}
		n, err := s.chapters.CountByUnit(dbc, id)
		if err != nil {
			return fmt.Errorf("count chapters: %w", err)
		}
		if n > 0 {
			return hasChildren("unit", "chapters", n)
		}
		if err := s.units.Delete(dbc, id); err != nil {
			return fmt.Errorf("delete unit: %w", err)
		}
		rest, err := s.units.ListBySubject(dbc, row.SubjectID)
		if err != nil {
			return fmt.Errorf("list units: %w", err)
		}
		return s.units.UpdateOrders(dbc, currentOrders(rest, idOfUnit))
	})
}

func (s *curriculumService) ReorderUnits(ctx context.Context, subjectID uuid.UUID, ids []uuid.UUID) error {
	return s.tx(ctx, func(dbc dbctx.Context) error {
		rows, err := s.units.ListBySubject(dbc, subjectID)
		if err != nil {
			return fmt.Errorf("list units: %w", err)
		}
		orders, err := newOrders(rows, ids, idOfUnit, func(r *types.Unit, n int) { r.Order = n })
		if err != nil {
			return err
		}
		return s.units.UpdateOrders(dbc, orders)
	})
}

func (s *curriculumService) ListChapters(ctx context.Context, unitID uuid.UUID) ([]*types.Chapter, error) {
	if _, err := s.GetUnit(ctx, unitID); err != nil {
		return nil, err
	}
	return s.chapters.ListByUnit(dbctx.Context{Ctx: ctx}, unitID)
}

func (s *curriculumService) GetChapter(ctx context.Context, id uuid.UUID) (*types.Chapter, error) {
	row, err := s.chapters.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	if row == nil {
		return nil, notFound("chapter")
	}
	return row, nil
}

func (s *curriculumService) CreateChapter(ctx context.Context, unitID uuid.UUID, in NodeInput) (*types.Chapter, error) {
	if err := validateStruct("invalid_chapter", &in); err != nil {
		return nil, err
	}
	var out *types.Chapter
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		parent, err := s.units.GetByID(dbc, unitID)
		if err != nil {
			return fmt.Errorf("get unit: %w", err)
		}
		if parent == nil {
			return notFound("unit")
		}
		n, err := s.chapters.CountByUnit(dbc, unitID)
		if err != nil {
			return fmt.Errorf("count chapters: %w", err)
		}
		out, err = s.chapters.Create(dbc, &types.Chapter{
			ID:        uuid.New(),
			UnitID:    unitID,
			Name:      strings.TrimSpace(in.Name),
			Order:     int(n) + ordering.BaseOne,
			Published: publishedOrNo(in.Published),
		})
		return err
	})
	return out, err
}

func (s *curriculumService) UpdateChapter(ctx context.Context, id uuid.UUID, in NodeInput) (*types.Chapter, error) {
	if err := validateStruct("invalid_chapter", &in); err != nil {
		return nil, err
	}
	var out *types.Chapter
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.chapters.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get chapter: %w", err)
		}
		if row == nil {
			return notFound("chapter")
		}
		row.Name = strings.TrimSpace(in.Name)
		if in.Published != "" {
			row.Published = in.Published
		}
		out = row
		return s.chapters.Update(dbc, row)
	})
	return out, err
}

func (s *curriculumService) DeleteChapter(ctx context.Context, id uuid.UUID) error {
	return s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.chapters.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get chapter: %w", err)
		}
		if row == nil {
			return notFound("chapter")
		}
		n, err := s.lessons.CountByChapter(dbc, id)
		if err != nil {
			return fmt.Errorf("count lessons: %w", err)
		}
		if n > 0 {
			return hasChildren("chapter", "lessons", n)
		}
		if err := s.chapters.Delete(dbc, id); err != nil {
			return fmt.Errorf("delete chapter: %w", err)
		}
		rest, err := s.chapters.ListByUnit(dbc, row.UnitID)
		if err != nil {
			return fmt.Errorf("list chapters: %w", err)
		}
		return s.chapters.UpdateOrders(dbc, currentOrders(rest, idOfChapter))
	})
}

func (s *curriculumService) ReorderChapters(ctx context.Context, unitID uuid.UUID, ids []uuid.UUID) error {
	return s.tx(ctx, func(dbc dbctx.Context) error {
		rows, err := s.chapters.ListByUnit(dbc, unitID)
		if err != nil {
			return fmt.Errorf("list chapters: %w", err)
		}
		orders, err := newOrders(rows, ids, idOfChapter, func(r *types.Chapter, n int) { r.Order = n })
		if err != nil {
			return err
		}
		return s.chapters.UpdateOrders(dbc, orders)
	})
}

func (s *curriculumService) ListLessons(ctx context.Context, chapterID uuid.UUID) ([]*types.Lesson, error) {
	if _, err := s.GetChapter(ctx, chapterID); err != nil {
		return nil, err
	}
	return s.lessons.ListByChapter(dbctx.Context{Ctx: ctx}, chapterID)
}

func (s *curriculumService) GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	row, err := s.lessons.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if row == nil {
		return nil, notFound("lesson")
	}
	return row, nil
}

func (s *curriculumService) CreateLesson(ctx context.Context, chapterID uuid.UUID, in NodeInput) (*types.Lesson, error) {
	if err := validateStruct("invalid_lesson", &in); err != nil {
		return nil, err
	}
	var out *types.Lesson
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		parent, err := s.chapters.GetByID(dbc, chapterID)
		if err != nil {
			return fmt.Errorf("get chapter: %w", err)
		}
		if parent == nil {
			return notFound("chapter")
		}
		n, err := s.lessons.CountByChapter(dbc, chapterID)
		if err != nil {
			return fmt.Errorf("count lessons: %w", err)
		}
		out, err = s.lessons.Create(dbc, &types.Lesson{
			ID:        uuid.New(),
			ChapterID: chapterID,
			Name:      strings.TrimSpace(in.Name),
			Order:     int(n) + ordering.BaseOne,
			Published: publishedOrNo(in.Published),
		})
		return err
	})
	return out, err
}

func (s *curriculumService) UpdateLesson(ctx context.Context, id uuid.UUID, in NodeInput) (*types.Lesson, error) {
	if err := validateStruct("invalid_lesson", &in); err != nil {
		return nil, err
	}
	var out *types.Lesson
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.lessons.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get lesson: %w", err)
		}
		if row == nil {
			return notFound("lesson")
		}
		row.Name = strings.TrimSpace(in.Name)
		if in.Published != "" {
			row.Published = in.Published
		}
		out = row
		return s.lessons.Update(dbc, row)
	})
	return out, err
}

func (s *curriculumService) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	err := s.tx(ctx, func(dbc dbctx.Context) error {
		row, err := s.lessons.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get lesson: %w", err)
		}
		if row == nil {
			return notFound("lesson")
		}
		if err := s.lessonPlans.DeleteForLessons(dbc, []uuid.UUID{id}); err != nil {
			return err
		}
		if err := s.activities.DeleteLessonActivities(dbc, []uuid.UUID{id}); err != nil {
			return err
		}
		if err := s.lessons.Delete(dbc, id); err != nil {
			return fmt.Errorf("delete lesson: %w", err)
		}
		rest, err := s.lessons.ListByChapter(dbc, row.ChapterID)
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		return s.lessons.UpdateOrders(dbc, currentOrders(rest, idOfLesson))
	})
	if err != nil {
		return err
	}
	s.log.Info("lesson deleted", "lesson_id", id)
	return nil
}

func (s *curriculumService) ReorderLessons(ctx context.Context, chapterID uuid.UUID, ids []uuid.UUID) error {
	return s.tx(ctx, func(dbc dbctx.Context) error {
		rows, err := s.lessons.ListByChapter(dbc, chapterID)
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		orders, err := newOrders(rows, ids, idOfLesson, func(r *types.Lesson, n int) { r.Order = n })
		if err != nil {
			return err
		}
		return s.lessons.UpdateOrders(dbc, orders)
	})
}
