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
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
)

type SectionView struct {
	*types.Section
	Name       string             `json:"name"`
	Directions []*types.Direction `json:"directions"`
}

type LessonPlanView struct {
	Plan     *types.LessonPlan `json:"lesson_plan"`
	Sections []*SectionView    `json:"sections"`
}

type LessonPlanInput struct {
	Title     string          `json:"title" validate:"max=255"`
	Published types.Published `json:"published" validate:"omitempty,oneof=Yes No"`
}

// SectionInput names the section by lookup id or by name; a new name is added to the lookup.
type SectionInput struct {
	SectionNameID *uuid.UUID      `json:"section_name_id"`
	SectionName   string          `json:"section_name" validate:"max=100"`
	Published     types.Published `json:"published" validate:"omitempty,oneof=Yes No"`
}

type DirectionInput struct {
	Minutes    int             `json:"minutes" validate:"min=0,max=600"`
	FocusID    *uuid.UUID      `json:"focus_id"`
	ActivityID *uuid.UUID      `json:"activity_id"`
	Directions string          `json:"directions" validate:"required"`
	Support    string          `json:"support"`
	Answers    string          `json:"answers"`
	SlideKey   *string         `json:"slide_key"`
	Published  types.Published `json:"published" validate:"omitempty,oneof=Yes No"`
}

type LessonPlanService interface {
	// GetPlan returns the plan of a lesson, creating an empty one on first access.
	GetPlan(ctx context.Context, lessonID uuid.UUID) (*LessonPlanView, error)
	UpdatePlan(ctx context.Context, lessonID uuid.UUID, in LessonPlanInput) (*types.LessonPlan, error)

	CreateSection(ctx context.Context, lessonID uuid.UUID, in SectionInput) (*types.Section, error)
	UpdateSection(ctx context.Context, sectionID uuid.UUID, in SectionInput) (*types.Section, error)
	DeleteSection(ctx context.Context, sectionID uuid.UUID) error
	ReorderSections(ctx context.Context, lessonID uuid.UUID, ids []uuid.UUID) error

	CreateDirection(ctx context.Context, sectionID uuid.UUID, in DirectionInput) (*types.Direction, error)
	UpdateDirection(ctx context.Context, directionID uuid.UUID, in DirectionInput) (*types.Direction, error)
	DeleteDirection(ctx context.Context, directionID uuid.UUID) error
	ReorderDirections(ctx context.Context, sectionID uuid.UUID, ids []uuid.UUID) error

	ListSectionNames(ctx context.Context) ([]*types.SectionName, error)
	CreateSectionName(ctx context.Context, name string) (*types.SectionName, error)
	ListFocuses(ctx context.Context) ([]*types.Focus, error)
	CreateFocus(ctx context.Context, name string) (*types.Focus, error)

	// DeleteForLessons removes the plans of the given lessons. It runs inside dbc.Tx.
	DeleteForLessons(dbc dbctx.Context, lessonIDs []uuid.UUID) error
}

type lessonPlanService struct {
	db         *gorm.DB
	log        *logger.Logger
	lessons    repos.LessonRepo
	activities repos.ActivityRepo
	plans      repos.LessonPlanRepo
	sections   repos.SectionRepo
	directions repos.DirectionRepo
	lookups    repos.LookupRepo
	media      media.Store
}

func NewLessonPlanService(
	db *gorm.DB,
	log *logger.Logger,
	lessons repos.LessonRepo,
	activities repos.ActivityRepo,
	plans repos.LessonPlanRepo,
	sections repos.SectionRepo,
	directions repos.DirectionRepo,
	lookups repos.LookupRepo,
	mediaStore media.Store,
) LessonPlanService {
	return &lessonPlanService{
		db:         db,
		log:        log.With("service", "LessonPlanService"),
		lessons:    lessons,
		activities: activities,
		plans:      plans,
		sections:   sections,
		directions: directions,
		lookups:    lookups,
		media:      mediaStore,
	}
}

func (s *lessonPlanService) planFor(dbc dbctx.Context, lessonID uuid.UUID) (*types.LessonPlan, error) {
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, apierr.NotFound("lesson_not_found", "lesson not found")
	}
	plan, err := s.plans.GetByLesson(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson plan: %w", err)
	}
	if plan != nil {
		return plan, nil
	}
	plan, err = s.plans.Create(dbc, &types.LessonPlan{ID: uuid.New(), LessonID: lessonID, Title: lesson.Name, Published: types.PublishedNo})
	if err != nil {
		return nil, fmt.Errorf("create lesson plan: %w", err)
	}
	return plan, nil
}

func (s *lessonPlanService) GetPlan(ctx context.Context, lessonID uuid.UUID) (*LessonPlanView, error) {
	var out *LessonPlanView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		plan, err := s.planFor(dbc, lessonID)
		if err != nil {
			return err
		}
		sections, err := s.sections.ListByPlan(dbc, plan.ID)
		if err != nil {
			return fmt.Errorf("list sections: %w", err)
		}
		names, err := s.lookups.ListSectionNames(dbc)
		if err != nil {
			return fmt.Errorf("list section names: %w", err)
		}
		nameByID := make(map[uuid.UUID]string, len(names))
		for _, n := range names {
			nameByID[n.ID] = n.Name
		}
		ids := make([]uuid.UUID, 0, len(sections))
		for _, sec := range sections {
			ids = append(ids, sec.ID)
		}
		dirs, err := s.directions.ListBySections(dbc, ids)
		if err != nil {
			return fmt.Errorf("list directions: %w", err)
		}
		bySection := make(map[uuid.UUID][]*types.Direction, len(sections))
		for _, d := range dirs {
			bySection[d.SectionID] = append(bySection[d.SectionID], d)
		}

		out = &LessonPlanView{Plan: plan, Sections: make([]*SectionView, 0, len(sections))}
		for _, sec := range sections {
			list := bySection[sec.ID]
			if list == nil {
				list = []*types.Direction{}
			}
			out.Sections = append(out.Sections, &SectionView{Section: sec, Name: nameByID[sec.SectionNameID], Directions: list})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, sec := range out.Sections {
		for _, d := range sec.Directions {
			s.signSlide(ctx, d)
		}
	}
	return out, nil
}

func (s *lessonPlanService) signSlide(ctx context.Context, d *types.Direction) {
	if d.SlideKey == nil || *d.SlideKey == "" || s.media == nil {
		return
	}
	u, err := s.media.SignedURL(ctx, *d.SlideKey)
	if err != nil {
		s.log.Warn("failed to sign slide url", "direction_id", d.ID, "error", err)
		return
	}
	d.SlideURL = u
}

func (s *lessonPlanService) UpdatePlan(ctx context.Context, lessonID uuid.UUID, in LessonPlanInput) (*types.LessonPlan, error) {
	if err := validateStruct("invalid_lesson_plan", &in); err != nil {
		return nil, err
	}
	var out *types.LessonPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		plan, err := s.planFor(dbc, lessonID)
		if err != nil {
			return err
		}
		plan.Title = strings.TrimSpace(in.Title)
		if in.Published != "" {
			plan.Published = in.Published
		}
		if err := s.plans.Update(dbc, plan); err != nil {
			return fmt.Errorf("update lesson plan: %w", err)
		}
		out = plan
		return nil
	})
	return out, err
}

func (s *lessonPlanService) resolveSectionName(dbc dbctx.Context, in SectionInput) (uuid.UUID, error) {
	if in.SectionNameID != nil {
		n, err := s.lookups.GetSectionName(dbc, *in.SectionNameID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("get section name: %w", err)
		}
		if n == nil {
			return uuid.Nil, apierr.BadRequest("invalid_section", "section name not found")
		}
		return n.ID, nil
	}
	if strings.TrimSpace(in.SectionName) == "" {
		return uuid.Nil, apierr.BadRequest("invalid_section", "section_name_id or section_name is required")
	}
	n, err := s.lookups.EnsureSectionName(dbc, in.SectionName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ensure section name: %w", err)
	}
	return n.ID, nil
}

func (s *lessonPlanService) CreateSection(ctx context.Context, lessonID uuid.UUID, in SectionInput) (*types.Section, error) {
	if err := validateStruct("invalid_section", &in); err != nil {
		return nil, err
	}
	var out *types.Section
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		plan, err := s.planFor(dbc, lessonID)
		if err != nil {
			return err
		}
		nameID, err := s.resolveSectionName(dbc, in)
		if err != nil {
			return err
		}
		existing, err := s.sections.ListByPlan(dbc, plan.ID)
		if err != nil {
			return fmt.Errorf("list sections: %w", err)
		}
		row := &types.Section{
			ID:            uuid.New(),
			LessonPlanID:  plan.ID,
			SectionNameID: nameID,
			Order:         len(existing) + ordering.BaseOne,
			Published:     publishedOrNo(in.Published),
		}
		if out, err = s.sections.Create(dbc, row); err != nil {
			return fmt.Errorf("create section: %w", err)
		}
		return nil
	})
	return out, err
}

func (s *lessonPlanService) UpdateSection(ctx context.Context, sectionID uuid.UUID, in SectionInput) (*types.Section, error) {
	if err := validateStruct("invalid_section", &in); err != nil {
		return nil, err
	}
	var out *types.Section
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		sec, err := s.requireSection(dbc, sectionID)
		if err != nil {
			return err
		}
		if in.SectionNameID != nil || strings.TrimSpace(in.SectionName) != "" {
			if sec.SectionNameID, err = s.resolveSectionName(dbc, in); err != nil {
				return err
			}
		}
		if in.Published != "" {
			sec.Published = in.Published
		}
		if err := s.sections.Update(dbc, sec); err != nil {
			return fmt.Errorf("update section: %w", err)
		}
		out = sec
		return nil
	})
	return out, err
}

func (s *lessonPlanService) requireSection(dbc dbctx.Context, id uuid.UUID) (*types.Section, error) {
	sec, err := s.sections.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	if sec == nil {
		return nil, apierr.NotFound("section_not_found", "section not found")
	}
	return sec, nil
}

func (s *lessonPlanService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		sec, err := s.requireSection(dbc, sectionID)
		if err != nil {
			return err
		}
		if err := s.directions.DeleteBySections(dbc, []uuid.UUID{sec.ID}); err != nil {
			return fmt.Errorf("delete directions: %w", err)
		}
		if err := s.sections.DeleteByIDs(dbc, []uuid.UUID{sec.ID}); err != nil {
			return fmt.Errorf("delete section: %w", err)
		}
		rest, err := s.sections.ListByPlan(dbc, sec.LessonPlanID)
		if err != nil {
			return fmt.Errorf("list sections: %w", err)
		}
		return s.sections.UpdateOrders(dbc, sectionOrders(rest))
	})
}

func (s *lessonPlanService) ReorderSections(ctx context.Context, lessonID uuid.UUID, ids []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		plan, err := s.planFor(dbc, lessonID)
		if err != nil {
			return err
		}
		rows, err := s.sections.ListByPlan(dbc, plan.ID)
		if err != nil {
			return fmt.Errorf("list sections: %w", err)
		}
		sorted, err := ordering.Reorder(rows, ids, func(r *types.Section) uuid.UUID { return r.ID })
		if err != nil {
			return apierr.BadRequest("invalid_order", err.Error())
		}
		return s.sections.UpdateOrders(dbc, sectionOrders(sorted))
	})
}

func sectionOrders(rows []*types.Section) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(rows))
	ordering.Renumber(rows, ordering.BaseOne, func(r *types.Section, n int) {
		r.Order = n
		out[r.ID] = n
	})
	return out
}

func directionOrders(rows []*types.Direction) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(rows))
	ordering.Renumber(rows, ordering.BaseOne, func(r *types.Direction, n int) {
		r.Order = n
		out[r.ID] = n
	})
	return out
}

// checkDirection validates references of a direction against the section's lesson.
func (s *lessonPlanService) checkDirection(dbc dbctx.Context, sec *types.Section, in *DirectionInput) error {
	if in.FocusID != nil {
		f, err := s.lookups.GetFocus(dbc, *in.FocusID)
		if err != nil {
			return fmt.Errorf("get focus: %w", err)
		}
		if f == nil {
			return apierr.BadRequest("invalid_direction", "focus not found")
		}
	}
	if in.ActivityID != nil {
		a, err := s.activities.GetByID(dbc, *in.ActivityID)
		if err != nil {
			return fmt.Errorf("get activity: %w", err)
		}
		plan, err := s.plans.GetByID(dbc, sec.LessonPlanID)
		if err != nil {
			return fmt.Errorf("get lesson plan: %w", err)
		}
		if a == nil || plan == nil || a.LessonID != plan.LessonID {
			return apierr.BadRequest("invalid_direction", "activity does not belong to this lesson")
		}
	}
	if in.SlideKey != nil {
		key := strings.TrimSpace(*in.SlideKey)
		if key == "" {
			in.SlideKey = nil
		} else if !strings.HasPrefix(key, media.SlidePrefix) || strings.Contains(key, "..") {
			return apierr.BadRequest("invalid_direction", "slide_key must be under "+media.SlidePrefix)
		} else {
			in.SlideKey = &key
		}
	}
	return nil
}

func (s *lessonPlanService) CreateDirection(ctx context.Context, sectionID uuid.UUID, in DirectionInput) (*types.Direction, error) {
	if err := validateStruct("invalid_direction", &in); err != nil {
		return nil, err
	}
	var out *types.Direction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		sec, err := s.requireSection(dbc, sectionID)
		if err != nil {
			return err
		}
		if err := s.checkDirection(dbc, sec, &in); err != nil {
			return err
		}
		existing, err := s.directions.ListBySections(dbc, []uuid.UUID{sec.ID})
		if err != nil {
			return fmt.Errorf("list directions: %w", err)
		}
		row := &types.Direction{ID: uuid.New(), SectionID: sec.ID, Order: len(existing) + ordering.BaseOne}
		applyDirection(row, in)
		if out, err = s.directions.Create(dbc, row); err != nil {
			return fmt.Errorf("create direction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.signSlide(ctx, out)
	return out, nil
}

func applyDirection(row *types.Direction, in DirectionInput) {
	row.Minutes = in.Minutes
	row.FocusID = in.FocusID
	row.ActivityID = in.ActivityID
	row.Directions = in.Directions
	row.Support = in.Support
	row.Answers = in.Answers
	row.SlideKey = in.SlideKey
	if in.Published != "" {
		row.Published = in.Published
	} else if row.Published == "" {
		row.Published = types.PublishedNo
	}
}

func (s *lessonPlanService) requireDirection(dbc dbctx.Context, id uuid.UUID) (*types.Direction, error) {
	d, err := s.directions.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("get direction: %w", err)
	}
	if d == nil {
		return nil, apierr.NotFound("direction_not_found", "direction not found")
	}
	return d, nil
}

func (s *lessonPlanService) UpdateDirection(ctx context.Context, directionID uuid.UUID, in DirectionInput) (*types.Direction, error) {
	if err := validateStruct("invalid_direction", &in); err != nil {
		return nil, err
	}
	var out *types.Direction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		d, err := s.requireDirection(dbc, directionID)
		if err != nil {
			return err
		}
		sec, err := s.requireSection(dbc, d.SectionID)
		if err != nil {
			return err
		}
		if err := s.checkDirection(dbc, sec, &in); err != nil {
			return err
		}
		applyDirection(d, in)
		if err := s.directions.Update(dbc, d); err != nil {
			return fmt.Errorf("update direction: %w", err)
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.signSlide(ctx, out)
	return out, nil
}

func (s *lessonPlanService) DeleteDirection(ctx context.Context, directionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		d, err := s.requireDirection(dbc, directionID)
		if err != nil {
			return err
		}
		if err := s.directions.DeleteByIDs(dbc, []uuid.UUID{d.ID}); err != nil {
			return fmt.Errorf("delete direction: %w", err)
		}
		rest, err := s.directions.ListBySections(dbc, []uuid.UUID{d.SectionID})
		if err != nil {
			return fmt.Errorf("list directions: %w", err)
		}
		return s.directions.UpdateOrders(dbc, directionOrders(rest))
	})
}

func (s *lessonPlanService) ReorderDirections(ctx context.Context, sectionID uuid.UUID, ids []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.requireSection(dbc, sectionID); err != nil {
			return err
		}
		rows, err := s.directions.ListBySections(dbc, []uuid.UUID{sectionID})
		if err != nil {
			return fmt.Errorf("list directions: %w", err)
		}
		sorted, err := ordering.Reorder(rows, ids, func(r *types.Direction) uuid.UUID { return r.ID })
		if err != nil {
			return apierr.BadRequest("invalid_order", err.Error())
		}
		return s.directions.UpdateOrders(dbc, directionOrders(sorted))
	})
}

func (s *lessonPlanService) ListSectionNames(ctx context.Context) ([]*types.SectionName, error) {
	return s.lookups.ListSectionNames(dbctx.Context{Ctx: ctx})
}

func (s *lessonPlanService) CreateSectionName(ctx context.Context, name string) (*types.SectionName, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierr.BadRequest("invalid_section_name", "name is required")
	}
	return s.lookups.EnsureSectionName(dbctx.Context{Ctx: ctx}, name)
}

func (s *lessonPlanService) ListFocuses(ctx context.Context) ([]*types.Focus, error) {
	return s.lookups.ListFocuses(dbctx.Context{Ctx: ctx})
}

func (s *lessonPlanService) CreateFocus(ctx context.Context, name string) (*types.Focus, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierr.BadRequest("invalid_focus", "name is required")
	}
	return s.lookups.EnsureFocus(dbctx.Context{Ctx: ctx}, name)
}

func (s *lessonPlanService) DeleteForLessons(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	planIDs := make([]uuid.UUID, 0, len(lessonIDs))
	for _, id := range lessonIDs {
		plan, err := s.plans.GetByLesson(dbc, id)
		if err != nil {
			return fmt.Errorf("get lesson plan: %w", err)
		}
		if plan != nil {
			planIDs = append(planIDs, plan.ID)
		}
	}
	if len(planIDs) == 0 {
		return nil
	}
	sectionIDs, err := s.sections.ListIDsByPlans(dbc, planIDs)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	if err := s.directions.DeleteBySections(dbc, sectionIDs); err != nil {
		return fmt.Errorf("delete directions: %w", err)
	}
	if err := s.sections.DeleteByIDs(dbc, sectionIDs); err != nil {
		return fmt.Errorf("delete sections: %w", err)
	}
	if err := s.plans.DeleteByLessonIDs(dbc, lessonIDs); err != nil {
		return fmt.Errorf("delete lesson plans: %w", err)
	}
	return nil
}

func publishedOrNo(p types.Published) types.Published {
	if p == "" {
		return types.PublishedNo
	}
	return p
}
