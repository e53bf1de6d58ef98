package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/curriculum"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/pkg/ordering"
	"github.com/PelicanED-online/pelicaned-backend/internal/pkg/tablebuilder"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
)

// LessonActivities is a lesson's activities with their typed children.
// ActivityTypes is keyed by activity id, Details by activity-type id.
type LessonActivities struct {
	LessonID      uuid.UUID                          `json:"lesson_id"`
	Activities    []*types.Activity                  `json:"activities"`
	ActivityTypes map[uuid.UUID][]types.ActivityType `json:"activity_types"`
	Details       map[uuid.UUID]types.Content        `json:"details"`
}

type ActivityService interface {
	LoadLesson(ctx context.Context, lessonID uuid.UUID) (*LessonActivities, error)
	// SaveLesson persists in as the complete activity list of the lesson and returns the reloaded lesson.
	SaveLesson(ctx context.Context, lessonID uuid.UUID, in *LessonActivities) (*LessonActivities, error)
	DeleteActivity(ctx context.Context, activityID uuid.UUID) error
	// DeleteLessonActivities cascades every activity of the given lessons. It runs inside dbc.Tx.
	DeleteLessonActivities(dbc dbctx.Context, lessonIDs []uuid.UUID) error
	ValidateDetail(detail types.Content) error
	DecodeDetail(kind types.Kind, raw json.RawMessage) (types.Content, error)
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	lessonRepo   repos.LessonRepo
	activityRepo repos.ActivityRepo
	contents     repos.ContentRepos
	directions   repos.DirectionRepo
	media        media.Store
	metrics      *observability.Metrics
}

func NewActivityService(
	db *gorm.DB,
	log *logger.Logger,
	lessonRepo repos.LessonRepo,
	activityRepo repos.ActivityRepo,
	contents repos.ContentRepos,
	directions repos.DirectionRepo,
	mediaStore media.Store,
	metrics *observability.Metrics,
) ActivityService {
	return &activityService{
		db:           db,
		log:          log.With("service", "ActivityService"),
		lessonRepo:   lessonRepo,
		activityRepo: activityRepo,
		contents:     contents,
		directions:   directions,
		media:        mediaStore,
		metrics:      metrics,
	}
}

func (s *activityService) LoadLesson(ctx context.Context, lessonID uuid.UUID) (*LessonActivities, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireLesson(dbc, lessonID); err != nil {
		return nil, err
	}
	out, err := s.load(dbc, lessonID)
	if err != nil {
		s.log.Error("load lesson activities failed", "lesson_id", lessonID, "error", err)
		return nil, err
	}
	s.signImages(ctx, out)
	return out, nil
}

func (s *activityService) requireLesson(dbc dbctx.Context, lessonID uuid.UUID) error {
	lesson, err := s.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return apierr.NotFound("lesson_not_found", "lesson not found")
	}
	return nil
}

// load fetches the activity tables concurrently outside a transaction and sequentially inside one.
func (s *activityService) load(dbc dbctx.Context, lessonID uuid.UUID) (*LessonActivities, error) {
	activities, err := s.activityRepo.ListByLesson(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}

	rows := make([][]types.Content, len(curriculum.Kinds))
	if len(ids) > 0 {
		if dbc.Tx == nil {
			g, gctx := errgroup.WithContext(dbc.Ctx)
			for i, kind := range curriculum.Kinds {
				i, repo := i, s.contents[kind]
				g.Go(func() error {
					list, err := repo.ListByActivities(dbctx.Context{Ctx: gctx}, ids)
					if err != nil {
						return err
					}
					rows[i] = list
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, fmt.Errorf("load activity types: %w", err)
			}
		} else {
			for i, kind := range curriculum.Kinds {
				list, err := s.contents[kind].ListByActivities(dbc, ids)
				if err != nil {
					return nil, fmt.Errorf("load activity types: %w", err)
				}
				rows[i] = list
			}
		}
	}

	out := &LessonActivities{
		LessonID:      lessonID,
		Activities:    activities,
		ActivityTypes: make(map[uuid.UUID][]types.ActivityType, len(activities)),
		Details:       map[uuid.UUID]types.Content{},
	}
	for _, a := range activities {
		out.ActivityTypes[a.ID] = []types.ActivityType{}
	}
	for i, kind := range curriculum.Kinds {
		AssembleActivityTypes(out, kind, rows[i])
	}
	for id := range out.ActivityTypes {
		list := out.ActivityTypes[id]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	}
	return out, nil
}

// AssembleActivityTypes adds one table's rows to out. A row without a stored order takes its
// position among that table's rows for the same activity.
func AssembleActivityTypes(out *LessonActivities, kind types.Kind, rows []types.Content) {
	position := map[uuid.UUID]int{}
	for _, row := range rows {
		parent := row.ParentID()
		if _, ok := out.ActivityTypes[parent]; !ok {
			continue
		}
		pos := position[parent]
		position[parent] = pos + 1
		order := pos
		if p := row.Position(); p != nil {
			order = *p
		}
		at := types.ActivityType{ID: row.ContentID(), ActivityID: parent, Type: kind, Order: order}
		out.ActivityTypes[parent] = append(out.ActivityTypes[parent], at)
		out.Details[at.ID] = row
	}
}

func (s *activityService) signImages(ctx context.Context, out *LessonActivities) {
	if s.media == nil {
		return
	}
	for _, d := range out.Details {
		img, ok := d.(*types.Image)
		if !ok || img.ImageKey == "" {
			continue
		}
		u, err := s.media.SignedURL(ctx, img.ImageKey)
		if err != nil {
			s.log.Warn("sign image url failed", "image_id", img.ID, "error", err)
			continue
		}
		img.URL = u
	}
}

func (s *activityService) SaveLesson(ctx context.Context, lessonID uuid.UUID, in *LessonActivities) (*LessonActivities, error) {
	if in == nil {
		in = &LessonActivities{}
	}
	if in.ActivityTypes == nil {
		in.ActivityTypes = map[uuid.UUID][]types.ActivityType{}
	}
	if err := s.validateInput(in); err != nil {
		s.metrics.IncActivitySave("invalid")
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.requireLesson(dbc, lessonID); err != nil {
			return err
		}
		return s.save(dbc, lessonID, in)
	})
	if err != nil {
		if _, ok := apierr.As(err); !ok {
			s.log.Error("save lesson activities failed", "lesson_id", lessonID, "error", err)
		}
		s.metrics.IncActivitySave("error")
		return nil, err
	}
	s.metrics.IncActivitySave("ok")
	return s.LoadLesson(ctx, lessonID)
}

func (s *activityService) save(dbc dbctx.Context, lessonID uuid.UUID, in *LessonActivities) error {
	ordering.Renumber(in.Activities, ordering.BaseOne, func(a *types.Activity, o int) { a.Order = o })

	persisted, err := s.activityRepo.ListIDsByLesson(dbc, lessonID)
	if err != nil {
		return fmt.Errorf("list persisted activities: %w", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(persisted))
	for _, id := range persisted {
		owned[id] = struct{}{}
	}

	present := make(map[uuid.UUID]struct{}, len(in.Activities))
	for _, a := range in.Activities {
		key := a.ID
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.LessonID = lessonID
		if !a.Published.Valid() {
			a.Published = types.PublishedNo
		}
		present[a.ID] = struct{}{}

		existing, err := s.activityRepo.GetByID(dbc, a.ID)
		if err != nil {
			return fmt.Errorf("check activity %s: %w", a.ID, err)
		}
		if existing != nil && existing.LessonID != lessonID {
			return apierr.Conflict("activity_not_in_lesson", fmt.Sprintf("activity %s belongs to another lesson", a.ID))
		}
		if existing != nil {
			err = s.activityRepo.Update(dbc, a)
		} else {
			_, err = s.activityRepo.Create(dbc, a)
		}
		if err != nil {
			return fmt.Errorf("save activity %s: %w", a.ID, err)
		}

		children := in.ActivityTypes[key]
		refs := make([]*types.ActivityType, len(children))
		for i := range children {
			refs[i] = &children[i]
		}
		ordering.Renumber(refs, ordering.BaseZero, func(t *types.ActivityType, o int) { t.Order = o })

		keep := map[types.Kind][]uuid.UUID{}
		for _, at := range refs {
			detail := in.Details[at.ID]
			if at.ID == uuid.Nil {
				at.ID = detail.ContentID()
				if at.ID == uuid.Nil {
					at.ID = uuid.New()
				}
			}
			at.ActivityID = a.ID
			detail.SetContentID(at.ID)
			detail.SetParentID(a.ID)
			detail.SetPosition(at.Order)

			repo, err := s.contents.Get(at.Type)
			if err != nil {
				return apierr.New(http.StatusBadRequest, "invalid_activity_type", err)
			}
			owner, err := repo.OwnerOf(dbc, at.ID)
			if err != nil {
				return err
			}
			if _, ok := owned[owner]; owner != uuid.Nil && owner != a.ID && !ok {
				return apierr.Conflict("activity_type_not_in_lesson", fmt.Sprintf("%s %s belongs to another lesson", at.Type, at.ID))
			}
			if err := repo.Save(dbc, detail); err != nil {
				return fmt.Errorf("save %s %s: %w", at.Type, at.ID, err)
			}
			keep[at.Type] = append(keep[at.Type], at.ID)
		}
		if key != a.ID {
			delete(in.ActivityTypes, key)
		}
		in.ActivityTypes[a.ID] = children

		for _, kind := range curriculum.Kinds {
			if err := s.contents[kind].DeleteExcept(dbc, a.ID, keep[kind]); err != nil {
				return fmt.Errorf("prune %s of activity %s: %w", kind, a.ID, err)
			}
		}
	}

	var orphans []uuid.UUID
	for _, id := range persisted {
		if _, ok := present[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) > 0 {
		s.log.Info("deleting orphaned activities", "lesson_id", lessonID, "count", len(orphans))
	}
	return s.cascade(dbc, orphans)
}

// cascade deletes every child row of the activities, then the activities.
func (s *activityService) cascade(dbc dbctx.Context, activityIDs []uuid.UUID) error {
	if len(activityIDs) == 0 {
		return nil
	}
	for _, kind := range curriculum.Kinds {
		if err := s.contents[kind].DeleteByActivities(dbc, activityIDs); err != nil {
			return err
		}
	}
	if s.directions != nil {
		if err := s.directions.ClearActivityRefs(dbc, activityIDs); err != nil {
			return fmt.Errorf("clear direction activity refs: %w", err)
		}
	}
	if err := s.activityRepo.DeleteByIDs(dbc, activityIDs); err != nil {
		return fmt.Errorf("delete activities: %w", err)
	}
	return nil
}

func (s *activityService) DeleteActivity(ctx context.Context, activityID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := s.activityRepo.Exists(dbc, activityID)
		if err != nil {
			return fmt.Errorf("check activity: %w", err)
		}
		if !exists {
			return apierr.NotFound("activity_not_found", "activity not found")
		}
		return s.cascade(dbc, []uuid.UUID{activityID})
	})
}

func (s *activityService) DeleteLessonActivities(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	ids, err := s.activityRepo.ListIDsByLessons(dbc, lessonIDs)
	if err != nil {
		return fmt.Errorf("list lesson activities: %w", err)
	}
	return s.cascade(dbc, ids)
}

// validateInput checks the whole payload before anything is written.
func (s *activityService) validateInput(in *LessonActivities) error {
	seen := map[uuid.UUID]struct{}{}
	for i, a := range in.Activities {
		if a == nil {
			return apierr.BadRequest("invalid_activity", fmt.Sprintf("activity %d is empty", i))
		}
		if a.Published != "" && !a.Published.Valid() {
			return apierr.BadRequest("invalid_activity", fmt.Sprintf("activity %d: published must be Yes or No", i))
		}
		vocab := 0
		for j, at := range in.ActivityTypes[a.ID] {
			if !at.Type.Valid() {
				return apierr.BadRequest("invalid_activity_type", fmt.Sprintf("activity %d child %d: unknown type %q", i, j, at.Type))
			}
			if at.ID != uuid.Nil {
				if _, dup := seen[at.ID]; dup {
					return apierr.BadRequest("invalid_activity_type", fmt.Sprintf("duplicate activity type id %s", at.ID))
				}
				seen[at.ID] = struct{}{}
			}
			detail := in.Details[at.ID]
			if detail == nil {
				return apierr.BadRequest("invalid_activity_type", fmt.Sprintf("activity %d child %d: missing %s detail", i, j, at.Type))
			}
			if detail.Kind() != at.Type {
				return apierr.BadRequest("invalid_activity_type", fmt.Sprintf("activity %d child %d: detail is %s, want %s", i, j, detail.Kind(), at.Type))
			}
			if at.Type == types.KindVocabulary {
				vocab++
				if vocab > 1 {
					return apierr.BadRequest("invalid_activity_type", fmt.Sprintf("activity %d: at most one vocabulary entry per activity", i))
				}
			}
			if err := s.ValidateDetail(detail); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *activityService) ValidateDetail(detail types.Content) error {
	if detail == nil {
		return apierr.BadRequest("invalid_detail", "detail is required")
	}
	if err := validateStruct("invalid_detail", detail); err != nil {
		return err
	}
	switch d := detail.(type) {
	case *types.Question:
		return validateQuestion(d)
	case *types.GraphicOrganizer:
		if _, err := tablebuilder.Parse(d.Table); err != nil {
			return apierr.New(http.StatusBadRequest, "invalid_detail", fmt.Errorf("graphic organizer table: %w", err))
		}
	}
	return nil
}

func validateQuestion(q *types.Question) error {
	var opts []curriculum.AnswerOption
	if len(q.AnswerOptions) > 0 {
		if err := json.Unmarshal(q.AnswerOptions, &opts); err != nil {
			return apierr.BadRequest("invalid_detail", "answerOptions must be a list of {text, correct}")
		}
	}
	switch q.QuestionType {
	case curriculum.QuestionTypeMultipleChoice:
		if len(opts) < 2 {
			return apierr.BadRequest("invalid_detail", "multiple choice questions need at least 2 answer options")
		}
		correct := 0
		for _, o := range opts {
			if err := validateStruct("invalid_detail", &o); err != nil {
				return err
			}
			if o.Correct {
				correct++
			}
		}
		if correct == 0 {
			return apierr.BadRequest("invalid_detail", "multiple choice questions need a correct answer")
		}
	case curriculum.QuestionTypeTwoPart:
		if q.PartBText == nil || *q.PartBText == "" {
			return apierr.BadRequest("invalid_detail", "two part questions need part B text")
		}
	}
	return nil
}

func (s *activityService) DecodeDetail(kind types.Kind, raw json.RawMessage) (types.Content, error) {
	repo, err := s.contents.Get(kind)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_activity_type", err)
	}
	detail := repo.NewDetail()
	if len(raw) == 0 {
		return nil, apierr.BadRequest("invalid_detail", fmt.Sprintf("%s detail is required", kind))
	}
	if err := json.Unmarshal(raw, detail); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, apierr.BadRequest("invalid_detail", "detail is not valid JSON")
		}
		return nil, apierr.New(http.StatusBadRequest, "invalid_detail", err)
	}
	return detail, nil
}
