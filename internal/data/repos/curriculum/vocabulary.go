package curriculum

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/domain/curriculum"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

// VocabularyRepo stores one row per word and exposes them collapsed into one
// VocabularyList per activity.
type VocabularyRepo interface {
	ContentRepo
	ListWordsByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) ([]*curriculum.VocabularyWord, error)
}

type vocabularyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVocabularyRepo(db *gorm.DB, baseLog *logger.Logger) VocabularyRepo {
	return &vocabularyRepo{db: db, log: baseLog.With("repo", "VocabularyRepo")}
}

func (r *vocabularyRepo) Kind() curriculum.Kind { return curriculum.KindVocabulary }

func (r *vocabularyRepo) NewDetail() curriculum.Content { return &curriculum.VocabularyList{} }

func (r *vocabularyRepo) ListWordsByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) ([]*curriculum.VocabularyWord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*curriculum.VocabularyWord
	if len(activityIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("activity_id IN ?", activityIDs).
		Order("activity_id ASC").
		Order("vocab_order ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	return out, nil
}

// ListByActivities groups words by activity, sorts each group by vocab_order and collapses it
// into a single list with a freshly generated id. The list order is the smallest stored order
// of the group, or nil when none is stored.
func (r *vocabularyRepo) ListByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) ([]curriculum.Content, error) {
	words, err := r.ListWordsByActivities(dbc, activityIDs)
	if err != nil {
		return nil, err
	}
	return CollapseVocabulary(words), nil
}

// CollapseVocabulary is the grouping step of ListByActivities. Groups come out in first-seen order.
func CollapseVocabulary(words []*curriculum.VocabularyWord) []curriculum.Content {
	groups := map[uuid.UUID][]*curriculum.VocabularyWord{}
	var seen []uuid.UUID
	for _, w := range words {
		if w == nil {
			continue
		}
		if _, ok := groups[w.ActivityID]; !ok {
			seen = append(seen, w.ActivityID)
		}
		groups[w.ActivityID] = append(groups[w.ActivityID], w)
	}
	out := make([]curriculum.Content, 0, len(seen))
	for _, activityID := range seen {
		group := groups[activityID]
		sort.SliceStable(group, func(i, j int) bool { return group[i].VocabOrder < group[j].VocabOrder })
		list := &curriculum.VocabularyList{
			ID:         uuid.New(),
			ActivityID: activityID,
			Items:      make([]curriculum.VocabularyItem, 0, len(group)),
		}
		for _, w := range group {
			list.Items = append(list.Items, curriculum.VocabularyItem{Word: w.Word, Definition: w.Definition})
			if w.Order != nil && (list.Order == nil || *w.Order < *list.Order) {
				o := *w.Order
				list.Order = &o
			}
		}
		out = append(out, list)
	}
	return out
}

// Save replaces every word of the list's activity with the current items.
func (r *vocabularyRepo) Save(dbc dbctx.Context, detail curriculum.Content) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	list, ok := detail.(*curriculum.VocabularyList)
	if !ok || list == nil {
		return fmt.Errorf("save vocabulary: unexpected detail %T", detail)
	}
	if list.ActivityID == uuid.Nil {
		return fmt.Errorf("save vocabulary: missing activity id")
	}
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Where("activity_id = ?", list.ActivityID).Delete(&curriculum.VocabularyWord{}).Error; err != nil {
		return fmt.Errorf("clear vocabulary: %w", err)
	}
	if len(list.Items) == 0 {
		return nil
	}
	rows := make([]*curriculum.VocabularyWord, 0, len(list.Items))
	for i, item := range list.Items {
		row := &curriculum.VocabularyWord{
			ID:         uuid.New(),
			ActivityID: list.ActivityID,
			Word:       item.Word,
			Definition: item.Definition,
			VocabOrder: i,
		}
		if list.Order != nil {
			o := *list.Order
			row.Order = &o
		}
		rows = append(rows, row)
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert vocabulary: %w", err)
	}
	return nil
}

// OwnerOf is always uuid.Nil: list ids are generated on load and never stored.
func (r *vocabularyRepo) OwnerOf(dbc dbctx.Context, id uuid.UUID) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (r *vocabularyRepo) DeleteByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(activityIDs) == 0 {
		return nil
	}
	if err := t.WithContext(dbc.Ctx).Where("activity_id IN ?", activityIDs).Delete(&curriculum.VocabularyWord{}).Error; err != nil {
		return fmt.Errorf("delete vocabulary: %w", err)
	}
	return nil
}

// DeleteExcept clears the activity's words when it no longer has a vocabulary entry. List ids
// are synthetic, so a non-empty keep means Save has already replaced the rows.
func (r *vocabularyRepo) DeleteExcept(dbc dbctx.Context, activityID uuid.UUID, keep []uuid.UUID) error {
	if len(keep) > 0 {
		return nil
	}
	return r.DeleteByActivities(dbc, []uuid.UUID{activityID})
}
