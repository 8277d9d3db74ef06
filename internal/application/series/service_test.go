package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/domain"
)

type fakeRepo struct {
	series map[string]domain.RecurringTaskSeries
	tasks  map[string][]domain.Task
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{series: make(map[string]domain.RecurringTaskSeries), tasks: make(map[string][]domain.Task)}
}

func (f *fakeRepo) Create(_ context.Context, s domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error) {
	f.series[s.SeriesID] = s
	return s, nil
}

func (f *fakeRepo) Get(_ context.Context, seriesID string) (domain.RecurringTaskSeries, error) {
	s, ok := f.series[seriesID]
	if !ok {
		return domain.RecurringTaskSeries{}, &domain.NotFoundError{Entity: "recurring_task_series", ID: seriesID}
	}
	return s, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string, includeInactive bool) ([]domain.RecurringTaskSeries, error) {
	var out []domain.RecurringTaskSeries
	for _, s := range f.series {
		if s.UserID != userID {
			continue
		}
		if !s.IsActive && !includeInactive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, s domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error) {
	f.series[s.SeriesID] = s
	return s, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, seriesID string, at time.Time) error {
	s, ok := f.series[seriesID]
	if !ok {
		return &domain.NotFoundError{Entity: "recurring_task_series", ID: seriesID}
	}
	s.IsActive = false
	s.UpdatedAt = at
	f.series[seriesID] = s
	return nil
}

func (f *fakeRepo) ListTasksInSeries(_ context.Context, seriesID string) ([]domain.Task, error) {
	return f.tasks[seriesID], nil
}

type fakeTaskCreator struct {
	repo *fakeRepo
}

func (f *fakeTaskCreator) CreateFromSeries(_ context.Context, userID string, template domain.TaskTemplate, dueDate time.Time, seriesID, recurrencePattern string) (domain.Task, error) {
	t := domain.Task{
		ID: "task-" + seriesID, UserID: userID, Title: template.Title, Description: template.Description,
		Tags: template.Tags, DueDate: &dueDate, SeriesID: &seriesID, RecurrencePattern: &recurrencePattern,
	}
	f.repo.tasks[seriesID] = append(f.repo.tasks[seriesID], t)
	return t, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	creator := &fakeTaskCreator{repo: repo}
	return NewService(repo, creator), repo
}

func TestCreate_PersistsSeriesAndFirstInstance(t *testing.T) {
	svc, _ := newTestService()
	series, task, err := svc.Create(context.Background(), "u1", domain.TaskTemplate{Title: "Water plants"}, "DAILY")
	require.NoError(t, err)
	assert.True(t, series.IsActive)
	assert.Equal(t, series.SeriesID, *task.SeriesID)
}

func TestCreate_RejectsInvalidRecurrencePattern(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.Create(context.Background(), "u1", domain.TaskTemplate{Title: "Water plants"}, "NOT-A-RULE")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGet_ForbiddenForNonOwner(t *testing.T) {
	svc, _ := newTestService()
	series, _, err := svc.Create(context.Background(), "u1", domain.TaskTemplate{Title: "Water plants"}, "DAILY")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "u2", series.SeriesID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdate_ChangesTitleAndPattern(t *testing.T) {
	svc, _ := newTestService()
	series, _, err := svc.Create(context.Background(), "u1", domain.TaskTemplate{Title: "Water plants"}, "DAILY")
	require.NoError(t, err)

	newTitle := "Water plants twice"
	newPattern := "WEEKLY"
	updated, err := svc.Update(context.Background(), "u1", series.SeriesID, SeriesPatch{Title: &newTitle, RecurrencePattern: &newPattern})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.BaseTaskTemplate.Title)
	assert.Equal(t, newPattern, updated.RecurrencePattern)
}

func TestDelete_SoftDeactivatesAndPreservesInstances(t *testing.T) {
	svc, repo := newTestService()
	series, _, err := svc.Create(context.Background(), "u1", domain.TaskTemplate{Title: "Water plants"}, "DAILY")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", series.SeriesID))

	stored, err := repo.Get(context.Background(), series.SeriesID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	tasks, err := svc.ListTasksInSeries(context.Background(), "u1", series.SeriesID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestListTasksInSeries_ForbiddenForNonOwner(t *testing.T) {
	svc, _ := newTestService()
	series, _, err := svc.Create(context.Background(), "u1", domain.TaskTemplate{Title: "Water plants"}, "DAILY")
	require.NoError(t, err)

	_, err = svc.ListTasksInSeries(context.Background(), "u2", series.SeriesID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
