package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/application/auth"
	"github.com/tasktrack/platform/internal/application/chat"
	"github.com/tasktrack/platform/internal/application/conversation"
	"github.com/tasktrack/platform/internal/application/notification"
	"github.com/tasktrack/platform/internal/application/series"
	"github.com/tasktrack/platform/internal/application/task"
	"github.com/tasktrack/platform/internal/config"
	"github.com/tasktrack/platform/internal/domain"
	apphttp "github.com/tasktrack/platform/internal/infrastructure/http"
	"github.com/tasktrack/platform/internal/infrastructure/http/handler"
	"github.com/tasktrack/platform/internal/infrastructure/http/middleware"
)

// fakeAuthRepo, fakeTaskRepo, fakeSeriesRepo, fakeConversationRepo and
// fakeNotificationRepo are minimal in-memory stand-ins, just enough to wire
// a real router without a database, mirroring the application layer's own
// fake-repo test style.

type fakeAuthRepo struct {
	byEmail map[string]domain.User
}

func (f *fakeAuthRepo) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	if f.byEmail == nil {
		f.byEmail = make(map[string]domain.User)
	}
	f.byEmail[u.Email] = u
	return u, nil
}
func (f *fakeAuthRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, &domain.NotFoundError{Entity: "user", ID: email}
	}
	return u, nil
}
func (f *fakeAuthRepo) GetUserByID(_ context.Context, id string) (domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, &domain.NotFoundError{Entity: "user", ID: id}
}
func (f *fakeAuthRepo) PutSession(context.Context, domain.Session) error        { return nil }
func (f *fakeAuthRepo) DeleteSessionsForUser(context.Context, string) error     { return nil }

type fakeTaskRepo struct{ tasks map[string]domain.Task }

func (f *fakeTaskRepo) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	f.tasks[t.ID] = t
	return t, nil
}
func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, &domain.NotFoundError{Entity: "task", ID: id}
	}
	return t, nil
}
func (f *fakeTaskRepo) ListAll(_ context.Context, userID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}
func (f *fakeTaskRepo) Update(_ context.Context, t domain.Task) (domain.Task, error) {
	f.tasks[t.ID] = t
	return t, nil
}
func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}
func (f *fakeTaskRepo) InsertHistory(context.Context, domain.TaskHistory) error { return nil }
func (f *fakeTaskRepo) ListHistory(context.Context, string, domain.HistoryFilter) (domain.HistoryPage, error) {
	return domain.HistoryPage{}, nil
}
func (f *fakeTaskRepo) DeleteHistory(context.Context, string, string) error        { return nil }
func (f *fakeTaskRepo) DeleteNotificationsForTask(context.Context, string) error   { return nil }
func (f *fakeTaskRepo) WeeklyStats(context.Context, string) (task.Stats, error)    { return task.Stats{}, nil }
func (f *fakeTaskRepo) Atomic(ctx context.Context, fn func(repo task.Repository) error) error {
	return fn(f)
}

type fakePublisher struct{}

func (fakePublisher) PublishTaskCreated(context.Context, domain.TaskCreatedData) error     { return nil }
func (fakePublisher) PublishTaskUpdated(context.Context, domain.TaskUpdatedData) error     { return nil }
func (fakePublisher) PublishTaskDeleted(context.Context, domain.TaskDeletedData) error     { return nil }
func (fakePublisher) PublishTaskCompleted(context.Context, domain.TaskCompletedData) error { return nil }

type fakeSeriesRepo struct{}

func (fakeSeriesRepo) Create(_ context.Context, s domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error) {
	return s, nil
}
func (fakeSeriesRepo) Get(context.Context, string) (domain.RecurringTaskSeries, error) {
	return domain.RecurringTaskSeries{}, &domain.NotFoundError{Entity: "series"}
}
func (fakeSeriesRepo) ListByUser(context.Context, string, bool) ([]domain.RecurringTaskSeries, error) {
	return nil, nil
}
func (fakeSeriesRepo) Update(_ context.Context, s domain.RecurringTaskSeries) (domain.RecurringTaskSeries, error) {
	return s, nil
}
func (fakeSeriesRepo) Deactivate(context.Context, string, time.Time) error { return nil }
func (fakeSeriesRepo) ListTasksInSeries(context.Context, string) ([]domain.Task, error) {
	return nil, nil
}

type fakeConversationRepo struct{}

func (fakeConversationRepo) CreateConversation(_ context.Context, c domain.Conversation) (domain.Conversation, error) {
	return c, nil
}
func (fakeConversationRepo) GetConversation(context.Context, string) (domain.Conversation, error) {
	return domain.Conversation{}, &domain.NotFoundError{Entity: "conversation"}
}
func (fakeConversationRepo) TouchConversation(context.Context, string, time.Time) error { return nil }
func (fakeConversationRepo) ListConversationsForUser(context.Context, string, int, int) ([]domain.Conversation, error) {
	return nil, nil
}
func (fakeConversationRepo) InsertMessage(_ context.Context, m domain.Message) (domain.Message, error) {
	return m, nil
}
func (fakeConversationRepo) GetMessageByExternalID(context.Context, string, string) (domain.Message, bool, error) {
	return domain.Message{}, false, nil
}
func (fakeConversationRepo) ListHistory(context.Context, string, int) ([]domain.Message, error) {
	return nil, nil
}
func (fakeConversationRepo) ListItems(context.Context, string, string, int, domain.ItemOrder) (domain.MessagePage, error) {
	return domain.MessagePage{}, nil
}
func (fakeConversationRepo) DeleteExpiredMessages(context.Context) (int, error) { return 0, nil }

type fakeNotificationRepo struct{}

func (fakeNotificationRepo) ListForUser(context.Context, string, bool) ([]domain.Notification, error) {
	return nil, nil
}
func (fakeNotificationRepo) MarkRead(context.Context, string, string) error { return nil }
func (fakeNotificationRepo) MarkAllRead(context.Context, string) error     { return nil }
func (fakeNotificationRepo) CountUnread(context.Context, string) (int, error) {
	return 0, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// newTestRouter wires a full router the same way cmd/server/main.go does,
// backed entirely by in-memory fakes instead of Postgres/Redis/Kafka.
func newTestRouter(t *testing.T, pingErr error) (http.Handler, string) {
	t.Helper()

	authRepo := &fakeAuthRepo{}
	tokenIssuer := auth.NewTokenIssuer("test-secret", time.Hour)
	authService := auth.NewService(authRepo, tokenIssuer, nil, time.Hour)

	taskRepo := &fakeTaskRepo{tasks: make(map[string]domain.Task)}
	taskService := task.NewService(taskRepo, taskRepo, fakePublisher{})

	seriesService := series.NewService(fakeSeriesRepo{}, taskService)
	conversationService := conversation.NewService(fakeConversationRepo{})
	notificationService := notification.NewService(fakeNotificationRepo{})

	dispatcher := chat.NewDispatcher(taskService)
	agent := chat.NewAgent("test-key", "", dispatcher)
	chatService := chat.NewService(conversationService, agent)

	h := handler.New(authService, taskService, seriesService, conversationService, notificationService, chatService, config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100})
	authMiddleware := middleware.NewAuth(authService)
	router := apphttp.NewRouter(h, authMiddleware, fakePinger{err: pingErr}, 1<<20)

	token, _, err := tokenIssuer.Issue("user-1", "user1@example.com")
	require.NoError(t, err)

	return router, token
}

func TestHealthIsUnauthenticated(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReflectsDependencyFailure(t *testing.T) {
	router, _ := newTestRouter(t, errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTasksRequireAuthentication(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTasksSucceedWithBearerToken(t *testing.T) {
	router, token := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConversationsRejectMismatchedPathUser(t *testing.T) {
	router, token := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/someone-else/conversations/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestConversationsAllowMatchingPathUser(t *testing.T) {
	router, token := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/user-1/conversations/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
