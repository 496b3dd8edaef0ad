package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/mocks"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/repository"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixedSources returns a clock that advances one second per call and
// sequential ids prefixed with prefix
func fixedSources(prefix string) sources {
	var ticks, ids int
	return sources{
		now: func() time.Time {
			ticks++
			return testEpoch.Add(time.Duration(ticks) * time.Second)
		},
		newID: func() string {
			ids++
			return fmt.Sprintf("%s-%d", prefix, ids)
		},
	}
}

type dishFixture struct {
	svc    *dishService
	dishes *mocks.MockDishRepository
	users  *mocks.MockUserRepository
}

func newDishFixture(t *testing.T) *dishFixture {
	t.Helper()
	dishes := mocks.NewMockDishRepository()
	users := mocks.NewMockUserRepository()
	repos := &repository.Repositories{Dish: dishes, User: users}

	svc := newDishService(repos, validation.NewValidator(), zerolog.Nop())
	svc.sources = fixedSources("id")
	return &dishFixture{svc: svc, dishes: dishes, users: users}
}

func (f *dishFixture) addUser(t *testing.T, id, username string) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &models.User{ID: id, Username: username}))
}

func (f *dishFixture) addDish(t *testing.T, name string) *models.Dish {
	t.Helper()
	dish, err := f.svc.Create(context.Background(), &models.DishRequest{
		Name:        name,
		Image:       "images/" + name + ".png",
		Category:    "mains",
		Price:       4.99,
		Description: "A dish called " + name,
	})
	require.NoError(t, err)
	return dish
}

func assertKind(t *testing.T, err error, kind Kind, message string) {
	t.Helper()
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *service.Error, got %v", err)
	assert.Equal(t, kind, svcErr.Kind)
	if message != "" {
		assert.Equal(t, message, svcErr.Message)
	}
}

func TestDishService_CreateAndGet(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()

	dish := f.addDish(t, "Uthappizza")
	assert.NotEmpty(t, dish.ID)
	assert.Empty(t, dish.Comments)
	assert.False(t, dish.CreatedAt.IsZero())

	view, err := f.svc.Get(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, "Uthappizza", view.Name)
	assert.NotNil(t, view.Comments)
	assert.Len(t, view.Comments, 0)
}

func TestDishService_CreateValidation(t *testing.T) {
	f := newDishFixture(t)

	_, err := f.svc.Create(context.Background(), &models.DishRequest{Name: "", Price: -1})
	assertKind(t, err, KindInvalid, "validation failed")
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, 0, f.dishes.SaveCalls)
	assert.Empty(t, f.dishes.Dishes)
}

func TestDishService_CreateDuplicateName(t *testing.T) {
	f := newDishFixture(t)
	f.addDish(t, "Zucchipakoda")

	_, err := f.svc.Create(context.Background(), &models.DishRequest{
		Name: "Zucchipakoda", Image: "x.png", Category: "appetizer", Description: "again",
	})
	assertKind(t, err, KindConflict, "Dish Zucchipakoda already exists")
}

func TestDishService_GetMissing(t *testing.T) {
	f := newDishFixture(t)

	_, err := f.svc.Get(context.Background(), "nope")
	assertKind(t, err, KindNotFound, "Dish nope not found")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDishService_StorageFailureIsOpaque(t *testing.T) {
	f := newDishFixture(t)
	f.dishes.GetError = errors.New("connection reset")

	_, err := f.svc.Get(context.Background(), "any")
	require.Error(t, err)
	var svcErr *Error
	assert.False(t, errors.As(err, &svcErr))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestDishService_ListExpandsAuthorsOnce(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "alice")
	f.addUser(t, "u2", "bob")

	a := f.addDish(t, "A")
	b := f.addDish(t, "B")
	_, err := f.svc.AddComment(ctx, "u1", a.ID, &models.CommentRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, "u2", b.ID, &models.CommentRequest{Rating: 3, Comment: "ok"})
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, "u1", b.ID, &models.CommentRequest{Rating: 4, Comment: "good"})
	require.NoError(t, err)

	f.users.GetByIDsCalls = 0
	views, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 1, f.users.GetByIDsCalls)

	assert.Equal(t, "A", views[0].Name)
	assert.Equal(t, "alice", views[0].Comments[0].Author.Username)
	assert.Equal(t, "bob", views[1].Comments[0].Author.Username)
	assert.Equal(t, "alice", views[1].Comments[1].Author.Username)
}

func TestDishService_ListWithoutCommentsSkipsLookup(t *testing.T) {
	f := newDishFixture(t)
	f.addDish(t, "Plain")

	views, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 0, f.users.GetByIDsCalls)
}

func TestDishService_MissingAuthorKeepsID(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Orphaned")

	_, err := f.svc.AddComment(ctx, "ghost", dish.ID, &models.CommentRequest{Rating: 2, Comment: "who am I"})
	require.NoError(t, err)

	comments, err := f.svc.ListComments(ctx, dish.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "ghost", comments[0].Author.ID)
	assert.Empty(t, comments[0].Author.Username)
}

func TestDishService_Update(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Vadonut")

	price := 1.99
	featured := true
	updated, err := f.svc.Update(ctx, dish.ID, &models.DishUpdate{Price: &price, Featured: &featured})
	require.NoError(t, err)
	assert.Equal(t, 1.99, updated.Price)
	assert.True(t, updated.Featured)
	assert.Equal(t, "Vadonut", updated.Name)
	assert.True(t, updated.UpdatedAt.After(dish.UpdatedAt))

	stored := f.dishes.Stored(dish.ID)
	assert.Equal(t, 1.99, stored.Price)
}

func TestDishService_UpdateMissingDoesNotSave(t *testing.T) {
	f := newDishFixture(t)
	price := 2.0

	_, err := f.svc.Update(context.Background(), "missing", &models.DishUpdate{Price: &price})
	assertKind(t, err, KindNotFound, "Dish missing not found")
	assert.Equal(t, 0, f.dishes.SaveCalls)
}

func TestDishService_UpdateInvalid(t *testing.T) {
	f := newDishFixture(t)
	dish := f.addDish(t, "ElaiCheese Cake")
	price := -3.0

	_, err := f.svc.Update(context.Background(), dish.ID, &models.DishUpdate{Price: &price})
	assertKind(t, err, KindInvalid, "")
	assert.Equal(t, 4.99, f.dishes.Stored(dish.ID).Price)
}

func TestDishService_DeleteTwice(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Gone")

	removed, err := f.svc.Delete(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, dish.ID, removed.ID)

	_, err = f.svc.Delete(ctx, dish.ID)
	assertKind(t, err, KindNotFound, "Dish "+dish.ID+" not found")
}

func TestDishService_DeleteAll(t *testing.T) {
	f := newDishFixture(t)
	f.addDish(t, "One")
	f.addDish(t, "Two")

	result, err := f.svc.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Acknowledged)
	assert.Equal(t, int64(2), result.DeletedCount)

	n, err := f.svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDishService_AddCommentSetsAuthor(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "alice")
	dish := f.addDish(t, "Tasty")

	view, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 4, Comment: "  <b>nice</b>  "})
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)

	c := view.Comments[0]
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 4, c.Rating)
	assert.Equal(t, "nice", c.Comment)
	assert.Equal(t, "u1", c.Author.ID)
	assert.Equal(t, "alice", c.Author.Username)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestDishService_AddCommentValidation(t *testing.T) {
	f := newDishFixture(t)
	dish := f.addDish(t, "Strict")

	tests := []struct {
		name string
		req  models.CommentRequest
	}{
		{"rating too low", models.CommentRequest{Rating: 0, Comment: "meh"}},
		{"rating too high", models.CommentRequest{Rating: 6, Comment: "wow"}},
		{"blank text", models.CommentRequest{Rating: 3, Comment: "   "}},
		{"markup only", models.CommentRequest{Rating: 3, Comment: "<script></script>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.AddComment(context.Background(), "u1", dish.ID, &req)
			assertKind(t, err, KindInvalid, "")
		})
	}
	assert.Empty(t, f.dishes.Stored(dish.ID).Comments)
}

func TestDishService_AddCommentMissingDish(t *testing.T) {
	f := newDishFixture(t)

	_, err := f.svc.AddComment(context.Background(), "u1", "x", &models.CommentRequest{Rating: 5, Comment: "hi"})
	assertKind(t, err, KindNotFound, "Dish x not found")
	assert.Equal(t, 0, f.dishes.SaveCalls)
}

// Two users each own one comment; only the author may change or remove it.
func TestDishService_CommentOwnership(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "alice")
	f.addUser(t, "u2", "bob")
	dish := f.addDish(t, "Shared")

	v1, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 5, Comment: "mine"})
	require.NoError(t, err)
	c1 := v1.Comments[0].ID

	v2, err := f.svc.AddComment(ctx, "u2", dish.ID, &models.CommentRequest{Rating: 2, Comment: "also mine"})
	require.NoError(t, err)
	c2 := v2.Comments[1].ID

	rating := 1
	saves := f.dishes.SaveCalls
	_, err = f.svc.UpdateComment(ctx, "u2", dish.ID, c1, &models.CommentUpdate{Rating: &rating})
	assertKind(t, err, KindForbidden, NotAuthorizedMessage)
	_, err = f.svc.DeleteComment(ctx, "u2", dish.ID, c1)
	assertKind(t, err, KindForbidden, NotAuthorizedMessage)
	assert.Equal(t, saves, f.dishes.SaveCalls)

	view, err := f.svc.DeleteComment(ctx, "u2", dish.ID, c2)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, c1, view.Comments[0].ID)
	assert.Equal(t, 5, view.Comments[0].Rating)
}

func TestDishService_EmptyPrincipalIsForbidden(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Anon")

	view, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 3, Comment: "hi"})
	require.NoError(t, err)

	_, err = f.svc.DeleteComment(ctx, "", dish.ID, view.Comments[0].ID)
	assertKind(t, err, KindForbidden, "")
}

func TestDishService_UpdateComment(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "alice")
	dish := f.addDish(t, "Editable")

	view, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 3, Comment: "first"})
	require.NoError(t, err)
	original := view.Comments[0]

	text := "second"
	view, err = f.svc.UpdateComment(ctx, "u1", dish.ID, original.ID, &models.CommentUpdate{Comment: &text})
	require.NoError(t, err)

	updated := view.Comment(original.ID)
	require.NotNil(t, updated)
	assert.Equal(t, "second", updated.Comment)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "u1", updated.Author.ID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
}

func TestDishService_UpdateCommentZeroValuesUnchanged(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Stable")

	view, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 4, Comment: "keep"})
	require.NoError(t, err)
	id := view.Comments[0].ID

	zero := 0
	empty := ""
	view, err = f.svc.UpdateComment(ctx, "u1", dish.ID, id, &models.CommentUpdate{Rating: &zero, Comment: &empty})
	require.NoError(t, err)
	assert.Equal(t, 4, view.Comment(id).Rating)
	assert.Equal(t, "keep", view.Comment(id).Comment)
}

func TestDishService_UpdateCommentInvalidRating(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Bounded")

	view, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 4, Comment: "fine"})
	require.NoError(t, err)

	rating := 9
	_, err = f.svc.UpdateComment(ctx, "u1", dish.ID, view.Comments[0].ID, &models.CommentUpdate{Rating: &rating})
	assertKind(t, err, KindInvalid, "")
	assert.Equal(t, 4, f.dishes.Stored(dish.ID).Comments[0].Rating)
}

func TestDishService_CommentNotFoundMessages(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Lonely")

	_, err := f.svc.GetComment(ctx, "d-missing", "c1")
	assertKind(t, err, KindNotFound, "Dish d-missing not found")

	_, err = f.svc.GetComment(ctx, dish.ID, "c-missing")
	assertKind(t, err, KindNotFound, "Comment c-missing not found")

	_, err = f.svc.UpdateComment(ctx, "u1", dish.ID, "c-missing", &models.CommentUpdate{})
	assertKind(t, err, KindNotFound, "Comment c-missing not found")

	_, err = f.svc.DeleteComment(ctx, "u1", dish.ID, "c-missing")
	assertKind(t, err, KindNotFound, "Comment c-missing not found")

	assert.Equal(t, 0, f.dishes.SaveCalls)
}

func TestDishService_GetComment(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "alice")
	dish := f.addDish(t, "Reviewed")

	view, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 5, Comment: "top"})
	require.NoError(t, err)

	comment, err := f.svc.GetComment(ctx, dish.ID, view.Comments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "top", comment.Comment)
	assert.Equal(t, "alice", comment.Author.Username)
}

func TestDishService_ClearComments(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Busy")

	for i := 1; i <= 3; i++ {
		_, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: i, Comment: "c"})
		require.NoError(t, err)
	}

	cleared, err := f.svc.ClearComments(ctx, dish.ID)
	require.NoError(t, err)
	assert.NotNil(t, cleared.Comments)
	assert.Len(t, cleared.Comments, 0)
	assert.Len(t, f.dishes.Stored(dish.ID).Comments, 0)

	_, err = f.svc.ClearComments(ctx, "missing")
	assertKind(t, err, KindNotFound, "Dish missing not found")
}

func TestDishService_SaveErrorLeavesStoreUntouched(t *testing.T) {
	f := newDishFixture(t)
	dish := f.addDish(t, "Fragile")
	f.dishes.SaveError = errors.New("write conflict")

	_, err := f.svc.AddComment(context.Background(), "u1", dish.ID, &models.CommentRequest{Rating: 5, Comment: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write conflict")
	assert.Empty(t, f.dishes.Stored(dish.ID).Comments)
}

func TestDishService_DishVanishesBeforeSave(t *testing.T) {
	f := newDishFixture(t)
	dish := f.addDish(t, "Racy")
	f.dishes.SaveError = repository.ErrNotFound

	_, err := f.svc.AddComment(context.Background(), "u1", dish.ID, &models.CommentRequest{Rating: 5, Comment: "x"})
	assertKind(t, err, KindNotFound, "Dish "+dish.ID+" not found")
}

func TestDishService_RefetchFailureAfterSave(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "Committed")

	// first read succeeds, the read-back after the save fails
	reads := 0
	f.dishes.GetFunc = func(ctx context.Context, id string) (*models.Dish, error) {
		reads++
		if reads > 1 {
			return nil, errors.New("replica unavailable")
		}
		return f.dishes.Stored(id), nil
	}

	_, err := f.svc.AddComment(ctx, "u1", dish.ID, &models.CommentRequest{Rating: 5, Comment: "saved anyway"})
	require.Error(t, err)
	assert.Equal(t, 2, reads)
	assert.Len(t, f.dishes.Stored(dish.ID).Comments, 1)
}

func TestDishService_ReadsDoNotMutate(t *testing.T) {
	f := newDishFixture(t)
	ctx := context.Background()
	dish := f.addDish(t, "ReadOnly")

	view, err := f.svc.Get(ctx, dish.ID)
	require.NoError(t, err)
	view.Name = "changed"

	_, err = f.svc.ListComments(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.dishes.SaveCalls)
	assert.Equal(t, "ReadOnly", f.dishes.Stored(dish.ID).Name)
}
