package service

import (
	"context"
	"errors"
	"testing"

	"penlight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo is a function-field PostRepository stub; unset methods fail
// the call so a test only wires what it expects to be hit.
type stubRepo struct {
	create                   func(post *models.Post) error
	getByID                  func(id string) (*models.Post, error)
	getBySlug                func(slug string) (*models.Post, error)
	resolve                  func(slugOrID string) (*models.Post, error)
	list                     func() ([]*models.Post, error)
	listByTopic              func(topic string, exclude []string, limit int) ([]*models.Post, error)
	listLatest               func(exclude []string, limit int) ([]*models.Post, error)
	listLatestExcludingTopic func(topic string, exclude []string, limit int) ([]*models.Post, error)
	search                   func(query string, limit int) ([]*models.PostSummary, error)
	update                   func(post *models.Post) error
	delete                   func(id string) error
}

var errUnexpectedCall = errors.New("unexpected repository call")

func (s *stubRepo) Create(_ context.Context, post *models.Post) error {
	if s.create == nil {
		return errUnexpectedCall
	}
	return s.create(post)
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	if s.getByID == nil {
		return nil, errUnexpectedCall
	}
	return s.getByID(id)
}

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	if s.getBySlug == nil {
		return nil, errUnexpectedCall
	}
	return s.getBySlug(slug)
}

func (s *stubRepo) Resolve(_ context.Context, slugOrID string) (*models.Post, error) {
	if s.resolve == nil {
		return nil, errUnexpectedCall
	}
	return s.resolve(slugOrID)
}

func (s *stubRepo) List(_ context.Context) ([]*models.Post, error) {
	if s.list == nil {
		return nil, errUnexpectedCall
	}
	return s.list()
}

func (s *stubRepo) ListByTopic(_ context.Context, topic string, exclude []string, limit int) ([]*models.Post, error) {
	if s.listByTopic == nil {
		return nil, errUnexpectedCall
	}
	return s.listByTopic(topic, exclude, limit)
}

func (s *stubRepo) ListLatest(_ context.Context, exclude []string, limit int) ([]*models.Post, error) {
	if s.listLatest == nil {
		return nil, errUnexpectedCall
	}
	return s.listLatest(exclude, limit)
}

func (s *stubRepo) ListLatestExcludingTopic(_ context.Context, topic string, exclude []string, limit int) ([]*models.Post, error) {
	if s.listLatestExcludingTopic == nil {
		return nil, errUnexpectedCall
	}
	return s.listLatestExcludingTopic(topic, exclude, limit)
}

func (s *stubRepo) Search(_ context.Context, query string, limit int) ([]*models.PostSummary, error) {
	if s.search == nil {
		return nil, errUnexpectedCall
	}
	return s.search(query, limit)
}

func (s *stubRepo) Update(_ context.Context, post *models.Post) error {
	if s.update == nil {
		return errUnexpectedCall
	}
	return s.update(post)
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if s.delete == nil {
		return errUnexpectedCall
	}
	return s.delete(id)
}

func testService(repo *stubRepo) *PostService {
	topics := models.NewTopicSet([]string{"TECHNOLOGY", "HEALTH", "LIFESTYLE", "EDUCATION", "ENTERTAINMENT"})
	return NewPostService(repo, topics)
}

func post(id string, mutate ...func(*models.Post)) *models.Post {
	p := &models.Post{ID: id, Slug: "slug-" + id, Title: "Title " + id}
	for _, m := range mutate {
		m(p)
	}
	return p
}

func withTopic(topic string) func(*models.Post) {
	return func(p *models.Post) { p.Topic = &topic }
}

func withRelated(ids ...string) func(*models.Post) {
	return func(p *models.Post) { p.RelatedArticles = ids }
}

func ids(posts []*models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestCreate_RequiresTitleAndSlug(t *testing.T) {
	svc := testService(&stubRepo{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"missing title", CreatePostInput{Slug: "a-slug"}},
		{"missing slug", CreatePostInput{Title: "A Title"}},
		{"whitespace title", CreatePostInput{Title: "   ", Slug: "a-slug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
		})
	}
}

func TestCreate_NormalizesTopicAndRelated(t *testing.T) {
	var created *models.Post
	svc := testService(&stubRepo{
		create: func(p *models.Post) error {
			created = p
			return nil
		},
	})

	_, err := svc.Create(context.Background(), CreatePostInput{
		Title:           "A Title",
		Slug:            "a-title",
		Topic:           float64(1), // numeric alias as decoded from JSON
		RelatedArticles: []string{"x", "", "x", "y"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	require.NotNil(t, created.Topic)
	assert.Equal(t, "TECHNOLOGY", *created.Topic)
	assert.Equal(t, models.StringList{"x", "y"}, created.RelatedArticles)
}

func TestCreate_InvalidTopicStoresAsAbsent(t *testing.T) {
	var created *models.Post
	svc := testService(&stubRepo{
		create: func(p *models.Post) error {
			created = p
			return nil
		},
	})

	_, err := svc.Create(context.Background(), CreatePostInput{
		Title: "A Title",
		Slug:  "a-title",
		Topic: "NOT_A_TOPIC",
	})
	require.NoError(t, err)
	assert.Nil(t, created.Topic)
}

func TestSearch_BlankQueryReturnsEmptyWithoutRepoCall(t *testing.T) {
	svc := testService(&stubRepo{}) // any repo call would error
	results, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdate_PartialSemantics(t *testing.T) {
	topic := "HEALTH"
	newExcerpt := "updated excerpt"
	pinned := true

	makeExisting := func() *models.Post {
		return post("p1", withTopic(topic), withRelated("a", "b"), func(p *models.Post) {
			p.Excerpt = "original excerpt"
			p.Content = "original content"
			thumb := "data:image/png;base64,xyz"
			p.Thumbnail = &thumb
		})
	}

	newRepo := func(saved **models.Post) *stubRepo {
		return &stubRepo{
			getByID: func(id string) (*models.Post, error) {
				if id != "p1" {
					return nil, models.NewNotFoundError("post", id)
				}
				return makeExisting(), nil
			},
			update: func(p *models.Post) error {
				*saved = p
				return nil
			},
		}
	}

	t.Run("absent fields keep prior values", func(t *testing.T) {
		var saved *models.Post
		svc := testService(newRepo(&saved))

		_, err := svc.Update(context.Background(), "p1", UpdatePostInput{
			Excerpt: &newExcerpt,
			Pinned:  &pinned,
		})
		require.NoError(t, err)

		assert.Equal(t, newExcerpt, saved.Excerpt)
		assert.True(t, saved.Pinned)
		assert.Equal(t, "original content", saved.Content)
		require.NotNil(t, saved.Topic)
		assert.Equal(t, topic, *saved.Topic)
		assert.NotNil(t, saved.Thumbnail)
		assert.Equal(t, models.StringList{"a", "b"}, saved.RelatedArticles)
	})

	t.Run("explicit null clears topic thumbnail and related", func(t *testing.T) {
		var saved *models.Post
		svc := testService(newRepo(&saved))

		_, err := svc.Update(context.Background(), "p1", UpdatePostInput{
			TopicSet:     true,
			ThumbnailSet: true,
			RelatedSet:   true,
			RelatedNull:  true,
		})
		require.NoError(t, err)

		assert.Nil(t, saved.Topic)
		assert.Nil(t, saved.Thumbnail)
		assert.Nil(t, saved.RelatedArticles)
	})

	t.Run("related list drops self reference", func(t *testing.T) {
		var saved *models.Post
		svc := testService(newRepo(&saved))

		_, err := svc.Update(context.Background(), "p1", UpdatePostInput{
			RelatedSet:      true,
			RelatedArticles: []string{"p1", "c", "c", "d"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.StringList{"c", "d"}, saved.RelatedArticles)
	})

	t.Run("unknown id", func(t *testing.T) {
		var saved *models.Post
		svc := testService(newRepo(&saved))

		_, err := svc.Update(context.Background(), "nope", UpdatePostInput{})
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})
}

func TestRelated_CuratedOrderPreserved(t *testing.T) {
	store := map[string]*models.Post{
		"b": post("b"),
		"c": post("c"),
		"d": post("d"),
	}
	self := post("self", withRelated("d", "b", "c"))

	svc := testService(&stubRepo{
		resolve: func(string) (*models.Post, error) { return self, nil },
		getByID: func(id string) (*models.Post, error) {
			if p, ok := store[id]; ok {
				return p, nil
			}
			return nil, models.NewNotFoundError("post", id)
		},
	})

	got, err := svc.Related(context.Background(), "self", 3)
	require.NoError(t, err)
	// Curation order, not freshness or pinning.
	assert.Equal(t, []string{"d", "b", "c"}, ids(got))
}

func TestRelated_SkipsDanglingAndSelfAndDuplicates(t *testing.T) {
	store := map[string]*models.Post{"b": post("b")}
	self := post("self", withRelated("deleted", "self", "b", "b"))

	calls := 0
	svc := testService(&stubRepo{
		resolve: func(string) (*models.Post, error) { return self, nil },
		getByID: func(id string) (*models.Post, error) {
			calls++
			if p, ok := store[id]; ok {
				return p, nil
			}
			return nil, models.NewNotFoundError("post", id)
		},
		listLatest: func(exclude []string, limit int) ([]*models.Post, error) {
			assert.Contains(t, exclude, "self")
			assert.Contains(t, exclude, "b")
			return nil, nil
		},
	})

	got, err := svc.Related(context.Background(), "self", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got))
	// "self" and the duplicate "b" are filtered without a lookup.
	assert.Equal(t, 2, calls)
}

func TestRelated_TopicTierFillsAfterCurated(t *testing.T) {
	self := post("self", withTopic("TECHNOLOGY"), withRelated("cur"))
	svc := testService(&stubRepo{
		resolve: func(string) (*models.Post, error) { return self, nil },
		getByID: func(id string) (*models.Post, error) { return post(id), nil },
		listByTopic: func(topic string, exclude []string, limit int) ([]*models.Post, error) {
			assert.Equal(t, "TECHNOLOGY", topic)
			assert.Equal(t, 2, limit)
			assert.ElementsMatch(t, []string{"self", "cur"}, exclude)
			return []*models.Post{post("t1"), post("t2")}, nil
		},
	})

	got, err := svc.Related(context.Background(), "self", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"cur", "t1", "t2"}, ids(got))
}

func TestRelated_LatestTierPrefersOtherTopicsThenTopsUp(t *testing.T) {
	self := post("self", withTopic("TECHNOLOGY"))
	svc := testService(&stubRepo{
		resolve: func(string) (*models.Post, error) { return self, nil },
		listByTopic: func(string, []string, int) ([]*models.Post, error) {
			return nil, nil // no same-topic posts exist
		},
		listLatestExcludingTopic: func(topic string, exclude []string, limit int) ([]*models.Post, error) {
			assert.Equal(t, "TECHNOLOGY", topic)
			return []*models.Post{post("other1")}, nil
		},
		listLatest: func(exclude []string, limit int) ([]*models.Post, error) {
			// top-up may return same-topic posts
			assert.Contains(t, exclude, "other1")
			assert.Equal(t, 2, limit)
			return []*models.Post{post("tech-old", withTopic("TECHNOLOGY"))}, nil
		},
	})

	got, err := svc.Related(context.Background(), "self", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"other1", "tech-old"}, ids(got))
}

func TestRelated_NoTopicSkipsTopicTiers(t *testing.T) {
	self := post("self")
	svc := testService(&stubRepo{
		resolve: func(string) (*models.Post, error) { return self, nil },
		listLatest: func(exclude []string, limit int) ([]*models.Post, error) {
			assert.Equal(t, []string{"self"}, exclude)
			return []*models.Post{post("a"), post("b"), post("c")}, nil
		},
	})

	got, err := svc.Related(context.Background(), "self", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRelated_NeverExceedsLimit(t *testing.T) {
	self := post("self", withRelated("a", "b", "c", "d", "e"))
	svc := testService(&stubRepo{
		resolve: func(string) (*models.Post, error) { return self, nil },
		getByID: func(id string) (*models.Post, error) { return post(id), nil },
	})

	got, err := svc.Related(context.Background(), "self", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestRelated_UnknownPost(t *testing.T) {
	svc := testService(&stubRepo{
		resolve: func(slugOrID string) (*models.Post, error) {
			return nil, models.NewNotFoundError("post", slugOrID)
		},
	})

	_, err := svc.Related(context.Background(), "ghost", 3)
	assert.True(t, models.IsCode(err, "NOT_FOUND"))
}
