package subject_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	"github.com/saulo-duarte/prepmate-api/internal/subject"
	"github.com/saulo-duarte/prepmate-api/internal/testutil"
)

// countingCache mirrors the Redis cache's versioning in memory.
type countingCache struct {
	mu            sync.Mutex
	stored        []curriculum.Subject
	storedVersion int64
	has           bool
	version       int64
	invalidated   int
}

func (c *countingCache) Get(context.Context) ([]curriculum.Subject, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.has && c.storedVersion == c.version {
		return c.stored, c.version, true
	}
	return nil, c.version, false
}

func (c *countingCache) Set(_ context.Context, version int64, s []curriculum.Subject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version == c.version {
		c.stored, c.storedVersion, c.has = s, version, true
	}
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.has = false
	c.invalidated++
}

func newService(t *testing.T, cache subject.Cache) (subject.SubjectService, subject.SubjectRepository) {
	t.Helper()
	db := testutil.NewDB(t, &subject.Subject{})
	repo := subject.NewRepository(db)
	return subject.NewService(repo, cache), repo
}

func physics() curriculum.Subject {
	return curriculum.Subject{ID: "sub_1", Name: "Physics", Chapters: []curriculum.Chapter{}}
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	created, err := svc.Create(ctx, physics())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "sub_1" || created.Name != "Physics" {
		t.Errorf("unexpected created subject: %+v", created)
	}
	if created.Chapters == nil {
		t.Errorf("chapters should default to an empty list")
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != "sub_1" {
		t.Fatalf("List = %+v", list)
	}
}

func TestCreateDoesNotCheckForDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, physics()); err != nil {
			t.Fatalf("Create #%d: %v", i+1, err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected two documents sharing logical id sub_1, got %d", len(list))
	}
	if list[0].ID != list[1].ID {
		t.Errorf("ids differ: %q vs %q", list[0].ID, list[1].ID)
	}
}

func TestCreateRejectsInvalidMCQ(t *testing.T) {
	svc, _ := newService(t, nil)

	sub := physics()
	sub.Chapters = []curriculum.Chapter{{
		ID:        "chap_1",
		Title:     "Motion",
		Questions: curriculum.Questions{&curriculum.MCQ{ID: "q_1", Options: []string{"a"}, CorrectIndex: 3}},
	}}

	_, err := svc.Create(context.Background(), sub)
	if !errors.Is(err, subject.ErrInvalidSubject) {
		t.Fatalf("err = %v, want ErrInvalidSubject", err)
	}
}

func TestSync(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingSubjectIsNotCreated", func(t *testing.T) {
		svc, _ := newService(t, nil)

		_, err := svc.Sync(ctx, "sub_missing", subject.SyncSubjectRequest{Name: "Ghost"})
		if !errors.Is(err, subject.ErrSubjectNotFound) {
			t.Fatalf("err = %v, want ErrSubjectNotFound", err)
		}
		list, _ := svc.List(ctx)
		if len(list) != 0 {
			t.Fatalf("sync created a subject: %+v", list)
		}
	})

	t.Run("OverwritesChaptersWholesale", func(t *testing.T) {
		svc, _ := newService(t, nil)
		if _, err := svc.Create(ctx, physics()); err != nil {
			t.Fatalf("Create: %v", err)
		}

		chapters := []curriculum.Chapter{{
			ID:    "chap_1",
			Title: "Motion",
			Questions: curriculum.Questions{&curriculum.MCQ{
				ID: "q_1", Text: "?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2,
			}},
		}}
		updated, err := svc.Sync(ctx, "sub_1", subject.SyncSubjectRequest{Chapters: chapters})
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if updated.Name != "Physics" {
			t.Errorf("empty name should keep the stored one, got %q", updated.Name)
		}

		list, _ := svc.List(ctx)
		got := list[0].Chapters[0].Questions[0].(*curriculum.MCQ)
		if got.CorrectIndex != 2 {
			t.Errorf("correctIndex = %d, want 2", got.CorrectIndex)
		}

		if _, err := svc.Sync(ctx, "sub_1", subject.SyncSubjectRequest{Chapters: []curriculum.Chapter{}}); err != nil {
			t.Fatalf("Sync: %v", err)
		}
		list, _ = svc.List(ctx)
		if len(list[0].Chapters) != 0 {
			t.Errorf("empty chapters list should replace the stored one, got %+v", list[0].Chapters)
		}
	})

	t.Run("NilChaptersKeepsStored", func(t *testing.T) {
		svc, _ := newService(t, nil)
		sub := physics()
		sub.Chapters = []curriculum.Chapter{{ID: "chap_1", Title: "Motion"}}
		if _, err := svc.Create(ctx, sub); err != nil {
			t.Fatalf("Create: %v", err)
		}

		updated, err := svc.Sync(ctx, "sub_1", subject.SyncSubjectRequest{Name: "Physics II"})
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if updated.Name != "Physics II" || len(updated.Chapters) != 1 {
			t.Errorf("unexpected sync result: %+v", updated)
		}
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	if _, err := svc.Create(ctx, physics()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Delete(ctx, "sub_1"); err != nil {
			t.Fatalf("Delete #%d: %v", i+1, err)
		}
	}
	if err := svc.Delete(ctx, "never_existed"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Fatalf("subjects left after delete: %+v", list)
	}
}

func TestWritesInvalidateListCache(t *testing.T) {
	ctx := context.Background()
	cache := &countingCache{}
	svc, _ := newService(t, cache)

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !cache.has {
		t.Fatalf("List should populate the cache")
	}

	if _, err := svc.Create(ctx, physics()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cache.has {
		t.Fatalf("Create should invalidate the cache")
	}

	list, _ := svc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("List after create = %d subjects, want 1", len(list))
	}

	if _, err := svc.Sync(ctx, "sub_1", subject.SyncSubjectRequest{Name: "New"}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := svc.Delete(ctx, "sub_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if cache.invalidated != 3 {
		t.Errorf("invalidated = %d, want 3", cache.invalidated)
	}
}
