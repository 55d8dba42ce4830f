package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mishcolife/catalogadmin/internal/adapters/events"
	"github.com/mishcolife/catalogadmin/internal/application/services"
	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/editor/draft"
	"github.com/mishcolife/catalogadmin/internal/editor/staging"
	"github.com/mishcolife/catalogadmin/internal/testutil/fakestore"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

func TestProductEditor_SubmitCreate(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	catID := b.store.SeedCategory("Analgesics")

	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })
	published, err := bus.Subscribe(ctx, providers.CollectionChannel(providers.DefaultRecordChannel, entities.CollectionProducts))
	require.NoError(t, err)

	previews := staging.NewMemoryPreviews()
	var outstanding int64
	previews.Observe(func(delta int64) { outstanding += delta })

	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(b.client, services.EditorOptions{
		Previews: previews,
		Notifier: notifier,
		Sync:     services.SyncOptions{Catalog: b.catalog, Bus: bus, Source: "editor-1"},
	})

	require.NoError(t, editor.OpenNew())
	require.NoError(t, editor.Edit(func(d *draft.Draft) error {
		fillRequired(t, d, catID)
		return d.Images.SetQueued([]staging.File{{Name: "front.png", Data: pngData}})
	}))
	assert.Equal(t, int64(1), outstanding)

	saved, err := editor.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.ID)

	assert.False(t, editor.HasDraft(), "draft is discarded after a successful submit")
	assert.Equal(t, int64(0), outstanding)
	assert.Equal(t, []entities.NoticeLevel{entities.NoticeSuccess}, notifier.Levels())
	assert.Equal(t, "Product added successfully", notifier.Last().Message)

	assert.Equal(t, 1, b.catalog.Products.Len(), "list refetched")
	state, _ := b.catalog.Products.State()
	assert.Equal(t, services.MirrorReady, state)

	select {
	case event := <-published:
		assert.Equal(t, entities.CollectionProducts, event.Collection)
		assert.Equal(t, entities.RecordEventCreated, event.EventType)
		assert.Equal(t, saved.ID, event.RecordID)
		assert.Equal(t, "editor-1", event.Source)
	case <-time.After(time.Second):
		t.Fatal("record event not published")
	}
}

func TestProductEditor_ValidationFailureMakesNoRequest(t *testing.T) {
	store := &MockProductStore{}
	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(store, services.EditorOptions{Notifier: notifier})

	require.NoError(t, editor.OpenNew())
	require.NoError(t, editor.Edit(func(d *draft.Draft) error {
		fillRequired(t, d, "c1")
		return d.SetField(entities.FieldProductName, "  ")
	}))

	_, err := editor.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	notice := notifier.Last()
	assert.Equal(t, entities.NoticeError, notice.Level)
	assert.Equal(t, []string{entities.FieldProductName}, notice.Fields)
	assert.True(t, editor.HasDraft(), "draft kept for correction")
	store.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestProductEditor_SecondSubmitWhileInFlight(t *testing.T) {
	store := &MockProductStore{}
	started := make(chan struct{})
	release := make(chan struct{})
	store.On("CreateProduct", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&entities.Product{ID: "p1"}, nil).
		Once()

	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(store, services.EditorOptions{Notifier: notifier})
	require.NoError(t, editor.OpenNew())
	require.NoError(t, editor.Edit(func(d *draft.Draft) error {
		fillRequired(t, d, "c1")
		return nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := editor.Submit(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, editor.Submitting())
	_, err := editor.Submit(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInFlight))
	assert.Equal(t, entities.NoticeInfo, notifier.Last().Level)

	err = editor.Edit(func(d *draft.Draft) error { return nil })
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInFlight), "edits wait for the submission")
	assert.True(t, apperrors.IsType(editor.Cancel(), apperrors.ErrorTypeInFlight))

	close(release)
	require.NoError(t, <-done)
	assert.False(t, editor.Submitting())
	store.AssertNumberOfCalls(t, "CreateProduct", 1)
}

func TestProductEditor_UpdateOfVanishedRecord(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	catID := b.store.SeedCategory("Analgesics")

	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(b.client, services.EditorOptions{Notifier: notifier})
	require.NoError(t, editor.OpenExisting(&entities.Product{
		ID:          "gone",
		ProductName: "Calpol",
		GenericName: "Paracetamol",
		Strength:    "500mg",
		Category:    entities.CategoryRef{ID: catID},
		Uses:        []string{"Fever"},
	}))

	_, err := editor.Submit(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	notice := notifier.Last()
	assert.Equal(t, entities.NoticeWarning, notice.Level)
	assert.True(t, notice.Refresh)
	assert.True(t, editor.HasDraft())
	assert.False(t, editor.Submitting())
}

func TestProductEditor_RejectedCarriesStoreMessage(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	catID := b.store.SeedCategory("Analgesics")
	id := b.store.SeedProduct(entities.Product{ProductName: "Calpol"})
	b.store.FailNext("PUT", "/api/products/update/"+id, fakestore.Failure{
		Status: 200,
		Body:   map[string]any{"success": false, "message": "Strength format is invalid"},
	})

	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(b.client, services.EditorOptions{
		Notifier: notifier,
		Finder:   b.catalog,
	})
	require.NoError(t, b.catalog.Refresh(ctx, entities.CollectionProducts))
	require.NoError(t, editor.OpenByID(ctx, id))
	require.NoError(t, editor.Edit(func(d *draft.Draft) error {
		fillRequired(t, d, catID)
		return nil
	}))

	_, err := editor.Submit(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRejected))
	assert.Equal(t, "Strength format is invalid", notifier.Last().Message)
	assert.True(t, editor.HasDraft())

	_, err = editor.Submit(ctx)
	require.NoError(t, err, "resubmitting the same draft succeeds")
}

func TestProductEditor_RefreshFailureStillSucceeds(t *testing.T) {
	b := newBackend(t)
	catID := b.store.SeedCategory("Analgesics")

	refresher := &MockRefresher{}
	refresher.On("Refresh", mock.Anything, entities.CollectionProducts).Return(errors.New("connection reset")).Once()

	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(b.client, services.EditorOptions{
		Notifier: notifier,
		Sync:     services.SyncOptions{Catalog: refresher},
	})
	require.NoError(t, editor.OpenNew())
	require.NoError(t, editor.Edit(func(d *draft.Draft) error {
		fillRequired(t, d, catID)
		return nil
	}))

	saved, err := editor.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, []entities.NoticeLevel{entities.NoticeSuccess, entities.NoticeWarning}, notifier.Levels())
	assert.False(t, editor.HasDraft())
	refresher.AssertExpectations(t)
}

func TestProductEditor_OpenByIDMissing(t *testing.T) {
	b := newBackend(t)
	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(b.client, services.EditorOptions{
		Notifier: notifier,
		Finder:   b.catalog,
	})

	err := editor.OpenByID(context.Background(), "nope")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.False(t, editor.HasDraft())
}

func TestProductEditor_ReopenReleasesPreviousDraft(t *testing.T) {
	previews := staging.NewMemoryPreviews()
	var outstanding int64
	previews.Observe(func(delta int64) { outstanding += delta })

	editor := services.NewProductEditorService(&MockProductStore{}, services.EditorOptions{Previews: previews})
	require.NoError(t, editor.OpenNew())
	require.NoError(t, editor.Edit(func(d *draft.Draft) error {
		return d.Images.SetQueued([]staging.File{{Name: "a.png", Data: pngData}, {Name: "b.png", Data: pngData}})
	}))
	assert.Equal(t, int64(2), outstanding)

	require.NoError(t, editor.OpenNew())
	assert.Equal(t, int64(0), outstanding)

	snap, err := editor.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultColor, snap.Fields.Color)

	require.NoError(t, editor.Cancel())
	_, err = editor.Snapshot()
	assert.ErrorIs(t, err, services.ErrNoDraft)
}

func TestProductEditor_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		store := &MockProductStore{}
		editor := services.NewProductEditorService(store, services.EditorOptions{
			Confirmer: providers.ConfirmerFunc(func(context.Context, string) bool { return false }),
		})
		deleted, err := editor.Delete(ctx, "p1")
		require.NoError(t, err)
		assert.False(t, deleted)
		store.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
	})

	t.Run("confirmed", func(t *testing.T) {
		b := newBackend(t)
		id := b.store.SeedProduct(entities.Product{ProductName: "Calpol"})
		notifier := &recordingNotifier{}
		editor := services.NewProductEditorService(b.client, services.EditorOptions{
			Notifier: notifier,
			Sync:     services.SyncOptions{Catalog: b.catalog},
		})

		deleted, err := editor.Delete(ctx, id)
		require.NoError(t, err)
		assert.True(t, deleted)
		_, exists := b.store.Product(id)
		assert.False(t, exists)
		assert.Equal(t, entities.NoticeSuccess, notifier.Last().Level)
		assert.Equal(t, 0, b.catalog.Products.Len())
	})
}

func TestProductEditor_TransportFailureLeavesDraftUnchanged(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	catID := b.store.SeedCategory("Analgesics")
	id := b.store.SeedProduct(entities.Product{
		ProductName: "Calpol",
		Images:      []entities.AttachmentRef{"/u/a.png", "/u/b.png"},
	})
	b.store.FailNext("PUT", "/api/products/update/"+id, fakestore.Failure{Status: 502, Raw: "<html>Bad Gateway</html>"})

	notifier := &recordingNotifier{}
	editor := services.NewProductEditorService(b.client, services.EditorOptions{Notifier: notifier, Finder: b.catalog})
	require.NoError(t, b.catalog.Refresh(ctx, entities.CollectionProducts))
	require.NoError(t, editor.OpenByID(ctx, id))
	require.NoError(t, editor.Edit(func(d *draft.Draft) error {
		fillRequired(t, d, catID)
		d.Images.RemoveKept("/u/a.png")
		return d.Images.SetQueued([]staging.File{{Name: "x.png", Data: pngData}})
	}))
	before, err := editor.Snapshot()
	require.NoError(t, err)

	_, err = editor.Submit(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransport))
	assert.Contains(t, notifier.Last().Message, "Check the connection")

	after, err := editor.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
