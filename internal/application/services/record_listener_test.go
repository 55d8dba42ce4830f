package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mishcolife/catalogadmin/internal/adapters/events"
	"github.com/mishcolife/catalogadmin/internal/application/services"
	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
)

func TestRecordListener_RefreshesOnRemoteEvents(t *testing.T) {
	ctx := context.Background()
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	refreshed := make(chan entities.Collection, 4)
	refresher := &MockRefresher{}
	refresher.On("Refresh", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { refreshed <- args.Get(1).(entities.Collection) }).
		Return(nil)

	listener := services.NewRecordListener(refresher, bus, "", "editor-1")
	require.NoError(t, listener.Start())
	t.Cleanup(listener.Stop)

	channel := providers.CollectionChannel(providers.DefaultRecordChannel, entities.CollectionCategories)

	own := entities.NewRecordEvent(entities.CollectionCategories, "c1", entities.RecordEventUpdated)
	own.Source = "editor-1"
	require.NoError(t, bus.Publish(ctx, channel, own))

	remote := entities.NewRecordEvent(entities.CollectionCategories, "c2", entities.RecordEventDeleted)
	remote.Source = "editor-2"
	require.NoError(t, bus.Publish(ctx, channel, remote))

	select {
	case c := <-refreshed:
		assert.Equal(t, entities.CollectionCategories, c)
	case <-time.After(time.Second):
		t.Fatal("mirror not refreshed")
	}

	// events on one channel are handled in order, so the own event was skipped
	refresher.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestRecordSync_PublishesAndRefreshesThroughBus(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	// a second process mirroring the same store
	mirror := services.NewCatalogService(services.CatalogStores{
		Products:   b.client,
		Categories: b.client,
		Blogs:      b.client,
		Contacts:   b.client,
	}, nil, services.ImageResolver{}, nil)
	listener := services.NewRecordListener(mirror, bus, "", "editor-2")
	require.NoError(t, listener.Start())
	t.Cleanup(listener.Stop)

	categories := services.NewCategoryService(b.client, services.SyncOptions{Bus: bus, Source: "editor-1"}, nil, nil, nil)
	_, err := categories.Add(ctx, "Vitamins")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return mirror.Categories.Len() == 1
	}, time.Second, 10*time.Millisecond)
}
