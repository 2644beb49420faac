package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"academic-ai-be/internal/constant"
	"academic-ai-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "document.process"

func TestProcessorMarksDocumentProcessed(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	factory := newFakeUowFactory()
	workspaces := memory.NewWorkspaceRepository()

	processor := NewProcessorService(pubSub, testTopic, factory, workspaces, nil, nopLogger{})
	require.NoError(t, processor.Consume(context.Background()))

	docSvc := NewDocumentService(factory, &fakeGateway{}, workspaces, NewPublisherService(pubSub, testTopic), nil, nopLogger{})
	uploaded, err := docSvc.Upload(context.Background(), uuid.Nil, &DocumentUpload{
		Filename: "queued.pdf",
		Size:     64,
		MimeType: constant.DocumentMimeTypePDF,
		Content:  bytes.NewReader(make([]byte, 64)),
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		document, ok := workspaces.Get(uuid.Nil).Documents.Get(uploaded.Id)
		return ok && document.Status == constant.DocumentStatusProcessed
	}, 2*time.Second, 10*time.Millisecond)

	document, _ := workspaces.Get(uuid.Nil).Documents.Get(uploaded.Id)
	assert.Equal(t, constant.DocumentPlaceholderContent, document.Content)
}

func TestProcessorPersistsStatusForAuthenticatedUser(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	userId := uuid.New()
	factory := newFakeUowFactory()
	workspaces := memory.NewWorkspaceRepository()

	processor := NewProcessorService(pubSub, testTopic, factory, workspaces, nil, nopLogger{})
	require.NoError(t, processor.Consume(context.Background()))

	docSvc := NewDocumentService(factory, &fakeGateway{}, workspaces, NewPublisherService(pubSub, testTopic), nil, nopLogger{})
	uploaded, err := docSvc.Upload(context.Background(), userId, &DocumentUpload{
		Filename: "queued.pdf",
		Size:     64,
		MimeType: constant.DocumentMimeTypePDF,
		Content:  bytes.NewReader(make([]byte, 64)),
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return factory.uow.docs.statusOf(uploaded.Id) == constant.DocumentStatusProcessed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProcessorIgnoresDeletedDocument(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	factory := newFakeUowFactory()
	workspaces := memory.NewWorkspaceRepository()

	processor := NewProcessorService(pubSub, testTopic, factory, workspaces, nil, nopLogger{})
	require.NoError(t, processor.Consume(context.Background()))

	// Queue a document that was never registered in the workspace.
	publisher := NewPublisherService(pubSub, testTopic)
	require.NoError(t, publisher.PublishProcessDocument(uuid.New(), uuid.Nil))

	// Nothing to assert beyond "no panic, no status writes".
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, factory.uow.docs.statusUpdateCount())
}
