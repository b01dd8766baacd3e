package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEsClient struct {
	created bool
	docs    []*model.ItemDoc
	err     error
}

func (f *fakeEsClient) Index() string { return "test_index" }

func (f *fakeEsClient) CreateIndexWithMapping(context.Context) error {
	f.created = true
	return nil
}

func (f *fakeEsClient) BulkIndexDocsWithID(_ context.Context, docs []*model.ItemDoc) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.docs = append(f.docs, docs...)
	return len(docs), nil
}

func (f *fakeEsClient) CountDocs(context.Context) (int64, error) {
	return int64(len(f.docs)), nil
}

type fakeEmbedder struct {
	batchSize int
	batches   [][]string
	failAt    int
}

func (f *fakeEmbedder) BatchSize() int { return f.batchSize }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if len(f.batches) == f.failAt {
		return nil, errors.New("ollama unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(f.batches)), float32(i)}
	}
	return out, nil
}

func testFeed(n int) *model.Feed {
	feed := &model.Feed{Title: "test"}
	for i := range n {
		feed.Item = append(feed.Item, model.FeedItem{
			Title: "item",
			GUID:  "recruitment-" + string(rune('a'+i)),
		})
	}
	return feed
}

func TestArchiveIndexesEveryItem(t *testing.T) {
	client := &fakeEsClient{}
	svc := NewService(client, nil)
	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.Init(context.Background()))
	require.NoError(t, svc.Archive(context.Background(), "recruitment", testFeed(3)))

	assert.True(t, client.created)
	require.Len(t, client.docs, 3)
	for _, doc := range client.docs {
		assert.Equal(t, "recruitment", doc.Channel)
		assert.Equal(t, fixed, doc.ArchivedAt)
		assert.Nil(t, doc.Embedding)
	}
	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestArchiveEmbedsInBatches(t *testing.T) {
	client := &fakeEsClient{}
	embedder := &fakeEmbedder{batchSize: 2, failAt: 2}
	svc := NewService(client, embedder)

	require.NoError(t, svc.Archive(context.Background(), "dynamic", testFeed(5)))

	assert.Len(t, embedder.batches, 3)
	require.Len(t, client.docs, 5)
	assert.Equal(t, []float32{1, 0}, client.docs[0].Embedding)
	assert.Equal(t, []float32{1, 1}, client.docs[1].Embedding)
	// 第二批失败,文档仍然写入
	assert.Nil(t, client.docs[2].Embedding)
	assert.Nil(t, client.docs[3].Embedding)
	assert.Equal(t, []float32{3, 0}, client.docs[4].Embedding)
}

func TestArchiveReturnsIndexError(t *testing.T) {
	svc := NewService(&fakeEsClient{err: errors.New("cluster red")}, nil)

	err := svc.Archive(context.Background(), "dynamic", testFeed(1))
	assert.ErrorContains(t, err, "cluster red")

	assert.NoError(t, svc.Archive(context.Background(), "dynamic", testFeed(0)))
}
