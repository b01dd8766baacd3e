package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/embedding"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/persistence/es"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
)

// Service 把 feed 条目写入 Elasticsearch,配置了 embedder 时附带向量
type Service struct {
	esClient es.TypedEsClient[*model.ItemDoc]
	// 可为空
	embedder embedding.Embedder
	now      func() time.Time
	log      *logger.Logger
}

func NewService(esClient es.TypedEsClient[*model.ItemDoc], embedder embedding.Embedder) *Service {
	return &Service{
		esClient: esClient,
		embedder: embedder,
		now:      time.Now,
		log:      logger.For("archive"),
	}
}

// Init 索引不存在时按映射创建
func (s *Service) Init(ctx context.Context) error {
	return s.esClient.CreateIndexWithMapping(ctx)
}

// Archive 向量化失败时仍写入不带向量的文档
func (s *Service) Archive(ctx context.Context, channel string, feed *model.Feed) error {
	if len(feed.Item) == 0 {
		return nil
	}
	archivedAt := s.now()
	docs := make([]*model.ItemDoc, 0, len(feed.Item))
	for _, item := range feed.Item {
		docs = append(docs, model.NewItemDoc(channel, item, archivedAt))
	}

	if s.embedder != nil {
		s.embeddingDocs(ctx, docs)
	}

	indexed, err := s.esClient.BulkIndexDocsWithID(ctx, docs)
	if err != nil {
		return fmt.Errorf("归档失败: %w", err)
	}
	s.log.Info().
		Str("channel", channel).
		Str("index", s.esClient.Index()).
		Int("indexed", indexed).
		Int("total", len(docs)).
		Msg("feed archived")
	return nil
}

// embeddingDocs 按 embedder 的批量大小分批请求
func (s *Service) embeddingDocs(ctx context.Context, docs []*model.ItemDoc) {
	batchSize := s.embedder.BatchSize()
	if batchSize <= 0 {
		batchSize = len(docs)
	}
	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))
		texts := make([]string, 0, end-i)
		for _, doc := range docs[i:end] {
			texts = append(texts, doc.GetEmbeddingString())
		}
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			s.log.Warn().Err(err).Int("from", i).Int("to", end).Msg("embed batch failed")
			continue
		}
		for j := range vectors {
			if i+j < end {
				docs[i+j].SetEmbedding(vectors[j])
			}
		}
	}
}

// Count 索引中的文档数
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.esClient.CountDocs(ctx)
}
