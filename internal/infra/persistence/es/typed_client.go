package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/config"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esutil"
)

type typedEsClient[D model.Document] struct {
	client *elasticsearch.TypedClient
	index  string
	// 仅用于获取映射,不存储数据
	schemaDoc D
	log       *logger.Logger
}

func InitTypedEsClient[D model.Document](cfg *config.Config, schemaDoc D) (TypedEsClient[D], error) {
	typedClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Addresses: []string{cfg.Elasticsearch.Address},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			// 跳过TLS验证（仅在开发环境中使用）
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Elasticsearch client: %w", err)
	}
	return &typedEsClient[D]{
		client:    typedClient,
		index:     cfg.Elasticsearch.Index,
		schemaDoc: schemaDoc,
		log:       logger.For("elasticsearch"),
	}, nil
}

func (tec *typedEsClient[D]) Index() string {
	return tec.index
}

func (tec *typedEsClient[D]) CreateIndexWithMapping(ctx context.Context) error {
	exists, err := tec.client.Indices.Exists(tec.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index existence in es: %w", err)
	}
	if exists {
		tec.log.Info().Str("index", tec.index).Msg("index already exists, skip create")
		return nil
	}

	mapping := tec.schemaDoc.GetTypeMapping()
	if mapping == nil {
		_, err = tec.client.Indices.Create(tec.index).Do(ctx)
	} else {
		_, err = tec.client.Indices.Create(tec.index).Mappings(mapping).Do(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to create index in es: %w", err)
	}
	tec.log.Info().Str("index", tec.index).Msg("index created")
	return nil
}

// BulkIndexDocsWithID 以文档ID写入,同一ID重复写入即覆盖。返回写入成功的数量
func (tec *typedEsClient[D]) BulkIndexDocsWithID(ctx context.Context, docs []D) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         tec.index,
		Client:        tec.client,
		NumWorkers:    2,
		FlushBytes:    5 * 1024 * 1024,
		FlushInterval: 30 * time.Second,
		OnError: func(ctx context.Context, err error) {
			tec.log.Error().Err(err).Msg("bulk indexer error")
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed atomic.Int64
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			tec.log.Warn().Err(err).Str("id", doc.GetID()).Msg("marshal document failed")
			failed.Add(1)
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.GetID(),
			Body:       bytes.NewReader(data),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				ev := tec.log.Warn().Str("id", item.DocumentID)
				if err != nil {
					ev.Err(err).Msg("index document failed")
				} else {
					ev.Str("reason", res.Error.Reason).Msg("index document rejected")
				}
			},
		})
		if err != nil {
			tec.log.Error().Err(err).Str("id", doc.GetID()).Msg("add to bulk indexer failed")
			failed.Add(1)
		}
	}

	// 刷新并关闭批量索引器,确保所有文档都被处理
	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("failed to close bulk indexer: %w", err)
	}
	stats := bi.Stats()
	tec.log.Debug().
		Uint64("indexed", stats.NumIndexed).
		Int64("failed", failed.Load()).
		Msg("bulk indexing completed")
	return int(stats.NumIndexed), nil
}

func (tec *typedEsClient[D]) CountDocs(ctx context.Context) (int64, error) {
	resp, err := tec.client.Count().Index(tec.index).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count docs in es: %w", err)
	}
	return resp.Count, nil
}
