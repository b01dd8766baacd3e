package es

import (
	"context"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
)

// TypedEsClient 文档类型为 D 的单索引客户端
type TypedEsClient[D model.Document] interface {
	Index() string
	CreateIndexWithMapping(ctx context.Context) error
	BulkIndexDocsWithID(ctx context.Context, docs []D) (int, error)
	CountDocs(ctx context.Context) (int64, error)
}
