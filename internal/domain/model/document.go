package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// Document 可以写入 Elasticsearch 的文档
type Document interface {
	*ItemDoc
	GetID() string
	GetTypeMapping() *types.TypeMapping
	GetEmbeddingString() string
	SetEmbedding(embedding []float32)
	GetEmbedding() []float32
}

// ItemDoc 归档到 Elasticsearch 的 feed 条目
type ItemDoc struct {
	ID          string    `json:"id"`
	Channel     string    `json:"channel"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Author      string    `json:"author"`
	PubDate     time.Time `json:"pub_date"`
	Updated     time.Time `json:"updated"`
	Description string    `json:"description"`
	Closed      bool      `json:"closed"`
	Degraded    bool      `json:"degraded"`
	ArchivedAt  time.Time `json:"archived_at"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// EmbeddingDims 与 embedder 使用的模型维度一致
const EmbeddingDims = 1024

func NewItemDoc(channel string, item FeedItem, archivedAt time.Time) *ItemDoc {
	return &ItemDoc{
		ID:          item.GUID,
		Channel:     channel,
		Title:       item.Title,
		Link:        item.Link,
		Author:      item.Author,
		PubDate:     item.PubDate,
		Updated:     item.Updated,
		Description: item.Description,
		Closed:      item.Closed,
		Degraded:    item.Degraded,
		ArchivedAt:  archivedAt,
	}
}

func (d *ItemDoc) GetID() string {
	return d.ID
}

func (d *ItemDoc) GetTypeMapping() *types.TypeMapping {
	dims := EmbeddingDims
	embedding := types.NewDenseVectorProperty()
	embedding.Dims = &dims
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"channel":     types.NewKeywordProperty(),
			"title":       types.NewTextProperty(),
			"link":        types.NewKeywordProperty(),
			"author":      types.NewKeywordProperty(),
			"pub_date":    types.NewDateProperty(),
			"updated":     types.NewDateProperty(),
			"description": types.NewTextProperty(),
			"closed":      types.NewBooleanProperty(),
			"degraded":    types.NewBooleanProperty(),
			"archived_at": types.NewDateProperty(),
			"embedding":   embedding,
		},
	}
}

// GetEmbeddingString 标题和单位足以区分不同的招聘
func (d *ItemDoc) GetEmbeddingString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "标题: %s\n", d.Title)
	fmt.Fprintf(&sb, "单位: %s\n", d.Author)
	if d.Closed {
		sb.WriteString("状态: 已结束")
	} else {
		sb.WriteString("状态: 进行中")
	}
	return sb.String()
}

func (d *ItemDoc) SetEmbedding(embedding []float32) {
	d.Embedding = embedding
}

func (d *ItemDoc) GetEmbedding() []float32 {
	return d.Embedding
}
