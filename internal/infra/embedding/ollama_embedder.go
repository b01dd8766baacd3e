package embedding

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/config"
	"github.com/cloudwego/eino-ext/components/embedding/ollama"
)

type ollamaEmbedder struct {
	model     *ollama.Embedder
	batchSize int
}

// InitOllamaEmbedder 连接本地 ollama 服务
func InitOllamaEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	model, err := ollama.NewEmbedder(ctx, &ollama.EmbeddingConfig{
		Model:   cfg.Embedder.Model,
		BaseURL: cfg.Embedder.Host + ":" + strconv.Itoa(cfg.Embedder.Port),
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化ollama嵌入器失败: %w", err)
	}
	return &ollamaEmbedder{model: model, batchSize: cfg.Embedder.BatchSize}, nil
}

// BatchSize 返回批量处理大小
func (e *ollamaEmbedder) BatchSize() int {
	return e.batchSize
}

// Embed 将文本转换为向量表示
func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.model.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, err
	}
	return toFloat32(vectors), nil
}

// toFloat32 EmbedStrings 返回 float64,索引中按 float32 存储
func toFloat32(vectors [][]float64) [][]float32 {
	out := make([][]float32, 0, len(vectors))
	for _, v := range vectors {
		f32 := make([]float32, len(v))
		for i, f := range v {
			f32[i] = float32(f)
		}
		out = append(out, f32)
	}
	return out
}
