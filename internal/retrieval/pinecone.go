package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	upsertBatchSize = 50
	defaultRegion   = "us-east-1"
)

// PineconeConfig configures the Pinecone-backed retriever.
type PineconeConfig struct {
	APIKey    string
	IndexName string

	// NamespacePrefix is prepended to each collection name to form the
	// Pinecone namespace, e.g. "studybuddy-tutorial_chunks".
	NamespacePrefix string

	// OpenAIAPIKey and EmbeddingModel configure the langchaingo embedder.
	OpenAIAPIKey   string
	EmbeddingModel string
}

// Pinecone is a Retriever backed by a Pinecone serverless index, with one
// namespace per collection. Queries are embedded with an OpenAI model via
// langchaingo. Documents store their text in the "content" metadata field.
type Pinecone struct {
	client   *pinecone.Client
	embedder embeddings.Embedder
	cfg      PineconeConfig

	mu    sync.Mutex
	conns map[Collection]*pinecone.IndexConnection
}

// NewPinecone creates the Pinecone client and the embedder.
func NewPinecone(cfg PineconeConfig) (*Pinecone, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone API key is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("pinecone index name is required")
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	opts := []openai.Option{openai.WithToken(cfg.OpenAIAPIKey)}
	if cfg.EmbeddingModel != "" {
		opts = append(opts, openai.WithEmbeddingModel(cfg.EmbeddingModel))
	}
	embedLLM, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embedLLM)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &Pinecone{
		client:   pc,
		embedder: embedder,
		cfg:      cfg,
		conns:    make(map[Collection]*pinecone.IndexConnection),
	}, nil
}

func (p *Pinecone) namespace(c Collection) string {
	if p.cfg.NamespacePrefix == "" {
		return string(c)
	}
	return p.cfg.NamespacePrefix + "-" + string(c)
}

// conn returns a cached connection to the collection's namespace.
func (p *Pinecone) conn(ctx context.Context, c Collection) (*pinecone.IndexConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ic, ok := p.conns[c]; ok {
		return ic, nil
	}

	desc, err := p.client.DescribeIndex(ctx, p.cfg.IndexName)
	if err != nil {
		return nil, fmt.Errorf("describe index %s: %w", p.cfg.IndexName, err)
	}
	ic, err := p.client.Index(pinecone.NewIndexConnParams{
		Host:      desc.Host,
		Namespace: p.namespace(c),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to index %s: %w", p.cfg.IndexName, err)
	}
	p.conns[c] = ic
	return ic, nil
}

func (p *Pinecone) Query(ctx context.Context, text string, c Collection, k int, f *Filter) ([]Result, error) {
	if !slices.Contains(AllCollections(), c) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	if k <= 0 {
		return nil, nil
	}

	vec, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	ic, err := p.conn(ctx, c)
	if err != nil {
		return nil, err
	}

	req := &pinecone.QueryByVectorValuesRequest{
		Vector:          vec,
		TopK:            uint32(k),
		IncludeMetadata: true,
	}
	if f != nil && f.Topic != "" {
		filter, err := topicFilter(f)
		if err != nil {
			return nil, err
		}
		req.MetadataFilter = filter
	}

	resp, err := ic.QueryByVectorValues(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}
	slog.Debug("pinecone query", "collection", c, "matches", len(resp.Matches))
	return matchesToResults(resp.Matches), nil
}

// Upsert embeds docs and writes them to the collection's namespace.
// It returns the number of vectors written.
func (p *Pinecone) Upsert(ctx context.Context, c Collection, docs []Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	ic, err := p.conn(ctx, c)
	if err != nil {
		return 0, err
	}

	written := 0
	for start := 0; start < len(docs); start += upsertBatchSize {
		batch := docs[start:min(start+upsertBatchSize, len(docs))]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Title + "\n" + d.Content
		}
		vecs, err := p.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return written, fmt.Errorf("embed documents: %w", err)
		}

		vectors, err := documentVectors(batch, vecs)
		if err != nil {
			return written, err
		}
		n, err := ic.UpsertVectors(ctx, vectors)
		if err != nil {
			return written, fmt.Errorf("upsert vectors: %w", err)
		}
		written += int(n)
		slog.Info("upserted vectors", "collection", c, "count", n)
	}
	return written, nil
}

// EnsureIndex creates the serverless index when it does not exist and
// waits until it is ready.
func (p *Pinecone) EnsureIndex(ctx context.Context, dimension int32) error {
	indexes, err := p.client.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	for _, idx := range indexes {
		if idx.Name == p.cfg.IndexName {
			return nil
		}
	}

	metric := pinecone.Cosine
	deletion := pinecone.DeletionProtectionDisabled
	_, err = p.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               p.cfg.IndexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             defaultRegion,
		DeletionProtection: &deletion,
		Tags:               &pinecone.IndexTags{"project": "studybuddy"},
	})
	if err != nil {
		return fmt.Errorf("create index %s: %w", p.cfg.IndexName, err)
	}
	slog.Info("created index", "index", p.cfg.IndexName)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		idx, err := p.client.DescribeIndex(ctx, p.cfg.IndexName)
		if err != nil {
			return fmt.Errorf("describe index %s: %w", p.cfg.IndexName, err)
		}
		if idx.Status != nil && idx.Status.Ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close releases the index connections.
func (p *Pinecone) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c, ic := range p.conns {
		if err := ic.Close(); err != nil {
			slog.Warn("close index connection", "collection", c, "error", err)
		}
	}
	p.conns = make(map[Collection]*pinecone.IndexConnection)
	return nil
}

func topicFilter(f *Filter) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]any{
		"topic": map[string]any{"$eq": string(f.Topic)},
	})
	if err != nil {
		return nil, fmt.Errorf("build topic filter: %w", err)
	}
	return s, nil
}

func documentVectors(docs []Document, vecs [][]float32) ([]*pinecone.Vector, error) {
	if len(vecs) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vecs), len(docs))
	}
	out := make([]*pinecone.Vector, len(docs))
	for i, d := range docs {
		md := d.Metadata()
		md["content"] = d.Content
		meta, err := structpb.NewStruct(md)
		if err != nil {
			return nil, fmt.Errorf("metadata for %s: %w", d.ID, err)
		}
		out[i] = &pinecone.Vector{
			Id:       d.ID,
			Values:   &vecs[i],
			Metadata: meta,
		}
	}
	return out, nil
}

// matchesToResults converts cosine-similarity matches into results with
// distance = 1 - score, sorted ascending.
func matchesToResults(matches []*pinecone.ScoredVector) []Result {
	out := make([]Result, 0, len(matches))
	for _, m := range matches {
		if m == nil || m.Vector == nil || m.Vector.Metadata == nil {
			continue
		}
		meta := m.Vector.Metadata.AsMap()
		content, _ := meta["content"].(string)
		delete(meta, "content")
		out = append(out, Result{
			Content:  content,
			Metadata: meta,
			Distance: 1 - float64(m.Score),
		})
	}
	slices.SortStableFunc(out, func(a, b Result) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return out
}
