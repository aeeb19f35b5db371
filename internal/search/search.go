package search

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/openai/openai-go"
	"github.com/pgvector/pgvector-go"

	"github.com/tradersutopia/tradersutopia/internal/db"
)

var oai *openai.Client
var OpenAIAPIKey string

func InitSearch() {
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	oai = openai.NewClient()
}

// Enabled reports whether embedding is configured. Search is optional:
// without an API key messages are stored without embeddings and the
// search endpoint returns empty results.
func Enabled() bool {
	return OpenAIAPIKey != ""
}

type Result struct {
	MessageID string  `json:"message_id"`
	Content   string  `json:"content"`
	ChannelID string  `json:"channel_id"`
	Distance  float32 `json:"distance"`
}

func newEmbedding(ctx context.Context, text string) ([]float32, error) {
	res, err := oai.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.F(openai.EmbeddingNewParamsInputUnion(openai.EmbeddingNewParamsInputArrayOfStrings{text})),
		Model: openai.F("text-embedding-3-small"),
	})
	if err != nil {
		return nil, err
	}
	// float64 to 32 conversion for pgvector
	var embedding32 []float32
	for _, ve := range res.Data[0].Embedding {
		embedding32 = append(embedding32, float32(ve))
	}
	return embedding32, nil
}

// EmbedMessage embeds one message into the vector table. Best-effort:
// callers run it in a goroutine and ingestion never waits on it.
func EmbedMessage(ctx context.Context, messageID string, serverID string, content string) {
	if !Enabled() || content == "" {
		return
	}
	vector, err := newEmbedding(ctx, content)
	if err != nil {
		log.Printf("Error embedding message %s: %v", messageID, err)
		return
	}
	_, err = db.DbPool.Exec(ctx, `
		INSERT INTO message_embeddings (message_id, server_id, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (message_id) DO UPDATE SET embedding = EXCLUDED.embedding
	`, messageID, serverID, pgvector.NewVector(vector))
	if err != nil {
		log.Printf("Error inserting embedding for message %s: %v", messageID, err)
	}
}

// SearchMessages returns the nearest messages in the server by embedding
// distance.
func SearchMessages(ctx context.Context, serverID string, query string, limit int) ([]Result, error) {
	if !Enabled() {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	queryVector, err := newEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := db.DbPool.Query(ctx, `
		SELECT ms.id, ms.content, ms.channel_id, me.embedding <-> $1 AS distance
		FROM message_embeddings me
		JOIN messages ms ON ms.id = me.message_id
		WHERE me.server_id = $2 AND ms.deleted = FALSE
		ORDER BY distance
		LIMIT $3
	`, pgvector.NewVector(queryVector), serverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.MessageID, &r.Content, &r.ChannelID, &r.Distance); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func DeleteEmbedding(ctx context.Context, messageID string) {
	db.DbPool.Exec(ctx, "DELETE FROM message_embeddings WHERE message_id = $1", messageID)
}
