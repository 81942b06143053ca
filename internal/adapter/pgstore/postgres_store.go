package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"search-orchestrator/internal/domain"
)

// PostgresStore implements domain.IndexStore on a doc_chunks table with a
// tsvector column for lexical retrieval and a pgvector column for
// similarity retrieval.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) KeywordSearch(ctx context.Context, query string, predicate domain.FilterPredicate, limit int) ([]domain.SearchResult, error) {
	where, args := buildFilter(predicate, 2)
	sql := fmt.Sprintf(`
		SELECT id, title, url, section_path,
		       ts_headline('english', content, websearch_to_tsquery('english', $1),
		                   'MaxWords=40, MinWords=15') AS snippet,
		       docs_version
		FROM doc_chunks
		WHERE content_tsv @@ websearch_to_tsquery('english', $1)%s
		ORDER BY ts_rank(content_tsv, websearch_to_tsquery('english', $1)) DESC
		LIMIT %d
	`, where, limit)

	rows, err := s.pool.Query(ctx, sql, append([]interface{}{query}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to run keyword query: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.URL, &r.SectionPath, &r.Snippet, &r.DocsVersion); err != nil {
			return nil, fmt.Errorf("failed to scan keyword hit: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) VectorSearch(ctx context.Context, embedding []float32, predicate domain.FilterPredicate, limit int) ([]domain.SearchResult, error) {
	where, args := buildFilter(predicate, 2)
	clause := ""
	if where != "" {
		clause = "WHERE " + strings.TrimPrefix(where, " AND ")
	}
	sql := fmt.Sprintf(`
		SELECT id, title, url, section_path, left(content, 240) AS snippet,
		       docs_version,
		       1 - (embedding <=> $1) AS score
		FROM doc_chunks
		%s
		ORDER BY embedding <=> $1
		LIMIT %d
	`, clause, limit)

	rows, err := s.pool.Query(ctx, sql, append([]interface{}{pgvector.NewVector(embedding)}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to run vector query: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		var score float64
		if err := rows.Scan(&r.ID, &r.Title, &r.URL, &r.SectionPath, &r.Snippet, &r.DocsVersion, &score); err != nil {
			return nil, fmt.Errorf("failed to scan vector hit: %w", err)
		}
		// Cosine distance spans [0,2]; clamp the derived similarity into [0,1].
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		r.VectorScore = &score
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) FacetMax(ctx context.Context, field string) (int64, bool, error) {
	if field != "docs_version" {
		return 0, false, fmt.Errorf("unsupported facet field: %s", field)
	}

	var max *int64
	err := s.pool.QueryRow(ctx,
		`SELECT MAX(docs_version) FROM doc_chunks WHERE docs_version <> 0`,
	).Scan(&max)
	if err != nil {
		return 0, false, fmt.Errorf("failed to query max docs_version: %w", err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// buildFilter renders the predicate as AND clauses with placeholders
// starting at argIndex.
func buildFilter(predicate domain.FilterPredicate, argIndex int) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if predicate.SectionPath != "" {
		clauses = append(clauses, fmt.Sprintf("section_path = $%d", argIndex))
		args = append(args, predicate.SectionPath)
		argIndex++
	}
	if predicate.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = $%d", argIndex))
		args = append(args, predicate.Source)
		argIndex++
	}
	if len(predicate.DocsVersions) > 0 {
		clauses = append(clauses, fmt.Sprintf("docs_version = ANY($%d)", argIndex))
		args = append(args, predicate.DocsVersions)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

var _ domain.IndexStore = (*PostgresStore)(nil)
