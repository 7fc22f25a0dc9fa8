// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// templateName is the index template installed by EnsureTemplate.
const templateName = "retention-analytics"

// ESStore writes documents to Elasticsearch through a circuit breaker.
// The breaker opens after a 60% failure rate over at least 5 requests and
// probes recovery after 30 seconds, so a cluster outage fails the run
// quickly instead of retrying every bulk call into a dead endpoint.
type ESStore struct {
	client      *elasticsearch.Client
	breaker     *gobreaker.CircuitBreaker[*esapi.Response]
	indexPrefix string
	log         zerolog.Logger
}

// ESStoreConfig carries the connection settings for NewESStore.
type ESStoreConfig struct {
	URL      string
	Username string
	Password string
	// IndexPrefix scopes the index template's pattern; normally the
	// configured metric index name.
	IndexPrefix string
}

// NewESStore connects to Elasticsearch and wraps it in a circuit breaker.
func NewESStore(cfg ESStoreConfig, log zerolog.Logger) (*ESStore, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	esLog := log.With().Str("component", "elasticsearch").Logger()
	breaker := gobreaker.NewCircuitBreaker[*esapi.Response](gobreaker.Settings{
		Name:        "elasticsearch",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			esLog.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
		},
	})

	return &ESStore{
		client:      client,
		breaker:     breaker,
		indexPrefix: cfg.IndexPrefix,
		log:         esLog,
	}, nil
}

// execute runs one API call through the breaker, treating HTTP-level error
// responses as failures so they count toward opening the circuit.
func (s *ESStore) execute(op string, fn func() (*esapi.Response, error)) error {
	res, err := s.breaker.Execute(func() (*esapi.Response, error) {
		res, err := fn()
		if err != nil {
			return nil, err
		}
		if res.IsError() {
			defer res.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
			return nil, fmt.Errorf("%s: %s: %s", op, res.Status(), body)
		}
		return res, nil
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// A bulk call can return 200 with per-item failures.
	if op == "bulk" {
		return checkBulkItems(res.Body)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

// bulkResponse is the subset of the bulk API response needed to detect
// per-item failures.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

func checkBulkItems(r io.Reader) error {
	var resp bulkResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if !resp.Errors {
		return nil
	}
	for _, item := range resp.Items {
		for _, result := range item {
			if result.Error != nil {
				return fmt.Errorf("bulk item %s failed: status %d: %s: %s",
					result.ID, result.Status, result.Error.Type, result.Error.Reason)
			}
		}
	}
	return fmt.Errorf("bulk request reported errors")
}

// Bulk indexes docs into index with one NDJSON bulk request. Document IDs
// make the operation idempotent: a re-run replaces the earlier documents.
func (s *ESStore) Bulk(ctx context.Context, index string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		action := map[string]map[string]string{
			"index": {"_index": index, "_id": doc.ID},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return fmt.Errorf("encode bulk action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(doc.Body); err != nil {
			return fmt.Errorf("encode bulk document: %w", err)
		}
	}

	return s.execute("bulk", func() (*esapi.Response, error) {
		return s.client.Bulk(bytes.NewReader(buf.Bytes()),
			s.client.Bulk.WithContext(ctx))
	})
}

// matchAllQuery reads a whole index in one page. Lookup indices hold at
// most a few thousand documents per day.
const matchAllQuery = `{"query":{"match_all":{}},"size":10000}`

// searchResponse is the subset of the search API response MatchAll needs.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// MatchAll returns every document of the index. A missing index yields an
// empty result rather than an error, matching the existence-flag treatment
// of absent upstream data.
func (s *ESStore) MatchAll(ctx context.Context, index string) ([]Hit, error) {
	res, err := s.breaker.Execute(func() (*esapi.Response, error) {
		res, err := s.client.Search(
			s.client.Search.WithContext(ctx),
			s.client.Search.WithIndex(index),
			s.client.Search.WithBody(strings.NewReader(matchAllQuery)),
		)
		if err != nil {
			return nil, err
		}
		if res.StatusCode == 404 {
			return res, nil
		}
		if res.IsError() {
			defer res.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
			return nil, fmt.Errorf("search %s: %s: %s", index, res.Status(), body)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		s.log.Warn().Str("index", index).Msg("lookup index missing")
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, nil
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	hits := make([]Hit, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		hits = append(hits, Hit{ID: h.ID, Source: h.Source})
	}
	return hits, nil
}

// EnsureTemplate installs the index template covering the metric index and
// its log sibling. Field types are pinned so the first document of a run
// cannot dynamic-map a keyword field as text.
func (s *ESStore) EnsureTemplate(ctx context.Context) error {
	template := map[string]any{
		"index_patterns": []string{s.indexPrefix + "*"},
		"template": map[string]any{
			"settings": map[string]any{
				"number_of_shards":   1,
				"number_of_replicas": 1,
			},
			"mappings": map[string]any{
				"properties": map[string]any{
					"@timestamp": map[string]any{"type": "date", "format": "epoch_millis"},
					"date":       map[string]any{"type": "keyword"},
					"type":       map[string]any{"type": "keyword"},
					"sub_type":   map[string]any{"type": "keyword"},
					"platform":   map[string]any{"type": "keyword"},
					"channel":    map[string]any{"type": "keyword"},
					"count":      map[string]any{"type": "long"},
					"total":      map[string]any{"type": "long"},
					"retention":  map[string]any{"type": "double"},
					"level":      map[string]any{"type": "keyword"},
					"message":    map[string]any{"type": "text"},
					"batch":      map[string]any{"type": "keyword"},
				},
			},
		},
	}

	body, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("marshal index template: %w", err)
	}

	err = s.execute("put index template", func() (*esapi.Response, error) {
		return s.client.Indices.PutIndexTemplate(templateName,
			bytes.NewReader(body),
			s.client.Indices.PutIndexTemplate.WithContext(ctx))
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("template", templateName).Msg("index template ensured")
	return nil
}
