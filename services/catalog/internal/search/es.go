package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

type ES struct {
	Client         *elasticsearch.Client
	DoctorsIndex   string
	MedicinesIndex string
}

func NewESClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

func NewES(client *elasticsearch.Client) *ES {
	return &ES{Client: client, DoctorsIndex: KindDoctors, MedicinesIndex: KindMedicines}
}

func (s *ES) Doctors(ctx context.Context, q string, offset, limit int) (int64, []models.Doctor, error) {
	var out []models.Doctor
	total, err := s.search(ctx, s.DoctorsIndex, q, []string{"name^2", "specialization", "bio"}, offset, limit, &out)
	return total, out, err
}

func (s *ES) Medicines(ctx context.Context, q string, offset, limit int) (int64, []models.Medicine, error) {
	var out []models.Medicine
	total, err := s.search(ctx, s.MedicinesIndex, q, []string{"name^2", "description"}, offset, limit, &out)
	return total, out, err
}

func (s *ES) PutDoctor(ctx context.Context, d *models.Doctor) error {
	return s.put(ctx, s.DoctorsIndex, d.ID.String(), d)
}

func (s *ES) PutMedicine(ctx context.Context, m *models.Medicine) error {
	return s.put(ctx, s.MedicinesIndex, m.ID.String(), m)
}

func (s *ES) put(ctx context.Context, index, id string, doc any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("index %s/%s: %w", index, id, err)
	}

	res, err := s.Client.Index(index, &buf,
		s.Client.Index.WithContext(ctx),
		s.Client.Index.WithDocumentID(id),
		s.Client.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()
	return responseError(res)
}

// search runs a fuzzy multi_match query and decodes every hit's _source
// into dest, which must point to a slice.
func (s *ES) search(ctx context.Context, index, q string, fields []string, from, size int, dest any) (int64, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    fields,
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, fmt.Errorf("search %s: %w", index, err)
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(index),
		s.Client.Search.WithBody(&buf),
		s.Client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, fmt.Errorf("search %s: %w", index, err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return 0, err
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, fmt.Errorf("search %s: decode: %w", index, err)
	}

	sources := make([]json.RawMessage, len(r.Hits.Hits))
	for i, h := range r.Hits.Hits {
		sources[i] = h.Source
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return 0, fmt.Errorf("search %s: decode hits: %w", index, err)
	}
	return r.Hits.Total.Value, nil
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch: %s: %s", res.Status(), bytes.TrimSpace(body))
}
