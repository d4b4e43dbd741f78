// Package manifest records a completed site build: every project's page
// counts, diagnostics, and status, serialized once per full build.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// SiteManifest is the aggregation of all project build outputs.
type SiteManifest struct {
	ID         string            `json:"id"`
	Title      string            `json:"title,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Projects   []ProjectManifest `json:"projects"`
	ConfigHash string            `json:"config_hash,omitempty"`
	Status     string            `json:"status"`
	DurationMS int64             `json:"duration_ms"`
}

// ProjectManifest captures one project's build outcome.
type ProjectManifest struct {
	Slug        string       `json:"slug"`
	Status      string       `json:"status"`
	Error       string       `json:"error,omitempty"`
	Pages       []PageRecord `json:"pages,omitempty"`
	Touched     int          `json:"touched"`
	Total       int          `json:"total"`
	Diagnostics int          `json:"diagnostics"`
}

// PageRecord is one built page.
type PageRecord struct {
	Slug        string `json:"slug"`
	File        string `json:"file"`
	Title       string `json:"title,omitempty"`
	ContentHash string `json:"content_hash"`
	Touched     bool   `json:"touched"`
}

// ToJSON serializes the manifest.
func (m *SiteManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest.
func FromJSON(data []byte) (*SiteManifest, error) {
	var m SiteManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash over the manifest's content, excluding
// the volatile id, timestamp, and duration fields.
func (m *SiteManifest) Hash() (string, error) {
	normalized := struct {
		Title      string            `json:"title"`
		Projects   []ProjectManifest `json:"projects"`
		ConfigHash string            `json:"config_hash"`
		Status     string            `json:"status"`
	}{
		Title:      m.Title,
		Projects:   m.Projects,
		ConfigHash: m.ConfigHash,
		Status:     m.Status,
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}
