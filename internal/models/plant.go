// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package models

import "time"

// Unidentified is recorded when recognition returns no candidates.
const Unidentified = "unidentified"

// Species is a recognition candidate.
type Species struct {
	ScientificName string   `json:"scientificName"`
	CommonNames    []string `json:"commonNames"`
	Family         string   `json:"family"`
}

// Identification is a cached recognition result. Key is the SHA-256 hex
// digest of the exact image URL.
type Identification struct {
	Key        string    `json:"key"`
	ImageURL   string    `json:"imageUrl"`
	Species    Species   `json:"species"`
	ComputedAt time.Time `json:"computedAt"`
}

// PlantKnowledge is translated, enriched metadata for one species.
type PlantKnowledge struct {
	ScientificName string    `json:"scientificName"`
	CommonNames    []string  `json:"commonNames"`
	Family         string    `json:"family"`
	Description    string    `json:"description,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SourceURL      string    `json:"sourceUrl,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AnalysisResult is returned by the identification pipeline.
type AnalysisResult struct {
	PlantName      string   `json:"plantName"`
	ScientificName string   `json:"scientificName"`
	CommonNames    []string `json:"commonNames"`
	Family         string   `json:"family"`
	Description    string   `json:"description,omitempty"`
	Cached         bool     `json:"cached"`
}
