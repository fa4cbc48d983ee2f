// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package identify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/identcache"
	"github.com/tomtom215/herbfinder/internal/knowledge"
	"github.com/tomtom215/herbfinder/internal/logging"
	"github.com/tomtom215/herbfinder/internal/metrics"
	"github.com/tomtom215/herbfinder/internal/models"
	"github.com/tomtom215/herbfinder/internal/recognition"
	"github.com/tomtom215/herbfinder/internal/storage"
)

// ImageResolver locates an uploaded image and signs a read URL for it.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (*storage.ResolvedImage, error)
}

// Recognizer returns ranked species candidates for an image URL.
type Recognizer interface {
	Identify(ctx context.Context, imageURL string) ([]recognition.Candidate, error)
}

// Translator localizes a batch of strings index for index.
type Translator interface {
	Translate(ctx context.Context, texts []string) ([]string, error)
}

// Encyclopedia returns an optional summary for a species.
type Encyclopedia interface {
	Lookup(ctx context.Context, title string) (*knowledge.Summary, error)
}

// KnowledgeStore persists plant knowledge entries.
type KnowledgeStore interface {
	GetKnowledge(ctx context.Context, scientificName string) (*models.PlantKnowledge, error)
	PutKnowledge(ctx context.Context, k *models.PlantKnowledge) error
}

// Deps are the collaborators of a Service. Encyclopedia may be nil.
type Deps struct {
	Images       ImageResolver
	Cache        identcache.Cache
	Recognizer   Recognizer
	Translator   Translator
	Encyclopedia Encyclopedia
	Knowledge    KnowledgeStore
}

// Service runs the identification pipeline.
type Service struct {
	deps   Deps
	group  singleflight.Group
	logger zerolog.Logger
}

// NewService creates a pipeline over deps.
func NewService(deps Deps) *Service {
	return &Service{
		deps:   deps,
		logger: logging.WithComponent("identify"),
	}
}

// Analyze identifies the image at imageRef and returns the localized result.
//
// Errors wrap storage.ErrInvalidReference, storage.ErrImageNotFound,
// recognition.ErrUnavailable, recognition.ErrUpstream or a database error.
func (s *Service) Analyze(ctx context.Context, imageRef string) (*models.AnalysisResult, error) {
	img, err := s.deps.Images.Resolve(ctx, imageRef)
	if err != nil {
		return nil, err
	}

	key := identcache.Key(imageRef)
	species, cached, err := s.species(ctx, key, imageRef, img.SignedURL)
	if err != nil {
		return nil, err
	}

	k, err := s.ensureKnowledge(ctx, species)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResult{
		PlantName:      species.ScientificName,
		ScientificName: species.ScientificName,
		CommonNames:    k.CommonNames,
		Family:         k.Family,
		Description:    k.Description,
		Cached:         cached,
	}, nil
}

// species returns the cached species for key, or recognizes signedURL.
// Concurrent misses for one key share a single recognition that keeps
// running when the caller that started it goes away; each caller stops
// waiting when its own ctx is done.
func (s *Service) species(ctx context.Context, key, imageRef, signedURL string) (models.Species, bool, error) {
	ident, err := s.deps.Cache.Get(ctx, key)
	if err == nil {
		return ident.Species, true, nil
	}
	if !errors.Is(err, identcache.ErrMiss) {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Identification cache read failed; recognizing")
	}

	ch := s.group.DoChan(key, func() (any, error) {
		return s.recognize(context.WithoutCancel(ctx), key, imageRef, signedURL)
	})
	select {
	case <-ctx.Done():
		return models.Species{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Species{}, false, fmt.Errorf("recognize image: %w", res.Err)
		}
		return res.Val.(models.Species), false, nil
	}
}

// recognize runs recognition and stores the result under key. The upstream
// client's timeout bounds ctx.
func (s *Service) recognize(ctx context.Context, key, imageRef, signedURL string) (any, error) {
	// A flight that starts after an earlier one stored key reuses its result.
	if ident, err := s.deps.Cache.Get(ctx, key); err == nil {
		return ident.Species, nil
	}

	candidates, err := s.deps.Recognizer.Identify(ctx, signedURL)
	if err != nil {
		return nil, err
	}
	species := recognition.Best(candidates)

	ident := &models.Identification{Key: key, ImageURL: imageRef, Species: species}
	if err := s.deps.Cache.Put(ctx, ident); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to store identification")
	}
	return species, nil
}

// ensureKnowledge returns the knowledge entry for species, creating it on a miss.
func (s *Service) ensureKnowledge(ctx context.Context, species models.Species) (*models.PlantKnowledge, error) {
	if species.ScientificName == models.Unidentified {
		return &models.PlantKnowledge{ScientificName: models.Unidentified, CommonNames: []string{}}, nil
	}

	k, err := s.deps.Knowledge.GetKnowledge(ctx, species.ScientificName)
	if err == nil {
		metrics.KnowledgeCacheHits.Inc()
		return k, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("read plant knowledge: %w", err)
	}
	metrics.KnowledgeCacheMisses.Inc()

	k = &models.PlantKnowledge{
		ScientificName: species.ScientificName,
		CommonNames:    append([]string{}, species.CommonNames...),
		Family:         species.Family,
	}

	texts := append(append([]string{}, species.CommonNames...), species.Family)
	translated, err := s.deps.Translator.Translate(ctx, texts)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("species", species.ScientificName).
			Msg("Translation failed; returning untranslated names")
		return k, nil
	}
	k.CommonNames = nonBlank(translated[:len(species.CommonNames)])
	k.Family = translated[len(species.CommonNames)]

	if s.deps.Encyclopedia != nil {
		summary, err := s.deps.Encyclopedia.Lookup(ctx, species.ScientificName)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Str("species", species.ScientificName).Msg("Knowledge lookup failed")
		} else if summary != nil {
			k.Description = summary.Description
			k.ImageURL = summary.ImageURL
			k.SourceURL = summary.PageURL
		}
	}

	if err := s.deps.Knowledge.PutKnowledge(ctx, k); err != nil {
		return nil, fmt.Errorf("store plant knowledge: %w", err)
	}
	s.logger.Debug().Str("species", k.ScientificName).Msg("Plant knowledge created")
	return k, nil
}

func nonBlank(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
