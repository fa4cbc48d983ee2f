// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"net/http"

	"github.com/tomtom215/herbfinder/internal/auth"
	"github.com/tomtom215/herbfinder/internal/authz"
	"github.com/tomtom215/herbfinder/internal/validation"
)

// AnalyzePlantImage handles POST /analyze_plant_image. It runs or reuses
// identification without creating a post.
//
// @Summary Identify a plant image
// @Tags Identification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnalyzeRequest true "Image reference"
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /analyze_plant_image [post]
func (h *Handler) AnalyzePlantImage(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, verr)
		return
	}

	ctx := r.Context()
	if uid := auth.UserID(ctx); uid != "" {
		if err := h.authorizer.Authorize(ctx, uid, "", authz.ActionAnalyze, clientIP(r)); err != nil {
			respondError(w, r, err)
			return
		}
	}

	result, err := h.analyzer.Analyze(ctx, req.ImageURL)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
