package dto

import (
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
)

// PostRequest carries the optional posting controls.
type PostRequest struct {
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	Override       bool   `json:"override,omitempty"`
	Justification  string `json:"justification,omitempty"`
}

// PostResultResponse is returned on successful posting or an idempotent replay.
type PostResultResponse struct {
	TransactionID  string    `json:"transactionID"`
	DocumentNumber int64     `json:"documentNumber"`
	Status         string    `json:"status"`
	PostedAt       time.Time `json:"postedAt"`
	Warnings       []string  `json:"warnings,omitempty"`
}

// ToPostResultResponse converts the domain result.
func ToPostResultResponse(r *domain.PostResult) PostResultResponse {
	return PostResultResponse{
		TransactionID:  r.TransactionID,
		DocumentNumber: r.DocumentNumber,
		Status:         string(r.Status),
		PostedAt:       r.PostedAt,
		Warnings:       r.Warnings,
	}
}

// ValidationResponse reports the complete outcome of one validation pass.
type ValidationResponse struct {
	Valid      bool                  `json:"valid"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}
