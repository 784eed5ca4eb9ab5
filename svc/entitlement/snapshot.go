package entitlement

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/catalog"
)

// snapshot is the wire form of a Subscription. Timestamps cross the boundary
// as explicit RFC 3339 strings so every backend (file, Redis string, jsonb
// column, browser-style key/value store) round-trips them identically.
type snapshot struct {
	UserID     string            `json:"user_id"`
	Plan       *catalog.Plan     `json:"plan,omitempty"`
	IsActive   bool              `json:"is_active"`
	ExpiresAt  *string           `json:"expires_at,omitempty"`
	DailyUsage map[Feature]int64 `json:"daily_usage"`
	TotalUsage map[Feature]int64 `json:"total_usage"`
	UpdatedAt  string            `json:"updated_at"`
}

// MarshalSnapshot encodes the subscription as the persisted JSON object.
func MarshalSnapshot(sub *Subscription) ([]byte, error) {
	snap := snapshot{
		UserID:     sub.UserID.String(),
		IsActive:   sub.IsActive,
		DailyUsage: sub.DailyUsage,
		TotalUsage: sub.TotalUsage,
		UpdatedAt:  sub.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if sub.Plan != nil {
		plan := *sub.Plan
		plan.Features = append([]string(nil), plan.Features...)
		snap.Plan = &plan
	}
	if sub.ExpiresAt != nil {
		v := sub.ExpiresAt.UTC().Format(time.RFC3339Nano)
		snap.ExpiresAt = &v
	}
	return json.Marshal(snap)
}

// UnmarshalSnapshot decodes a persisted JSON object back into a
// Subscription. Any decoding problem is reported as ErrSnapshotCorrupted so
// callers can fall back to a fresh record.
func UnmarshalSnapshot(raw []byte) (*Subscription, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, errors.Join(ErrSnapshotCorrupted, err)
	}

	userID, err := uuid.Parse(snap.UserID)
	if err != nil {
		return nil, errors.Join(ErrSnapshotCorrupted, err)
	}

	sub := NewFreeSubscription(userID)
	sub.IsActive = snap.IsActive
	sub.Plan = snap.Plan

	if snap.ExpiresAt != nil {
		expires, err := time.Parse(time.RFC3339Nano, *snap.ExpiresAt)
		if err != nil {
			return nil, errors.Join(ErrSnapshotCorrupted, err)
		}
		sub.ExpiresAt = &expires
	}

	if snap.UpdatedAt != "" {
		updated, err := time.Parse(time.RFC3339Nano, snap.UpdatedAt)
		if err != nil {
			return nil, errors.Join(ErrSnapshotCorrupted, err)
		}
		sub.UpdatedAt = updated
	}

	for f, n := range snap.DailyUsage {
		sub.DailyUsage[f] = n
	}
	for f, n := range snap.TotalUsage {
		sub.TotalUsage[f] = n
	}

	return sub, nil
}
