package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the allocation engine.
// Supports gradual rollout per college, time-based activation, and
// per-college overrides for staged launches.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	collegeOverrides map[string]map[string]bool // collegeID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Colleges are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	CollegeID string // Tenant the request belongs to
	IsAdmin   bool   // Admin requests bypass rollout gating
}

// Predefined feature flag names.
const (
	// === Allocation Features ===
	FeatureAllocationResultCache = "allocation.result_cache" // Cache allocation runs in Redis
	FeatureAllocationRefreshJob  = "allocation.refresh_job"  // Background ranking recompute

	// === Review Features ===
	FeatureReviewBulk = "review.bulk" // Bulk approve/reject endpoint

	// === Application Features ===
	FeatureApplicationPublicIntake = "application.public_intake" // Unauthenticated submission

	// === Scholarship Features ===
	FeatureScholarshipAutoExpire = "scholarship.auto_expire" // Deadline sweep job

	// === Audit Features ===
	FeatureAuditAsyncRecording = "audit.async_recording" // Record audit entries off the event bus
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:         make(map[string]*Feature),
		collegeOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureAllocationResultCache] = &Feature{
		Name:           FeatureAllocationResultCache,
		Description:    "Serve allocation previews from the ranking cache",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAllocationRefreshJob] = &Feature{
		Name:           FeatureAllocationRefreshJob,
		Description:    "Recompute cached rankings in the background",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureReviewBulk] = &Feature{
		Name:           FeatureReviewBulk,
		Description:    "Bulk approve/reject in a single request",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureApplicationPublicIntake] = &Feature{
		Name:           FeatureApplicationPublicIntake,
		Description:    "Accept applications without an API key",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureScholarshipAutoExpire] = &Feature{
		Name:           FeatureScholarshipAutoExpire,
		Description:    "Close scholarships automatically at their deadline",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAuditAsyncRecording] = &Feature{
		Name:           FeatureAuditAsyncRecording,
		Description:    "Record audit entries from domain events",
		Enabled:        true,
		RolloutPercent: 100,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_REVIEW_BULK=false
// Example: FEATURE_ALLOCATION_RESULT_CACHE=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}

		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
			if b {
				feature.RolloutPercent = 100
			} else {
				feature.RolloutPercent = 0
			}
			continue
		}

		if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
			feature.Enabled = p > 0
			feature.RolloutPercent = p
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "review.bulk" -> "FEATURE_REVIEW_BULK"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check college overrides first
	if ctx != nil && ctx.CollegeID != "" {
		if overrides, ok := ff.collegeOverrides[ctx.CollegeID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin requests see the feature regardless of rollout bucket
	if ctx != nil && ctx.IsAdmin {
		return feature.Enabled
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.CollegeID != "" {
		return ff.isInRollout(ctx.CollegeID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a college is in the rollout percentage.
// Uses consistent hashing so colleges stay in their bucket.
func (ff *FeatureFlags) isInRollout(collegeID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(collegeID))
	hash := h.Sum32()

	bucket := int(hash % 100)

	return bucket < percent
}

// SetCollegeOverride sets a feature override for a specific college.
// Useful for testing and staged launches.
func (ff *FeatureFlags) SetCollegeOverride(collegeID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.collegeOverrides[collegeID]; !ok {
		ff.collegeOverrides[collegeID] = make(map[string]bool)
	}
	ff.collegeOverrides[collegeID][featureName] = enabled
}

// ClearCollegeOverrides removes all overrides for a college.
func (ff *FeatureFlags) ClearCollegeOverrides(collegeID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.collegeOverrides, collegeID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
