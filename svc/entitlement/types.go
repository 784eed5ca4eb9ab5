// Package entitlement tracks a user's subscription lifecycle, meters daily
// feature usage against free-tier caps, and answers admission questions
// ("may this action proceed", "how much quota remains").
//
// Decisions here are local and advisory: they reflect the session's own
// counters and make the UI responsive without a network round trip. Binding
// enforcement belongs to the authoritative quota service (svc/quota),
// composed with this package by svc/admission.
package entitlement

// Feature is a metered product capability.
type Feature string

const (
	FeatureCodeAnalysis    Feature = "codeAnalysis"
	FeatureCodeGeneration  Feature = "codeGeneration"
	FeatureProblemSolving  Feature = "problemSolving"
	FeatureVideoGeneration Feature = "videoGeneration" // paid plans only, no free-tier quota
)

// Unlimited is the remaining-quota sentinel for active paid plans.
const Unlimited int64 = -1

// LimitTable maps features to their free-tier daily caps. Values are fixed
// at build time; a zero cap means the free tier may never use the feature.
type LimitTable map[Feature]int64

// DefaultLimits returns the free-tier daily caps of the coding assistant.
func DefaultLimits() LimitTable {
	return LimitTable{
		FeatureCodeAnalysis:    3,
		FeatureCodeGeneration:  3,
		FeatureProblemSolving:  3,
		FeatureVideoGeneration: 0,
	}
}

// MeteredFeatures returns the features carrying daily and lifetime counters.
// Video generation has no counter: free tier can never invoke it and paid
// plans are uncapped.
func MeteredFeatures() []Feature {
	return []Feature{FeatureCodeAnalysis, FeatureCodeGeneration, FeatureProblemSolving}
}

// Metered reports whether the feature carries usage counters.
func (f Feature) Metered() bool {
	switch f {
	case FeatureCodeAnalysis, FeatureCodeGeneration, FeatureProblemSolving:
		return true
	}
	return false
}

// proOnly features are denylisted for the free tier regardless of counters.
var proOnly = map[Feature]struct{}{
	FeatureVideoGeneration: {},
}

// ProOnly reports whether the feature is reserved for active paid plans.
func (f Feature) ProOnly() bool {
	_, ok := proOnly[f]
	return ok
}
