package services

import (
	"math"

	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
)

// ratingMidpoint is the center of the 1-5 rating scale. Ratings above it add
// to the score, ratings below it subtract, weighted by rating volume.
const ratingMidpoint = 3.5

// Score maps one video's aggregated signals to its feed rank score.
//
// rep = sqrt(ownerBoostPoints * 1000) / 1000 dampens the owner's reputation;
// every engagement term is log-compressed so no single signal can dominate.
// The final multiplication by rep means a zero-reputation owner scores zero
// regardless of engagement. Product has been asked to confirm that is the
// intended behavior; until then the formula stays as shipped.
func Score(signals entities.VideoSignals) float64 {
	rep := math.Sqrt(float64(clampNonNegative(signals.OwnerBoostPoints))*1000) / 1000

	viewTerm := math.Log(float64(floorOne(signals.ViewCount)))
	ratingVolumeTerm := math.Log(float64(floorOne(signals.RatingCount)))
	commentTerm := math.Log(float64(floorOne(signals.CommentCount)))

	avgRating := signals.AvgRating
	if avgRating < 0 || math.IsNaN(avgRating) {
		avgRating = 0
	}
	ratingQualityTerm := math.Tanh(avgRating-ratingMidpoint) * ratingVolumeTerm

	inner := (rep + 1) + viewTerm + ratingQualityTerm + ratingVolumeTerm + commentTerm
	if inner <= 0 {
		return 0
	}
	return math.Log(inner) * rep
}

func clampNonNegative(value int64) int64 {
	if value < 0 {
		return 0
	}
	return value
}

func floorOne(value int64) int64 {
	if value < 1 {
		return 1
	}
	return value
}
