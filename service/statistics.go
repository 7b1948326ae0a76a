package service

import (
	"math"
	"sort"

	"review-processor/models"
)

const maxTrendMonths = 12

// ReviewStatistics holds the locally computed aggregates that accompany an
// analysis. Ratings outside [1, 5] and reviews without a rating are
// excluded from the average and distribution.
type ReviewStatistics struct {
	AverageRating      float64
	RatingDistribution map[int]int
	MonthlyTrend       []models.MonthlyRating
	RatedCount         int
}

// ComputeStatistics aggregates stored reviews into an average rating, a
// per-star distribution and a monthly trend capped to the most recent
// twelve months, newest first.
func ComputeStatistics(reviews []*models.Review) *ReviewStatistics {
	stats := &ReviewStatistics{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	type bucket struct {
		sum   float64
		count int
	}
	months := make(map[string]*bucket)

	var sum float64
	for _, r := range reviews {
		if r.Rating == nil || *r.Rating < 1.0 || *r.Rating > 5.0 {
			continue
		}
		rating := *r.Rating
		sum += rating
		stats.RatedCount++

		star := int(math.Round(rating))
		if star < 1 {
			star = 1
		} else if star > 5 {
			star = 5
		}
		stats.RatingDistribution[star]++

		if r.ReviewDate == nil || len(*r.ReviewDate) < 7 {
			continue
		}
		month := (*r.ReviewDate)[:7]
		b, ok := months[month]
		if !ok {
			b = &bucket{}
			months[month] = b
		}
		b.sum += rating
		b.count++
	}

	if stats.RatedCount > 0 {
		stats.AverageRating = math.Round(sum/float64(stats.RatedCount)*100) / 100
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if len(keys) > maxTrendMonths {
		keys = keys[:maxTrendMonths]
	}
	for _, k := range keys {
		b := months[k]
		stats.MonthlyTrend = append(stats.MonthlyTrend, models.MonthlyRating{
			Month:   k,
			Average: math.Round(b.sum/float64(b.count)*100) / 100,
			Count:   b.count,
		})
	}

	return stats
}
