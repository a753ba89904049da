package services

import (
	"testing"

	"github.com/nutrisight/nutrisight-go/internal/dto"
)

func TestAggregateRatings(t *testing.T) {
	tests := []struct {
		name      string
		stars     []int
		wantAvg   float64
		wantCount int
	}{
		{name: "no ratings", stars: nil, wantAvg: 0, wantCount: 0},
		{name: "single rating", stars: []int{4}, wantAvg: 4.0, wantCount: 1},
		{name: "rounds to one decimal", stars: []int{5, 4, 4}, wantAvg: 4.3, wantCount: 3},
		{name: "rounds half up", stars: []int{4, 5}, wantAvg: 4.5, wantCount: 2},
		{name: "repeating decimal", stars: []int{1, 1, 2}, wantAvg: 1.3, wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count := aggregateRatings(tt.stars)
			if avg != tt.wantAvg {
				t.Errorf("avg = %v, want %v", avg, tt.wantAvg)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestRateRejectsOutOfRangeStars(t *testing.T) {
	svc := NewProductService(nil, nil)

	for _, stars := range []int{0, -1, 6} {
		err := svc.Rate(mustUUID(t), mustUUID(t), &dto.RateProductRequest{StarRating: stars})
		if err != ErrInvalidRating {
			t.Errorf("Rate(stars=%d) error = %v, want ErrInvalidRating", stars, err)
		}
	}
}
