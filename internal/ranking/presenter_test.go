package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/domain/entities"
)

func TestPresent_PairsScoresAndKeepsOrder(t *testing.T) {
	cands := []entities.Candidate{lodging("b", 120), lodging("a", 80), lodging("c", 100)}
	scores := Scores{"a": 9.26, "b": 7.0, "c": 5.99}

	views := Present(cands, scores, PresentOptions{PeerMedianPrice: 100})
	require.Len(t, views, 3)

	assert.Equal(t, "b", views[0].ID)
	assert.Equal(t, 1, views[0].Position)
	assert.Equal(t, "7.0", views[0].ScoreLabel)
	assert.Equal(t, []string{BadgeVeryGood, BadgeUnrated}, views[0].Badges)

	assert.Equal(t, "a", views[1].ID)
	assert.Equal(t, "9.3", views[1].ScoreLabel)
	assert.Equal(t, []string{BadgeExceptional, BadgeUnrated, BadgeBelowMedian}, views[1].Badges)

	assert.Equal(t, []string{BadgeUnrated}, views[2].Badges)
}

func TestPresent_IsIdempotent(t *testing.T) {
	cands := []entities.Candidate{lodging("x", 50), lodging("y", 60), lodging("z", 70)}
	scores := Scores{"x": 6, "y": 8, "z": 7}

	first := Present(cands, scores, PresentOptions{PeerMedianPrice: 60})
	again := make([]entities.Candidate, len(first))
	for i, v := range first {
		again[i] = v.Candidate
	}
	second := Present(again, scores, PresentOptions{PeerMedianPrice: 60})

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"x", "y", "z"}, ids(again))
}

func TestPresent_LodgingExtras(t *testing.T) {
	h := lodging("h", 140)
	h.Rating = ptr(4.2)
	h.Amenities = []string{"wifi", "Breakfast", "free-cancellation", "gym"}

	views := Present([]entities.Candidate{h}, Scores{"h": 8.1}, PresentOptions{PeerMedianPrice: 140, Nights: 3})
	require.Len(t, views, 1)

	assert.Equal(t, []string{"Breakfast included", "Free cancellation"}, views[0].Highlights)
	require.NotNil(t, views[0].TotalPrice)
	assert.Equal(t, 420.0, *views[0].TotalPrice)
	assert.Equal(t, []string{BadgeExcellent}, views[0].Badges)
}

func TestPresent_DiningOpenNowBadge(t *testing.T) {
	r := dining("r", 12)
	r.Rating = ptr(4.0)
	r.IsOpenNow = ptr(true)
	r.Amenities = []string{"breakfast"}

	views := Present([]entities.Candidate{r}, Scores{"r": 5}, PresentOptions{PeerMedianPrice: 12, Nights: 2})
	require.Len(t, views, 1)

	assert.Equal(t, []string{BadgeOpenNow}, views[0].Badges)
	assert.Nil(t, views[0].Highlights)
	assert.Nil(t, views[0].TotalPrice, "dining prices are per meal")
}

func TestPresent_Empty(t *testing.T) {
	views := Present(nil, nil, PresentOptions{})
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestStayNights(t *testing.T) {
	tests := []struct {
		in, out string
		want    int
	}{
		{"2026-05-01", "2026-05-04", 3},
		{"2026-05-01", "2026-05-01", 1},
		{"2026-05-04", "2026-05-01", 1},
		{"2026-05-01T14:00:00Z", "2026-05-02T11:00:00Z", 1},
		{"not a date", "2026-05-04", 1},
		{"2026-05-01", "", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StayNights(tt.in, tt.out), "%s -> %s", tt.in, tt.out)
	}
}
