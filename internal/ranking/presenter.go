package ranking

import (
	"math"
	"strconv"
	"time"

	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/pkg/utils"
)

// Display badges
const (
	BadgeExceptional = "Exceptional"
	BadgeExcellent   = "Excellent"
	BadgeVeryGood    = "Very good"
	BadgeGood        = "Good"
	BadgeUnrated     = "Unrated"
	BadgeOpenNow     = "Open now"
	BadgeBelowMedian = "Below median price"
)

var scoreBuckets = []struct {
	min   float64
	label string
}{
	{9, BadgeExceptional},
	{8, BadgeExcellent},
	{7, BadgeVeryGood},
	{6, BadgeGood},
}

// amenity tag -> highlight line, in display order
var amenityHighlights = []struct {
	tag  string
	text string
}{
	{"breakfast", "Breakfast included"},
	{"free_cancellation", "Free cancellation"},
	{"no_prepayment", "No prepayment needed"},
}

// PresentOptions carries batch-level values the view needs
type PresentOptions struct {
	PeerMedianPrice float64
	// Nights multiplies lodging prices into a stay total when positive.
	Nights int
}

// Present pairs each candidate with its score and display strings.
// It keeps the input order and never drops an entry.
func Present(sorted []entities.Candidate, scores Scores, opts PresentOptions) []entities.ViewModel {
	views := make([]entities.ViewModel, len(sorted))
	for i := range sorted {
		c := sorted[i]
		score := scores[c.ID]
		views[i] = entities.ViewModel{
			Candidate:  c,
			Score:      score,
			ScoreLabel: strconv.FormatFloat(score, 'f', 1, 64),
			Position:   i + 1,
			Badges:     badges(&c, score, opts.PeerMedianPrice),
			Highlights: highlights(&c),
		}
		if c.Kind == entities.CandidateKindLodging && opts.Nights > 0 {
			total := math.Round(c.Price*float64(opts.Nights)*100) / 100
			views[i].TotalPrice = &total
		}
	}
	return views
}

func badges(c *entities.Candidate, score, median float64) []string {
	out := []string{}
	for _, b := range scoreBuckets {
		if score >= b.min {
			out = append(out, b.label)
			break
		}
	}
	if c.Rating == nil {
		out = append(out, BadgeUnrated)
	}
	if c.Kind == entities.CandidateKindDining && c.IsOpenNow != nil && *c.IsOpenNow {
		out = append(out, BadgeOpenNow)
	}
	if median > 0 && c.Price < median {
		out = append(out, BadgeBelowMedian)
	}
	return out
}

func highlights(c *entities.Candidate) []string {
	if c.Kind != entities.CandidateKindLodging || len(c.Amenities) == 0 {
		return nil
	}
	tags := make(map[string]struct{}, len(c.Amenities))
	for _, a := range c.Amenities {
		tags[utils.NormalizeTag(a)] = struct{}{}
	}
	var out []string
	for _, h := range amenityHighlights {
		if _, ok := tags[h.tag]; ok {
			out = append(out, h.text)
		}
	}
	return out
}

// StayNights returns the number of nights between two ISO dates, at least 1.
// An unreadable date counts as a one-night stay.
func StayNights(checkIn, checkOut string) int {
	in, ok := parseDate(checkIn)
	if !ok {
		return 1
	}
	out, ok := parseDate(checkOut)
	if !ok {
		return 1
	}
	n := int(math.Round(out.Sub(in).Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
