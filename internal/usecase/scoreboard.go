package usecase

import (
	"cmp"
	"context"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/samber/lo"
)

// RatingNotFoundMessage is rendered for users missing from the leaderboard.
const RatingNotFoundMessage = "You are not in the rating yet."

const podiumSize = 3

// ScoreBoard keeps point totals and renders the leaderboard.
type ScoreBoard interface {
	// AdjustPoints adds delta when positive is true and subtracts it otherwise.
	// Totals may go negative.
	AdjustPoints(ctx context.Context, externalID, delta int64, positive bool) error
	Rankings(ctx context.Context) ([]entity.RatingEntry, error)
	// RenderRating returns the HTML leaderboard as seen by externalID.
	RenderRating(ctx context.Context, externalID int64) (string, error)
}

// NewScoreBoard builds a scoreboard over the user store.
func NewScoreBoard(users repository.UserRepository) ScoreBoard {
	return &scoreBoard{users: users}
}

type scoreBoard struct {
	users repository.UserRepository
}

func (s *scoreBoard) AdjustPoints(ctx context.Context, externalID, delta int64, positive bool) error {
	if !positive {
		delta = -delta
	}
	return s.users.AdjustPoints(ctx, externalID, delta)
}

func (s *scoreBoard) Rankings(ctx context.Context) ([]entity.RatingEntry, error) {
	rankings, err := s.users.ListByPointsDesc(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rankings, func(a, b entity.RatingEntry) int {
		return cmp.Compare(b.Points, a.Points)
	})
	return rankings, nil
}

func (s *scoreBoard) RenderRating(ctx context.Context, externalID int64) (string, error) {
	rankings, err := s.Rankings(ctx)
	if err != nil {
		return "", err
	}
	return RenderRating(rankings, externalID), nil
}

// RenderRating formats rankings for the requester:
// ranks 1-3 show the podium, ranks 4-5 show everyone down to the requester,
// lower ranks show the podium, an ellipsis and the requester.
func RenderRating(rankings []entity.RatingEntry, externalID int64) string {
	_, idx, found := lo.FindIndexOf(rankings, func(e entity.RatingEntry) bool {
		return e.ExternalID == externalID
	})
	if !found {
		return RatingNotFoundMessage
	}
	rank := idx + 1

	var b strings.Builder
	switch {
	case rank <= podiumSize:
		writeRatingLines(&b, rankings[:min(podiumSize, len(rankings))], rank)
	case rank <= 5:
		writeRatingLines(&b, rankings[:rank], rank)
	default:
		writeRatingLines(&b, rankings[:podiumSize], 0)
		b.WriteString("...\n")
		b.WriteString("<b>" + formatRatingEntry(rank, rankings[idx]) + "</b>")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRatingLines(b *strings.Builder, entries []entity.RatingEntry, highlight int) {
	for i, e := range entries {
		line := formatRatingEntry(i+1, e)
		if i+1 == highlight {
			line = "<b>" + line + "</b>"
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func formatRatingEntry(rank int, e entity.RatingEntry) string {
	return fmt.Sprintf("%s %s - %d points", Medal(rank), html.EscapeString(e.Name), e.Points)
}

// Medal returns the podium glyph for ranks 1-3 and "<n>." otherwise.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}
