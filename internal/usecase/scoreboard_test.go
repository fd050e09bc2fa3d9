package usecase

import (
	"context"
	"html"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/eslsoft/vocquiz/internal/entity"
)

func ratingFixture(points ...int64) []entity.RatingEntry {
	names := []string{"Ann", "Bob", "Cid", "Dan", "Eve", "Fay", "Gus"}
	out := make([]entity.RatingEntry, len(points))
	for i, p := range points {
		out[i] = entity.RatingEntry{ExternalID: int64(i + 1), Name: names[i], Points: p}
	}
	return out
}

func TestRenderRating(t *testing.T) {
	tests := []struct {
		name      string
		rankings  []entity.RatingEntry
		requester int64
		want      string
	}{
		{
			name:      "requester below podium",
			rankings:  ratingFixture(100, 90, 80, 70, 60, 50),
			requester: 6,
			want: "🥇 Ann - 100 points\n" +
				"🥈 Bob - 90 points\n" +
				"🥉 Cid - 80 points\n" +
				"...\n" +
				"<b>6. Fay - 50 points</b>",
		},
		{
			name:      "requester on podium",
			rankings:  ratingFixture(100, 90, 80, 70, 60),
			requester: 2,
			want: "🥇 Ann - 100 points\n" +
				"<b>🥈 Bob - 90 points</b>\n" +
				"🥉 Cid - 80 points",
		},
		{
			name:      "two players",
			rankings:  ratingFixture(10, 5),
			requester: 2,
			want:      "🥇 Ann - 10 points\n<b>🥈 Bob - 5 points</b>",
		},
		{
			name:      "fourth place",
			rankings:  ratingFixture(100, 90, 80, 70, 60),
			requester: 4,
			want: "🥇 Ann - 100 points\n" +
				"🥈 Bob - 90 points\n" +
				"🥉 Cid - 80 points\n" +
				"<b>4. Dan - 70 points</b>",
		},
		{
			name:      "fifth place",
			rankings:  ratingFixture(100, 90, 80, 70, 60, 50, 40),
			requester: 5,
			want: "🥇 Ann - 100 points\n" +
				"🥈 Bob - 90 points\n" +
				"🥉 Cid - 80 points\n" +
				"4. Dan - 70 points\n" +
				"<b>5. Eve - 60 points</b>",
		},
		{
			name:      "absent",
			rankings:  ratingFixture(1, 2),
			requester: 42,
			want:      RatingNotFoundMessage,
		},
		{
			name:      "empty board",
			requester: 1,
			want:      RatingNotFoundMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderRating(tt.rankings, tt.requester); got != tt.want {
				t.Errorf("RenderRating() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderRatingEscapesNames(t *testing.T) {
	got := RenderRating([]entity.RatingEntry{{ExternalID: 1, Name: "<script>", Points: 1}}, 1)
	if strings.Contains(got, "<script>") {
		t.Fatalf("name not escaped: %s", got)
	}
}

func TestAdjustPointsAllowsNegativeTotals(t *testing.T) {
	store := newMemStore()
	registerUser(t, store, 9)
	board := NewScoreBoard(store)
	ctx := context.Background()

	if err := board.AdjustPoints(ctx, 9, 1, true); err != nil {
		t.Fatalf("reward: %v", err)
	}
	if err := board.AdjustPoints(ctx, 9, 3, false); err != nil {
		t.Fatalf("penalty: %v", err)
	}
	user, _ := store.FindByExternalID(ctx, 9)
	if user.Points != -2 {
		t.Errorf("expected -2 points, got %d", user.Points)
	}

	if err := board.AdjustPoints(ctx, 404, 1, true); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestRankingsSortedWithStableTies(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		if _, err := store.Create(ctx, &entity.User{ExternalID: i, Name: gofakeit.FirstName()}); err != nil {
			t.Fatal(err)
		}
	}
	board := NewScoreBoard(store)
	_ = board.AdjustPoints(ctx, 4, 10, true)
	_ = board.AdjustPoints(ctx, 2, 10, true)
	_ = board.AdjustPoints(ctx, 5, 1, false)

	rankings, err := board.Rankings(ctx)
	if err != nil {
		t.Fatalf("Rankings: %v", err)
	}
	var order []int64
	for _, r := range rankings {
		order = append(order, r.ExternalID)
	}
	want := []int64{2, 4, 1, 3, 5}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	text, err := board.RenderRating(ctx, 5)
	if err != nil {
		t.Fatalf("RenderRating: %v", err)
	}
	if !strings.HasSuffix(text, "5. "+html.EscapeString(rankings[4].Name)+" - -1 points</b>") {
		t.Errorf("unexpected rating text:\n%s", text)
	}
}
