package fairness_test

import (
	"context"
	"testing"

	"github.com/adrian2504/TradeHack/internal/domain/fairness"
	"github.com/adrian2504/TradeHack/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLinearPredict(t *testing.T) {
	Convey("Given a final ranking", t, func() {
		ranking := []model.ScoreEntry{
			{Name: "B", SocialScore: 0.5, FinalScore: 0.85},
			{Name: "A", SocialScore: 0.9, FinalScore: 0.3},
		}

		Convey("When the default linear predictor runs", func() {
			scores, err := fairness.NewLinear().Predict(context.Background(), ranking)

			Convey("Then scores blend 80% social and 20% final in ranking order", func() {
				So(err, ShouldBeNil)
				So(scores, ShouldResemble, []model.FairnessScore{
					{Name: "B", Score: 0.57},
					{Name: "A", Score: 0.78},
				})
			})
		})

		Convey("When the blend exceeds one", func() {
			scores, err := fairness.Linear{SocialShare: 1, FinalShare: 1}.Predict(context.Background(), ranking)

			Convey("Then it is clamped", func() {
				So(err, ShouldBeNil)
				So(scores[0].Score, ShouldEqual, 1)
			})
		})

		Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := fairness.NewLinear().Predict(ctx, ranking)
			So(err, ShouldEqual, context.Canceled)
		})
	})
}
