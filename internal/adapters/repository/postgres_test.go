package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/adrian2504/TradeHack/internal/domain/model"
)

var bidColumns = []string{
	"user_id", "name", "email", "affiliation", "strategy",
	"philantrophy_score", "socialimpact_score", "bid_amount", "donation",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock, NewPostgresStore(db)
}

func TestLoadAuction(t *testing.T) {
	Convey("Given a stored auction with two bids", t, func() {
		db, mock, store := setupMockDB(t)
		defer db.Close()

		mock.ExpectQuery("from auction").
			WithArgs("auc-1").
			WillReturnRows(sqlmock.NewRows([]string{"donation_weight", "profile_weight", "fairness_weight", "impact_area", "min_donation"}).
				AddRow(2.0, 1.0, 1.0, "clean water", 50.0))
		mock.ExpectQuery("from bid b").
			WithArgs("auc-1").
			WillReturnRows(sqlmock.NewRows(bidColumns).
				AddRow("u1", "Ann", "ann@example.org", "Red Cross nurse", "", 40, 70, 100.0, 500.0).
				AddRow("u2", "Ann", "", "", "greedy", 0, 0, 300.0, 0.0).
				AddRow("u3", "Cy", "", "", "", 0, 0, 20.0, 400.0).
				AddRow("u4", "Di", "", "", "", 0, 0, 10.0, 30.0))

		in, err := store.LoadAuction(context.Background(), "auc-1")

		Convey("Then weights are normalized with fairness on the social side", func() {
			So(err, ShouldBeNil)
			So(in.Weights.Money, ShouldEqual, 0.5)
			So(in.Weights.Social, ShouldEqual, 0.25)
			So(in.Weights.Fairness, ShouldEqual, 0.25)
			So(in.ImpactArea, ShouldEqual, "clean water")
			So(in.MinDonation, ShouldEqual, 50)
		})

		Convey("Then each bid becomes a profile", func() {
			So(in.Profiles, ShouldHaveLength, 4)
			ann := in.Profiles[0]
			So(ann.UserID, ShouldEqual, "u1")
			So(ann.Profession, ShouldEqual, "Red Cross nurse")
			So(ann.Strategy, ShouldEqual, "balanced")
			So(ann.StartBid, ShouldEqual, 100)
			So(ann.MaxBid, ShouldEqual, 500)
			So(ann.SocialContribution, ShouldContainSubstring, "clean water")
			So(ann.SocialContribution, ShouldContainSubstring, "philanthropy_score=40")
		})

		Convey("Then duplicate names are disambiguated and missing donations fall back to the bid", func() {
			second := in.Profiles[1]
			So(second.Name, ShouldEqual, "Ann (u2)")
			So(second.MaxBid, ShouldEqual, 300)
			So(second.Strategy, ShouldEqual, "greedy")
			So(second.SocialContribution, ShouldContainSubstring, "no specified organization")
			So(model.ValidateSet(in.Profiles), ShouldBeNil)
		})

		Convey("Then the auction minimum floors opening bids up to each bidder's max", func() {
			So(in.Profiles[2].StartBid, ShouldEqual, 50)
			So(in.Profiles[2].MaxBid, ShouldEqual, 400)
			So(in.Profiles[3].StartBid, ShouldEqual, 30)
			So(in.Profiles[3].MaxBid, ShouldEqual, 30)
		})

		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("Given an unknown auction", t, func() {
		db, mock, store := setupMockDB(t)
		defer db.Close()
		mock.ExpectQuery("from auction").WithArgs("missing").WillReturnError(sql.ErrNoRows)

		_, err := store.LoadAuction(context.Background(), "missing")

		So(errors.Is(err, ErrAuctionNotFound), ShouldBeTrue)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("Given an auction without bids", t, func() {
		db, mock, store := setupMockDB(t)
		defer db.Close()
		mock.ExpectQuery("from auction").
			WithArgs("empty").
			WillReturnRows(sqlmock.NewRows([]string{"donation_weight", "profile_weight", "fairness_weight", "impact_area", "min_donation"}).
				AddRow(0.0, 0.0, 0.0, "", 0.0))
		mock.ExpectQuery("from bid b").WithArgs("empty").WillReturnRows(sqlmock.NewRows(bidColumns))

		_, err := store.LoadAuction(context.Background(), "empty")

		So(errors.Is(err, ErrNoBids), ShouldBeTrue)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})
}

func TestSaveScores(t *testing.T) {
	result := model.RunResult{
		RunID: "run-1",
		Rounds: []model.RoundResult{{
			RoundIndex: 1,
			Ranking: []model.ScoreEntry{
				{Name: "B", MoneyScore: 1, SocialScore: 0.5, FinalScore: 0.85, Profile: model.BidderProfile{UserID: "u2"}},
				{Name: "A", MoneyScore: 0, SocialScore: 0.456, FinalScore: 0.319, Profile: model.BidderProfile{UserID: "u1"}},
				{Name: "Guest", MoneyScore: 0.2, SocialScore: 0.2, FinalScore: 0.2},
			},
		}},
		Fairness: []model.FairnessScore{{Name: "A", Score: 0.7}},
	}

	Convey("Given a finished run", t, func() {
		db, mock, store := setupMockDB(t)
		defer db.Close()

		Convey("When scores are saved", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`update "user"`).
				WithArgs(int64(100), int64(50), 0.5, 0.85, "u2").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(`update "user"`).
				WithArgs(int64(0), int64(46), 0.7, 0.319, "u1").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			err := store.SaveScores(context.Background(), result)

			Convey("Then every stored user is updated in one transaction", func() {
				So(err, ShouldBeNil)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When an update fails", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`update "user"`).WillReturnError(errors.New("connection reset"))
			mock.ExpectRollback()

			err := store.SaveScores(context.Background(), result)

			Convey("Then the transaction is rolled back", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "u2")
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When the result has no rounds", func() {
			So(errors.Is(store.SaveScores(context.Background(), model.RunResult{}), ErrNoRounds), ShouldBeTrue)
		})
	})
}
