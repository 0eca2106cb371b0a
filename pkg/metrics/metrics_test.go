package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered on that registry", func() {
				So(manager, ShouldNotBeNil)
				manager.roundsTotal.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetName(), ShouldStartWith, "test_ns_test_sub_")
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "social_auction")
				So(manager.subsystem, ShouldEqual, "engine")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording social evaluations", func() {
			before := testutil.ToFloat64(globalManager.socialEvaluations.WithLabelValues("gemini", OutcomeFallback))
			RecordSocialEvaluation("gemini", OutcomeFallback)
			RecordEvaluatorFallback("parse")

			Convey("Then the labelled counter increases", func() {
				after := testutil.ToFloat64(globalManager.socialEvaluations.WithLabelValues("gemini", OutcomeFallback))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording auction activity", func() {
			before := testutil.ToFloat64(globalManager.roundsTotal)
			RecordRound(12.5)
			RecordRound(3)
			RecordAuctionRun("rule-based")
			UpdateAgentsExhausted(2)

			Convey("Then rounds and gauges reflect it", func() {
				So(testutil.ToFloat64(globalManager.roundsTotal)-before, ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.agentsExhausted), ShouldEqual, 2)
			})
		})

		Convey("When recording the remaining helpers", func() {
			So(func() {
				RecordAuctionError("empty_profiles")
				RecordBidRaise(0.25)
				RecordExternalLatency(420)
				RecordSettlement(OutcomeSuccess)
				RecordStoreLatency("load_auction", 4)
				RecordErrorByComponent("store", "query")
				RecordHTTPRequest("run-auction", "POST", "200")
				RecordHTTPRequestDuration("run-auction", "POST", "200", 15)
			}, ShouldNotPanic)
		})

		Convey("The custom registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
