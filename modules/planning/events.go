package planning

import (
	"github.com/sirupsen/logrus"

	"github.com/northstarhq/northstar/modules/planning/services"
	"github.com/northstarhq/northstar/pkg/eventbus"
)

// registerAuditSubscribers records the mutations that change derived
// state, so operators can trace reconciles and recomputes back to the
// goal or KPI they touched.
func registerAuditSubscribers(bus eventbus.EventBus, log *logrus.Logger) {
	bus.Subscribe(func(e *services.SeriesReconciledEvent) {
		log.WithFields(logrus.Fields{
			"goal_id": e.GoalID,
			"created": len(e.Result.Created),
			"deleted": e.Result.DeletedCount,
		}).Info("goal series reconciled")
	})
	bus.Subscribe(func(e *services.KpiRecomputedEvent) {
		fields := logrus.Fields{
			"kpi_id":        e.Kpi.ID(),
			"actual_metric": e.Kpi.ActualMetric(),
		}
		if met := e.Kpi.MetTarget(); met != nil {
			fields["met_target"] = *met
		}
		log.WithFields(fields).Info("kpi aggregates recomputed")
	})
}
