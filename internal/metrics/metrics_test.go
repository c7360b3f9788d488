package metrics

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
	fixtures "github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/testutil"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("")
	r := fixtures.Rowing(t, "AAA")
	m := fixtures.Motor(t, "BBB")

	c.RecordArrival(r, ResultAdmitted)
	c.RecordArrival(r, ResultAdmitted)
	c.RecordArrival(m, ResultTurnedAway)
	c.RecordRemoval(true)
	c.RecordRemoval(false)
	c.RecordTick([]*boat.Boat{r, m})
	c.RecordAuditFailure()
	c.RecordPersistence("save", nil)
	c.RecordPersistence("load", stderrors.New("boom"))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"rowing admitted", testutil.ToFloat64(c.arrivals.WithLabelValues("RowingBoat", ResultAdmitted)), 2},
		{"motor turned away", testutil.ToFloat64(c.arrivals.WithLabelValues("MotorBoat", ResultTurnedAway)), 1},
		{"removed", testutil.ToFloat64(c.removals.WithLabelValues("removed")), 1},
		{"not found", testutil.ToFloat64(c.removals.WithLabelValues("not_found")), 1},
		{"ticks", testutil.ToFloat64(c.ticks), 1},
		{"rowing departures", testutil.ToFloat64(c.departures.WithLabelValues("RowingBoat")), 1},
		{"audit failures", testutil.ToFloat64(c.auditFailures), 1},
		{"save ok", testutil.ToFloat64(c.persistence.WithLabelValues("save", "success")), 1},
		{"load error", testutil.ToFloat64(c.persistence.WithLabelValues("load", "error")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCollector_ObserveHarbor(t *testing.T) {
	c := NewCollector("test")
	date := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	p, err := port.New([]int{3, 4}, port.WithStartDate(date))
	if err != nil {
		t.Fatal(err)
	}
	b := fixtures.Sailing(t, "AAA")
	if _, err := p.TryAdd(b); err != nil {
		t.Fatal(err)
	}

	c.ObserveHarbor(p)
	c.SetTaskRunning("simulation", true)

	if got := testutil.ToFloat64(c.boats); got != 1 {
		t.Errorf("boats = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.freeSlots); got != 5 {
		t.Errorf("free slots = %v, want 5", got)
	}
	if got := testutil.ToFloat64(c.slots); got != 7 {
		t.Errorf("slots = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.totalWeight); got != float64(b.Weight()) {
		t.Errorf("weight = %v, want %d", got, b.Weight())
	}
	if got := testutil.ToFloat64(c.date); got != float64(date.Unix()) {
		t.Errorf("date = %v, want %d", got, date.Unix())
	}
	if got := testutil.ToFloat64(c.tasks.WithLabelValues("simulation")); got != 1 {
		t.Errorf("simulation running = %v, want 1", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("harbor")
	c.RecordTick(nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "harbor_days_total 1") {
		t.Errorf("body missing harbor_days_total:\n%s", rec.Body.String())
	}
}
