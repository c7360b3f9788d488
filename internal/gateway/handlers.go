package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/health"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

// BoatView is the JSON form of a berthed or offered boat.
type BoatView struct {
	boat.Data
	Identity   string  `json:"identity"`
	BerthSpace float64 `json:"berthSpace"`
	BerthTime  int     `json:"berthTime"`
}

// SlotView is the JSON form of one slot listing row.
type SlotView struct {
	Dock     int       `json:"dock"`
	Slot     int       `json:"slot"`
	Boat     *BoatView `json:"boat,omitempty"`
	Days     int       `json:"days,omitempty"`
	DaysLeft int       `json:"daysLeft,omitempty"`
	Shared   bool      `json:"shared,omitempty"`
}

// AddResult reports the outcome of offering a boat.
type AddResult struct {
	Boat     BoatView `json:"boat"`
	Admitted bool     `json:"admitted"`
}

// TickResult lists the boats that left while time advanced.
type TickResult struct {
	Date string     `json:"date"`
	Left []BoatView `json:"left"`
}

// SimulationStatus reports whether the simulation driver runs.
type SimulationStatus struct {
	Running bool `json:"running"`
}

// ErrorBody is returned with every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

func viewOf(b *boat.Boat) BoatView {
	return BoatView{
		Data:       b.Data(),
		Identity:   b.IdentityCode(),
		BerthSpace: b.BerthSpace(),
		BerthTime:  b.BerthTime(),
	}
}

func viewsOf(boats []*boat.Boat) []BoatView {
	views := make([]BoatView, 0, len(boats))
	for _, b := range boats {
		views = append(views, viewOf(b))
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

// statusFor maps a harbor error to an HTTP status.
func statusFor(err error) int {
	switch errors.GetExitCode(err) {
	case errors.ExitValidation, errors.ExitConfigError:
		return http.StatusBadRequest
	case errors.ExitDuplicateIdentity:
		return http.StatusConflict
	case errors.ExitBoatNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorBody{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := health.Check(r.Context(), s.ctl, s.started)
	status := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctl.Stats())
}

func (s *Server) handleBoats(w http.ResponseWriter, r *http.Request) {
	var boats []*boat.Boat
	s.ctl.View(func(h port.Harbor) { boats = h.Boats() })
	writeJSON(w, http.StatusOK, viewsOf(boats))
}

func (s *Server) handleBoat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		b     *boat.Boat
		found bool
	)
	s.ctl.View(func(h port.Harbor) { b, found = port.Base(h).Find(id) })
	if !found {
		writeError(w, errors.BoatNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, viewOf(b))
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	rows := s.ctl.Rows()
	views := make([]SlotView, 0, len(rows))
	for _, row := range rows {
		v := SlotView{Dock: row.Dock, Slot: row.Slot}
		if row.Boat != nil {
			bv := viewOf(row.Boat)
			v.Boat = &bv
			v.Days = row.Days
			v.DaysLeft = row.DaysLeft
			v.Shared = row.Shared
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleTurnedAway(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewsOf(s.ctl.TurnedAway()))
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "tail", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	lines, err := s.ctl.LogLines(n)
	if err != nil {
		writeError(w, err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, lines)
}

// handleAddBoat offers the boat in the body, or a random one when the
// body is empty.
func (s *Server) handleAddBoat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.ValidationError("failed to read body"))
		return
	}

	var (
		b  *boat.Boat
		ok bool
	)
	if len(body) == 0 {
		b, ok, err = s.ctl.AddRandom()
	} else {
		var data boat.Data
		if err := json.Unmarshal(body, &data); err != nil {
			writeError(w, errors.ValidationError("invalid boat: "+err.Error()))
			return
		}
		b, err = parseBoat(data)
		if err != nil {
			writeError(w, err)
			return
		}
		ok, err = s.ctl.Add(b)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if ok {
		status = http.StatusCreated
	}
	writeJSON(w, status, AddResult{Boat: viewOf(b), Admitted: ok})
}

func (s *Server) handleRemoveBoat(w http.ResponseWriter, r *http.Request) {
	b, err := s.ctl.Remove(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(b))
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 1)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := control.CheckTickDays(days); err != nil {
		writeError(w, err)
		return
	}
	left := s.ctl.TickDays(days)
	writeJSON(w, http.StatusOK, TickResult{Date: s.ctl.Stats().Date, Left: viewsOf(left)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Docks []int `json:"docks"`
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.ValidationError("failed to read body"))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, errors.ValidationError("invalid reset request: "+err.Error()))
			return
		}
	}
	if err := s.ctl.Reset(req.Docks); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctl.Stats())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.ctl.Save(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.ctl.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctl.Stats())
}

func (s *Server) handleSimulationStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SimulationStatus{Running: s.ctl.SimulationRunning()})
}

func (s *Server) handleSimulationStart(w http.ResponseWriter, r *http.Request) {
	if !s.ctl.StartSimulation(s.base) {
		logging.Debug("simulation already running")
	}
	writeJSON(w, http.StatusAccepted, SimulationStatus{Running: true})
}

func (s *Server) handleSimulationStop(w http.ResponseWriter, r *http.Request) {
	if err := s.ctl.StopSimulation(r.Context()); err != nil {
		writeError(w, errors.ServerError("failed to stop simulation", err))
		return
	}
	writeJSON(w, http.StatusOK, SimulationStatus{Running: s.ctl.SimulationRunning()})
}

// parseBoat builds the offered boat. A missing code is generated.
func parseBoat(data boat.Data) (*boat.Boat, error) {
	if data.Code != "" {
		return boat.FromData(data)
	}
	kind, err := boat.ParseKind(data.Type)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	return boat.New(kind, data.Weight, data.TopSpeed, data.Characteristic)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ValidationError("invalid " + name + ": " + raw)
	}
	return n, nil
}
