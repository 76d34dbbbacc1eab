package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/san-kum/ballistics/internal/export"
	"github.com/san-kum/ballistics/internal/metrics"
	"github.com/san-kum/ballistics/internal/physics"
	"github.com/san-kum/ballistics/internal/present"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// computeTrajectory validates the launch, integrates it and renders the
// result with its summary, impact estimate and metrics.
func (s *Server) computeTrajectory(req trajectoryRequest) (*present.Trajectory, error) {
	p := req.params()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mat := s.catalog.Lookup(p.Material)
	ms := metrics.Default(physics.NewProjectile(p))
	samples, err := physics.Run(p, s.env, nil, ms...)
	if err != nil {
		return nil, err
	}
	return present.NewTrajectory(mat, samples, req.Surface, metrics.Collect(ms))
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) error {
	req := defaultTrajectoryRequest(s.env)
	if err := decode(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		return err
	}

	out, err := s.computeTrajectory(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrajectorySVG(w http.ResponseWriter, r *http.Request) error {
	req := defaultTrajectoryRequest(s.env)
	if err := decode(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		return err
	}

	p := req.params()
	if err := p.Validate(); err != nil {
		return err
	}
	samples, err := physics.Run(p, s.env, nil)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, err = fmt.Fprint(w, export.TrajectorySVG(samples, export.DefaultSVGOptions()))
	return err
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) error {
	var batch batchRequest
	if err := decode(w, r, s.cfg.MaxBodyBytes, &batch); err != nil {
		return err
	}
	if len(batch.Launches) == 0 || len(batch.Launches) > s.cfg.MaxBatch {
		return fmt.Errorf("%w: got %d launches, want 1..%d", ErrBatchSize, len(batch.Launches), s.cfg.MaxBatch)
	}

	reqs := make([]trajectoryRequest, len(batch.Launches))
	launches := make([]physics.Params, len(batch.Launches))
	for i, raw := range batch.Launches {
		reqs[i] = defaultTrajectoryRequest(s.env)
		if err := json.Unmarshal(raw, &reqs[i]); err != nil {
			return fmt.Errorf("%w: launch %d: %v", ErrBadRequest, i, err)
		}
		launches[i] = reqs[i].params()
		if err := launches[i].Validate(); err != nil {
			return fmt.Errorf("launch %d: %w", i, err)
		}
	}

	results, err := physics.SimulateBatch(r.Context(), launches, s.env)
	if err != nil {
		return err
	}

	out := make([]*present.Trajectory, len(results))
	for i, samples := range results {
		mat := s.catalog.Lookup(launches[i].Material)
		out[i], err = present.NewTrajectory(mat, samples, reqs[i].Surface, nil)
		if err != nil {
			return fmt.Errorf("launch %d: %w", i, err)
		}
	}
	return writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func (s *Server) handleCollision(w http.ResponseWriter, r *http.Request) error {
	req := collisionRequest{Restitution: 1}
	if err := decode(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		return err
	}
	if req.Object1 == nil || req.Object2 == nil {
		return ErrMissingOperand
	}

	a, b := req.Object1.body(), req.Object2.body()
	if err := a.Validate(); err != nil {
		return fmt.Errorf("object1: %w", err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("object2: %w", err)
	}
	e := float64(req.Restitution)
	if err := physics.ValidateRestitution(e); err != nil {
		return err
	}

	out, err := present.NewCollision(physics.ResolveCollision(a, b, e))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleForces(w http.ResponseWriter, r *http.Request) error {
	req := defaultForcesRequest(s.env)
	if err := decode(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		return err
	}

	body := physics.Body{Mass: float64(req.Mass), Velocity: req.Velocity.vec2()}
	if err := body.Validate(); err != nil {
		return err
	}
	env := s.env
	env.AirDensity = float64(req.AirDensity)
	env.Gravity = float64(req.Gravity)
	if err := env.Validate(); err != nil {
		return err
	}

	mat := s.catalog.Lookup(req.Material)
	out, err := present.NewForces(physics.ComposeForces(body.Mass, body.Velocity, mat, req.IncludeDrag, env))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]any{"materials": s.catalog.All()})
}

func (s *Server) handleMaterial(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	_ = writeJSON(w, http.StatusOK, map[string]any{
		"material": s.catalog.Lookup(name),
		"known":    s.catalog.Known(name),
	})
}

func (s *Server) handleSurfaces(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]float64)
	for _, name := range physics.Surfaces() {
		out[name] = physics.SurfaceFactor(name)
	}
	_ = writeJSON(w, http.StatusOK, map[string]any{"surfaces": out})
}
