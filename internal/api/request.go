package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/materials"
	"github.com/san-kum/ballistics/internal/physics"
)

// number accepts both JSON numbers and numeric strings.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrBadRequest, s)
		}
		*n = number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %s is not a number", ErrBadRequest, data)
	}
	*n = number(v)
	return nil
}

type vec struct {
	X number `json:"x"`
	Y number `json:"y"`
}

func (v vec) vec2() dynamo.Vec2 { return dynamo.V(float64(v.X), float64(v.Y)) }

type trajectoryRequest struct {
	InitialHeight   number `json:"initial_height"`
	InitialVelocity number `json:"initial_velocity"`
	LaunchAngle     number `json:"launch_angle"`
	Material        string `json:"material"`
	WindSpeed       number `json:"wind_speed"`
	WindDirection   number `json:"wind_direction"`
	AirDensity      number `json:"air_density"`
	Gravity         number `json:"gravity"`
	Surface         string `json:"surface"`
}

func defaultTrajectoryRequest(env physics.Environment) trajectoryRequest {
	p := physics.DefaultParams(env)
	return trajectoryRequest{
		InitialHeight:   number(p.InitialHeight),
		InitialVelocity: number(p.InitialVelocity),
		LaunchAngle:     number(p.LaunchAngle),
		Material:        p.Material,
		AirDensity:      number(p.AirDensity),
		Gravity:         number(p.Gravity),
		Surface:         physics.SurfaceConcrete,
	}
}

func (r trajectoryRequest) params() physics.Params {
	return physics.Params{
		InitialHeight:   float64(r.InitialHeight),
		InitialVelocity: float64(r.InitialVelocity),
		LaunchAngle:     float64(r.LaunchAngle),
		Material:        r.Material,
		WindSpeed:       float64(r.WindSpeed),
		WindDirection:   float64(r.WindDirection),
		AirDensity:      float64(r.AirDensity),
		Gravity:         float64(r.Gravity),
	}
}

type batchRequest struct {
	Launches []json.RawMessage `json:"launches"`
}

type objectRequest struct {
	Mass     number `json:"mass"`
	Velocity vec    `json:"velocity"`
}

func (o *objectRequest) UnmarshalJSON(data []byte) error {
	type plain objectRequest
	p := plain{Mass: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = objectRequest(p)
	return nil
}

func (o objectRequest) body() physics.Body {
	return physics.Body{Mass: float64(o.Mass), Velocity: o.Velocity.vec2()}
}

type collisionRequest struct {
	Object1     *objectRequest `json:"object1"`
	Object2     *objectRequest `json:"object2"`
	Restitution number         `json:"restitution"`
}

type forcesRequest struct {
	Mass        number `json:"mass"`
	Velocity    vec    `json:"velocity"`
	Material    string `json:"material"`
	IncludeDrag bool   `json:"include_drag"`
	AirDensity  number `json:"air_density"`
	Gravity     number `json:"gravity"`
}

func defaultForcesRequest(env physics.Environment) forcesRequest {
	return forcesRequest{
		Mass:        1,
		Material:    materials.Basketball,
		IncludeDrag: true,
		AirDensity:  number(env.AirDensity),
		Gravity:     number(env.Gravity),
	}
}

// decode reads a JSON body into dst, which carries the defaults. An empty
// body keeps every default.
func decode(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		if errors.Is(err, ErrBadRequest) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
