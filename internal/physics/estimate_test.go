package physics

import "testing"

func TestEstimateStepsFollowsDt(t *testing.T) {
	env := DefaultEnvironment()
	p := DefaultParams(env)
	p.Material = "custom"

	// drag-free flight of 20 m/s at 45° lasts about 2.88 s
	coarse := estimateSteps(p, 0.01, env.MaxSteps())
	if coarse < 280 || coarse > 300 {
		t.Errorf("expected about 290 steps at dt=0.01, got %d", coarse)
	}

	fine := estimateSteps(p, 0.001, 300000)
	if fine < 2800 || fine > 3000 {
		t.Errorf("expected about 2885 steps at dt=0.001, got %d", fine)
	}
}

func TestEstimateStepsCapped(t *testing.T) {
	env := DefaultEnvironment()
	p := DefaultParams(env)
	p.InitialVelocity = 2000
	p.LaunchAngle = 90

	if got := estimateSteps(p, 0.01, 100); got != 100 {
		t.Errorf("expected the step cap of 100, got %d", got)
	}
}

func TestSimulateFineDtBufferFits(t *testing.T) {
	env := DefaultEnvironment()
	env.Dt = 0.001
	p := DefaultParams(env)
	p.AirDensity = 1e-12

	samples := Simulate(p, env)
	if cap(samples) != estimateSteps(p, env.Dt, env.MaxSteps()) {
		t.Errorf("sample buffer grew past its estimate: len %d cap %d", len(samples), cap(samples))
	}
}
