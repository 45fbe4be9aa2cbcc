package vaultrewards

import "testing"

func TestConstantScheduleEmission(t *testing.T) {
	schedule := ConstantSchedule{Rate: MustAmount(320)}
	got, err := schedule.Emitted(1, 32)
	if err != nil {
		t.Fatalf("emitted: %v", err)
	}
	if got.String() != "9920" {
		t.Fatalf("expected 9920, got %s", got)
	}
	empty, err := schedule.Emitted(5, 5)
	if err != nil {
		t.Fatalf("emitted: %v", err)
	}
	if !empty.IsZero() {
		t.Fatalf("expected empty range to emit nothing, got %s", empty)
	}
}

func TestSteppedScheduleIntegratesAcrossSteps(t *testing.T) {
	schedule, err := NewSteppedSchedule([]Step{
		{StartHeight: 1008, RewardPerBlock: MustAmount(280)},
		{StartHeight: 0, RewardPerBlock: MustAmount(320)},
		{StartHeight: 2016, RewardPerBlock: Amount{}},
	})
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}

	if rate := schedule.RewardPerBlock(1007); rate.String() != "320" {
		t.Fatalf("expected 320 before first boundary, got %s", rate)
	}
	if rate := schedule.RewardPerBlock(1008); rate.String() != "280" {
		t.Fatalf("expected 280 at boundary, got %s", rate)
	}

	// 8 blocks at 320 plus 2 blocks at 280.
	got, err := schedule.Emitted(1000, 1010)
	if err != nil {
		t.Fatalf("emitted: %v", err)
	}
	if got.String() != "3120" {
		t.Fatalf("expected 3120, got %s", got)
	}

	// Programme ends at 2016.
	tail, err := schedule.Emitted(2000, 5000)
	if err != nil {
		t.Fatalf("emitted: %v", err)
	}
	if tail.String() != "4480" {
		t.Fatalf("expected 16*280=4480, got %s", tail)
	}
}

func TestSteppedScheduleBeforeFirstStepEmitsNothing(t *testing.T) {
	schedule, err := NewSteppedSchedule([]Step{{StartHeight: 100, RewardPerBlock: MustAmount(1)}})
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	got, err := schedule.Emitted(0, 105)
	if err != nil {
		t.Fatalf("emitted: %v", err)
	}
	if got.String() != "5" {
		t.Fatalf("expected 5, got %s", got)
	}
}

func TestSteppedScheduleRejectsInvalidSteps(t *testing.T) {
	if _, err := NewSteppedSchedule(nil); err == nil {
		t.Fatalf("expected error for empty schedule")
	}
	_, err := NewSteppedSchedule([]Step{
		{StartHeight: 10, RewardPerBlock: MustAmount(1)},
		{StartHeight: 10, RewardPerBlock: MustAmount(2)},
	})
	if err == nil {
		t.Fatalf("expected error for duplicate start heights")
	}
}

func TestEngineUsesSteppedSchedule(t *testing.T) {
	schedule, err := NewSteppedSchedule([]Step{
		{StartHeight: 0, RewardPerBlock: MustAmount(320)},
		{StartHeight: 3, RewardPerBlock: MustAmount(160)},
	})
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	engine, _, _ := newTestEngine(t, "0")
	if err := engine.SetSchedule(guardian, 0, schedule); err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	mustIncrease(t, engine, alice, "5", 1)
	// Blocks 1 and 2 at 320, blocks 3 and 4 at 160.
	expectPending(t, engine, alice, 5, "960")
}
