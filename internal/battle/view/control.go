package view

import (
	"fmt"

	"go.uber.org/zap"
)

// PanelState is the control panel's display state.
type PanelState int

const (
	// PanelIdle shows only the start control.
	PanelIdle PanelState = iota
	// PanelRunning shows pause and speed controls.
	PanelRunning
	// PanelPaused shows resume and speed controls.
	PanelPaused
	// PanelFinished shows the outcome and the leave control.
	PanelFinished
)

// String returns the display name of the panel state.
func (s PanelState) String() string {
	switch s {
	case PanelIdle:
		return "idle"
	case PanelRunning:
		return "running"
	case PanelPaused:
		return "paused"
	case PanelFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// BattleControls is what the panel's buttons drive: the bridge's host
// control surface. The panel never talks to the combat engine directly.
type BattleControls interface {
	Pause() error
	Resume() error
	SetSpeed(multiplier float64) error
}

// ControlPanel tracks which battle controls are offered to the user. State
// moves on bus events, not on button presses, so the panel always reflects
// what actually happened.
type ControlPanel struct {
	logger   *zap.Logger
	controls BattleControls
	state    PanelState
	speed    float64
}

// NewControlPanel creates an idle panel wired to the given controls.
func NewControlPanel(controls BattleControls, logger *zap.Logger) *ControlPanel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ControlPanel{
		logger:   logger,
		controls: controls,
		state:    PanelIdle,
		speed:    1.0,
	}
}

// State returns the current panel state.
func (p *ControlPanel) State() PanelState { return p.state }

// Speed returns the displayed speed multiplier.
func (p *ControlPanel) Speed() float64 { return p.speed }

// OnBattleStarted moves the panel to running.
func (p *ControlPanel) OnBattleStarted() {
	p.state = PanelRunning
}

// OnBattleEnded moves the panel to finished regardless of prior state.
func (p *ControlPanel) OnBattleEnded() {
	p.state = PanelFinished
}

// OnPaused reflects a confirmed pause.
func (p *ControlPanel) OnPaused() {
	if p.state == PanelRunning {
		p.state = PanelPaused
	}
}

// OnResumed reflects a confirmed resume.
func (p *ControlPanel) OnResumed() {
	if p.state == PanelPaused {
		p.state = PanelRunning
	}
}

// OnSpeedChanged reflects a confirmed speed change.
func (p *ControlPanel) OnSpeedChanged(multiplier float64) {
	if multiplier > 0 {
		p.speed = multiplier
	}
}

// Reset returns the panel to idle at scene teardown.
func (p *ControlPanel) Reset() {
	p.state = PanelIdle
	p.speed = 1.0
}

// ClickPause forwards the pause button press.
func (p *ControlPanel) ClickPause() error {
	if p.state != PanelRunning {
		return fmt.Errorf("pause not available while %s", p.state)
	}
	if p.controls == nil {
		return fmt.Errorf("no battle controls attached")
	}
	return p.controls.Pause()
}

// ClickResume forwards the resume button press.
func (p *ControlPanel) ClickResume() error {
	if p.state != PanelPaused {
		return fmt.Errorf("resume not available while %s", p.state)
	}
	if p.controls == nil {
		return fmt.Errorf("no battle controls attached")
	}
	return p.controls.Resume()
}

// ClickSpeed forwards a speed selection.
func (p *ControlPanel) ClickSpeed(multiplier float64) error {
	if p.state != PanelRunning && p.state != PanelPaused {
		return fmt.Errorf("speed control not available while %s", p.state)
	}
	if p.controls == nil {
		return fmt.Errorf("no battle controls attached")
	}
	return p.controls.SetSpeed(multiplier)
}
