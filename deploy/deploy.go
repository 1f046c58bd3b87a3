/*
	arduino-fwdeploy
	Copyright (c) 2026 Arduino LLC.  All right reserved.

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package deploy sequences the deployment phases: preflight, program and
// verify. The run stops at the first failing phase, nothing is retried.
package deploy

import (
	"github.com/arduino/arduino-fwdeploy/config"
	"github.com/arduino/arduino-fwdeploy/phase"
	"github.com/arduino/arduino-fwdeploy/programmers"
	"github.com/sirupsen/logrus"
)

// State is the position of a run in the pipeline state machine
type State string

const (
	Idle         State = "idle"
	Preflighting State = "preflighting"
	Programming  State = "programming"
	Verifying    State = "verifying"
	Done         State = "done"
	Aborted      State = "aborted"
)

var phaseStates = map[phase.Phase]State{
	phase.Preflight: Preflighting,
	phase.Program:   Programming,
	phase.Verify:    Verifying,
}

// Status accumulates the outcome of every attempted phase, in order.
type Status struct {
	State    State
	Outcomes []phase.Outcome
}

// Succeeded returns true if the run reached the Done state.
func (s *Status) Succeeded() bool {
	return s.State == Done
}

// Failure returns the outcome of the phase that aborted the run, if any.
func (s *Status) Failure() (phase.Outcome, bool) {
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			return o, true
		}
	}
	return phase.Outcome{}, false
}

// Observer is notified as the pipeline moves through the phases.
type Observer interface {
	PhaseStarted(p phase.Phase)
	PhaseFinished(o phase.Outcome)
}

// PreflightChecker validates the environment before the device is touched.
type PreflightChecker interface {
	Run(req *config.DeploymentRequest) *phase.Error
}

// Pipeline runs a deployment against a Programmer.
type Pipeline struct {
	checker    PreflightChecker
	programmer programmers.Programmer
	observer   Observer
}

// NewPipeline creates a Pipeline. observer may be nil.
func NewPipeline(checker PreflightChecker, programmer programmers.Programmer, observer Observer) *Pipeline {
	return &Pipeline{
		checker:    checker,
		programmer: programmer,
		observer:   observer,
	}
}

// Run executes the phases in order for req and returns the final status.
func (p *Pipeline) Run(req *config.DeploymentRequest) *Status {
	status := &Status{State: Idle}
	steps := []struct {
		phase phase.Phase
		run   func(*config.DeploymentRequest) *phase.Error
	}{
		{phase.Preflight, p.checker.Run},
		{phase.Program, p.write},
		{phase.Verify, p.verify},
	}

	logrus.WithField("request", req).Info("Starting deployment")
	for _, step := range steps {
		status.State = phaseStates[step.phase]
		if p.observer != nil {
			p.observer.PhaseStarted(step.phase)
		}
		outcome := phase.Outcome{Phase: step.phase, Err: step.run(req)}
		status.Outcomes = append(status.Outcomes, outcome)
		if p.observer != nil {
			p.observer.PhaseFinished(outcome)
		}
		if !outcome.Succeeded() {
			logrus.WithField("phase", step.phase).WithError(outcome.Err).Error("Deployment aborted")
			status.State = Aborted
			return status
		}
	}
	status.State = Done
	logrus.Info("Deployment completed")
	return status
}

func (p *Pipeline) write(req *config.DeploymentRequest) *phase.Error {
	if err := p.programmer.Write(req); err != nil {
		return phase.Errorf(phase.FlashWriteError, err,
			"writing %s to %s failed: %s; check the connection and that the board is in bootloader mode, then try again",
			req.ImagePath(), req.Port(), err)
	}
	return nil
}

func (p *Pipeline) verify(req *config.DeploymentRequest) *phase.Error {
	if err := p.programmer.Verify(req); err != nil {
		return phase.Errorf(phase.FlashVerifyError, err,
			"device content on %s does not match %s: %s; serial noise is common at high baud rates, try again or pass a lower baud rate",
			req.Port(), req.ImagePath(), err)
	}
	return nil
}
