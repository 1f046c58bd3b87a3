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

package report

import (
	"fmt"
	"io"

	"github.com/arduino/arduino-cli/table"
	"github.com/arduino/arduino-fwdeploy/cli/feedback"
	"github.com/arduino/arduino-fwdeploy/config"
	"github.com/arduino/arduino-fwdeploy/deploy"
	"github.com/arduino/arduino-fwdeploy/phase"
	"github.com/arduino/arduino-fwdeploy/programmers"
	"github.com/fatih/color"
)

var descriptions = map[phase.Phase]string{
	phase.Preflight: "checking tool, firmware image and serial port",
	phase.Program:   "writing firmware",
	phase.Verify:    "verifying firmware",
}

// Reporter prints the progress of a deployment as it happens. In JSON
// format nothing is printed until the final Result.
type Reporter struct {
	out     io.Writer
	errOut  io.Writer
	format  feedback.OutputFormat
	running func(a ...interface{}) string
	ok      func(a ...interface{}) string
	failed  func(a ...interface{}) string
}

// New creates a Reporter writing progress to out and failures to errOut.
func New(out, errOut io.Writer, format feedback.OutputFormat) *Reporter {
	return &Reporter{
		out:     out,
		errOut:  errOut,
		format:  format,
		running: color.New(color.FgYellow).SprintFunc(),
		ok:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		failed:  color.New(color.FgRed, color.Bold).SprintFunc(),
	}
}

// PhaseStarted implements deploy.Observer
func (r *Reporter) PhaseStarted(p phase.Phase) {
	if r.format != feedback.Text {
		return
	}
	fmt.Fprintf(r.out, "%s [%s] %s...\n", r.running("▶"), p, descriptions[p])
}

// PhaseFinished implements deploy.Observer
func (r *Reporter) PhaseFinished(o phase.Outcome) {
	if r.format != feedback.Text {
		return
	}
	if o.Succeeded() {
		fmt.Fprintf(r.out, "%s [%s] done\n", r.ok("✔"), o.Phase)
		return
	}
	fmt.Fprintf(r.errOut, "%s [%s] %s\n", r.failed("✖"), o.Phase, r.failed(o.Err.Kind))
}

// ExitCode returns the process exit code for a finished run: Success only
// if every phase up to verify succeeded.
func ExitCode(status *deploy.Status) feedback.ExitCode {
	if status.Succeeded() {
		return feedback.Success
	}
	return feedback.ErrGeneric
}

// Result is the summary of a deployment, printed at the end of the run.
type Result struct {
	Request    *RequestResult          `json:"request"`
	Success    bool                    `json:"success"`
	Phases     []*PhaseResult          `json:"phases"`
	Programmer *programmers.ExecOutput `json:"programmer,omitempty"`
}

// RequestResult describes the parameters the deployment ran with
type RequestResult struct {
	Port       string `json:"port"`
	BaudRate   int    `json:"baud_rate"`
	Image      string `json:"image"`
	Chip       string `json:"chip"`
	Programmer string `json:"programmer"`
}

// PhaseResult is the outcome of a phase. Phases after a failure are
// reported as skipped.
type PhaseResult struct {
	Phase      phase.Phase     `json:"phase"`
	Status     string          `json:"status"`
	ErrorKind  phase.ErrorKind `json:"error_kind,omitempty"`
	Diagnostic string          `json:"diagnostic,omitempty"`
}

// NewResult builds the summary of a finished run. output may be nil when
// the tool output has been streamed to the terminal.
func NewResult(req *config.DeploymentRequest, status *deploy.Status, output *programmers.ExecOutput) *Result {
	prof := req.Profile()
	res := &Result{
		Request: &RequestResult{
			Port:       req.Port(),
			BaudRate:   req.BaudRate(),
			Image:      req.ImagePath().String(),
			Chip:       prof.ChipID,
			Programmer: prof.ProgrammerID,
		},
		Success:    status.Succeeded(),
		Programmer: output,
	}
	for i, p := range phase.All() {
		pr := &PhaseResult{Phase: p, Status: "skipped"}
		if i < len(status.Outcomes) {
			if o := status.Outcomes[i]; o.Succeeded() {
				pr.Status = "success"
			} else {
				pr.Status = "failed"
				pr.ErrorKind = o.Err.Kind
				pr.Diagnostic = o.Err.Diagnostic
			}
		}
		res.Phases = append(res.Phases, pr)
	}
	return res
}

func (r *Result) String() string {
	t := table.New()
	t.SetHeader("Phase", "Status", "Error")
	for _, p := range r.Phases {
		kind := ""
		if p.ErrorKind != 0 {
			kind = p.ErrorKind.String()
		}
		t.AddRow(string(p.Phase), p.Status, kind)
	}
	outcome := "Deployment succeeded: " + r.Request.Image + " written and verified on " + r.Request.Port
	if !r.Success {
		outcome = "Deployment failed."
	}
	return t.Render() + "\n" + outcome
}

// ErrorString implements feedback.ErrorResult
func (r *Result) ErrorString() string {
	for _, p := range r.Phases {
		if p.Status == "failed" {
			return fmt.Sprintf("Error during %s: %s", p.Phase, p.Diagnostic)
		}
	}
	return ""
}

// Data implements feedback.Result
func (r *Result) Data() interface{} {
	return r
}
