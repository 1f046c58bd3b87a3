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

// Package phase contains the vocabulary shared by the deployment pipeline
// stages: the phase names, the error taxonomy and the per-phase outcome.
package phase

import "fmt"

// Phase identifies a stage of the deployment pipeline.
type Phase string

const (
	// Preflight validates the environment before touching the device
	Preflight Phase = "preflight"
	// Program writes the firmware image to the device
	Program Phase = "program"
	// Verify reads the device back and compares it with the image
	Verify Phase = "verify"
)

// All returns the phases in execution order.
func All() []Phase {
	return []Phase{Preflight, Program, Verify}
}

// ErrorKind classifies a phase failure.
type ErrorKind int

const (
	// ToolNotFound means the external programmer is not on the search path
	ToolNotFound ErrorKind = iota + 1
	// ArtifactMissing means the firmware image has not been built
	ArtifactMissing
	// DeviceNotFound means the serial port is missing or not a device node
	DeviceNotFound
	// FlashWriteError means the programmer failed to write the image
	FlashWriteError
	// FlashVerifyError means the device content does not match the image
	FlashVerifyError
)

var kindNames = map[ErrorKind]string{
	ToolNotFound:     "ToolNotFound",
	ArtifactMissing:  "ArtifactMissing",
	DeviceNotFound:   "DeviceNotFound",
	FlashWriteError:  "FlashWriteError",
	FlashVerifyError: "FlashVerifyError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON output.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is the failure of a single phase. Diagnostic is meant for the
// operator and always carries a remediation hint.
type Error struct {
	Kind       ErrorKind
	Diagnostic string
	Cause      error
}

// Errorf builds an Error of the given kind with a formatted diagnostic.
func Errorf(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:       kind,
		Diagnostic: fmt.Sprintf(format, args...),
		Cause:      cause,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Diagnostic)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Outcome is the tagged result of one phase: a nil Err means success.
type Outcome struct {
	Phase Phase
	Err   *Error
}

// Succeeded returns true if the phase completed without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
