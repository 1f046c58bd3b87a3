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

// Package programmers defines the boundary between the deployment pipeline
// and the external tools that talk to the device bootloader.
package programmers

import "github.com/arduino/arduino-fwdeploy/config"

// Programmer writes and verifies firmware images on a device. Both
// operations block until the underlying tool completes and return a
// non-nil error if it reports a failure.
type Programmer interface {
	Write(req *config.DeploymentRequest) error
	Verify(req *config.DeploymentRequest) error
}

// ExecOutput contains the output of an external programmer run
type ExecOutput struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}
