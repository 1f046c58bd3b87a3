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

package config

import (
	"fmt"
	"strconv"

	"github.com/arduino/arduino-fwdeploy/profile"
	"github.com/arduino/go-paths-helper"
)

// DeploymentRequest is the set of parameters of a single deployment. It is
// built once by Resolve and never modified afterwards.
type DeploymentRequest struct {
	port      string
	baudRate  int
	imagePath *paths.Path
	profile   *profile.DeviceProfile
}

// Port is the serial device node the board is connected to
func (r *DeploymentRequest) Port() string { return r.port }

// BaudRate is the serial link speed
func (r *DeploymentRequest) BaudRate() int { return r.baudRate }

// ImagePath is the firmware image to deploy. A copy is returned.
func (r *DeploymentRequest) ImagePath() *paths.Path { return r.imagePath.Clone() }

// Profile is the target device profile
func (r *DeploymentRequest) Profile() profile.DeviceProfile { return *r.profile }

func (r *DeploymentRequest) String() string {
	return fmt.Sprintf("%s on %s@%d (%s via %s)", r.imagePath, r.port, r.baudRate, r.profile.ChipID, r.profile.ProgrammerID)
}

// Resolve builds a DeploymentRequest from up to two positional values, port
// and baud rate, falling back to the profile defaults for the missing ones.
// The values are not checked against the system, that's the job of the
// preflight checks.
func Resolve(args []string, p *profile.DeviceProfile) (*DeploymentRequest, error) {
	if len(args) > 2 {
		return nil, fmt.Errorf("too many arguments: expected at most port and baud rate, got %d values", len(args))
	}
	prof := *p
	req := &DeploymentRequest{
		port:      prof.DefaultPort,
		baudRate:  prof.DefaultBaud,
		imagePath: paths.New(prof.ImagePath),
		profile:   &prof,
	}
	if len(args) > 0 && args[0] != "" {
		req.port = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		baud, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid baud rate %q: %w", args[1], err)
		}
		if baud <= 0 {
			return nil, fmt.Errorf("invalid baud rate %d: must be positive", baud)
		}
		req.baudRate = baud
	}
	return req, nil
}
