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

package preflight

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arduino/arduino-fwdeploy/config"
	"github.com/arduino/arduino-fwdeploy/phase"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"golang.org/x/exp/slices"
)

// Checker validates that the tool, the firmware image and the serial port
// are all in place before the device is touched.
type Checker struct {
	// LookPath resolves an executable on the search path
	LookPath func(file string) (string, error)
	// ListPorts enumerates the serial ports currently present
	ListPorts func() ([]string, error)
}

// NewChecker creates a Checker that inspects the running system.
func NewChecker() *Checker {
	return &Checker{
		LookPath:  exec.LookPath,
		ListPorts: serial.GetPortsList,
	}
}

// Run performs the checks in order and stops at the first failure.
func (c *Checker) Run(req *config.DeploymentRequest) *phase.Error {
	checks := []func(*config.DeploymentRequest) *phase.Error{
		c.checkTool,
		c.checkArtifact,
		c.checkDevice,
	}
	for _, check := range checks {
		if err := check(req); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkTool(req *config.DeploymentRequest) *phase.Error {
	prof := req.Profile()
	toolPath, err := c.LookPath(prof.Tool)
	if err != nil {
		return phase.Errorf(phase.ToolNotFound, err,
			"%s not found in PATH: %s", prof.Tool, prof.InstallHint)
	}
	logrus.WithField("tool", prof.Tool).Debugf("found programmer at %s", toolPath)
	return nil
}

func (c *Checker) checkArtifact(req *config.DeploymentRequest) *phase.Error {
	image := req.ImagePath()
	buildHint := "build it with `" + req.Profile().BuildCommand + "`"
	info, err := image.Stat()
	if err != nil {
		return phase.Errorf(phase.ArtifactMissing, err,
			"firmware image %s not found: %s", image, buildHint)
	}
	if !info.Mode().IsRegular() {
		return phase.Errorf(phase.ArtifactMissing, nil,
			"firmware image %s is not a regular file: %s", image, buildHint)
	}
	logrus.WithField("image", image).Debugf("firmware image is %d bytes", info.Size())
	return nil
}

func (c *Checker) checkDevice(req *config.DeploymentRequest) *phase.Error {
	port := req.Port()
	info, err := os.Stat(port)
	if err != nil {
		return phase.Errorf(phase.DeviceNotFound, err,
			"serial port %s not found; %s", port, c.describePorts(req.Profile().PortPattern))
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return phase.Errorf(phase.DeviceNotFound, nil,
			"%s is not a character device; %s", port, c.describePorts(req.Profile().PortPattern))
	}
	logrus.WithField("port", port).Debug("serial port is present")
	return nil
}

// describePorts lists the ports matching pattern, to help picking the right
// one when the requested port is wrong.
func (c *Checker) describePorts(pattern string) string {
	ports, err := c.MatchingPorts(pattern)
	if err != nil {
		return "could not list serial ports: " + err.Error()
	}
	if len(ports) == 0 {
		return "no ports matching " + pattern + " are present, is the board connected?"
	}
	return "ports matching " + pattern + ": " + strings.Join(ports, ", ")
}

// MatchingPorts returns the sorted list of present serial ports whose path
// matches the given glob pattern. An empty pattern matches every port.
func (c *Checker) MatchingPorts(pattern string) ([]string, error) {
	ports, err := c.ListPorts()
	if err != nil {
		return nil, err
	}
	res := []string{}
	for _, port := range ports {
		if pattern != "" {
			if ok, err := filepath.Match(pattern, port); err != nil {
				return nil, err
			} else if !ok {
				continue
			}
		}
		res = append(res, port)
	}
	slices.Sort(res)
	return slices.Compact(res), nil
}
