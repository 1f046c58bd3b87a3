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

package avrdude

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arduino/arduino-cli/executils"
	"github.com/arduino/arduino-fwdeploy/config"
	"github.com/sirupsen/logrus"
)

const (
	opWrite  = "w"
	opVerify = "v"
)

// Avrdude drives the avrdude command line tool. The tool output is
// forwarded to Stdout and Stderr.
type Avrdude struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
}

// New creates an Avrdude programmer. If verbose is set avrdude is asked to
// print the details of the communication with the bootloader.
func New(stdout, stderr io.Writer, verbose bool) *Avrdude {
	return &Avrdude{
		stdout:  stdout,
		stderr:  stderr,
		verbose: verbose,
	}
}

// Write flashes the image on the device. The implicit verification done by
// avrdude is disabled, it is performed separately by Verify.
func (a *Avrdude) Write(req *config.DeploymentRequest) error {
	logrus.Infof("Flashing %s", req.ImagePath())
	return a.invoke(req, opWrite)
}

// Verify reads back the flash memory and compares it with the image.
func (a *Avrdude) Verify(req *config.DeploymentRequest) error {
	logrus.Infof("Verifying %s", req.ImagePath())
	return a.invoke(req, opVerify)
}

// Args returns the avrdude command line for the given operation, "w" to
// write or "v" to verify.
func (a *Avrdude) Args(req *config.DeploymentRequest, op string) []string {
	prof := req.Profile()
	args := []string{
		prof.Tool,
		"-p" + prof.ChipID,
		"-c" + prof.ProgrammerID,
		"-P" + req.Port(),
		"-b" + strconv.Itoa(req.BaudRate()),
	}
	if op == opWrite {
		args = append(args, "-D", "-V")
	}
	if a.verbose {
		args = append(args, "-v")
	}
	return append(args, "-Uflash:"+op+":"+req.ImagePath().String()+":"+prof.ImageFormat)
}

func (a *Avrdude) invoke(req *config.DeploymentRequest, op string) error {
	args := a.Args(req, op)
	logrus.WithField("port", req.Port()).Debugf("running: %s", strings.Join(args, " "))
	cmd, err := executils.NewProcess(nil, args...)
	if err != nil {
		return err
	}
	cmd.RedirectStdoutTo(a.stdout)
	cmd.RedirectStderrTo(a.stderr)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", args[0], err)
	}
	return nil
}
