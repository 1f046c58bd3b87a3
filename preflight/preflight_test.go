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
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/arduino/arduino-fwdeploy/config"
	"github.com/arduino/arduino-fwdeploy/phase"
	"github.com/arduino/arduino-fwdeploy/profile"
	"github.com/arduino/go-paths-helper"
	"github.com/stretchr/testify/require"
)

func fakeChecker(toolFound bool, ports ...string) *Checker {
	return &Checker{
		LookPath: func(file string) (string, error) {
			if !toolFound {
				return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
			}
			return "/usr/bin/" + file, nil
		},
		ListPorts: func() ([]string, error) {
			return ports, nil
		},
	}
}

func newRequest(t *testing.T, image *paths.Path, args ...string) *config.DeploymentRequest {
	p, err := profile.Default()
	require.NoError(t, err)
	p.ImagePath = image.String()
	req, err := config.Resolve(args, p)
	require.NoError(t, err)
	return req
}

func makeImage(t *testing.T) *paths.Path {
	dir, err := paths.MkTempDir("", "fwdeploy-preflight")
	require.NoError(t, err)
	t.Cleanup(func() { dir.RemoveAll() })
	image := dir.Join("firmware.elf")
	require.NoError(t, image.WriteFile([]byte("\x7fELF")))
	return image
}

func requireKind(t *testing.T, err *phase.Error, kind phase.ErrorKind) {
	require.NotNil(t, err)
	require.Equal(t, kind, err.Kind, err.Error())
}

func TestToolNotFound(t *testing.T) {
	image := makeImage(t)
	err := fakeChecker(false).Run(newRequest(t, image, "/dev/null"))
	requireKind(t, err, phase.ToolNotFound)
	require.Contains(t, err.Diagnostic, "avrdude not found")
	require.Contains(t, err.Diagnostic, "apt install avrdude")
	require.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestArtifactMissing(t *testing.T) {
	image := makeImage(t)
	missing := image.Parent().Join("missing.elf")

	err := fakeChecker(true).Run(newRequest(t, missing, "/dev/null"))
	requireKind(t, err, phase.ArtifactMissing)
	require.Contains(t, err.Diagnostic, "cargo build --release")

	err = fakeChecker(true).Run(newRequest(t, image.Parent(), "/dev/null"))
	requireKind(t, err, phase.ArtifactMissing)
	require.Contains(t, err.Diagnostic, "not a regular file")
}

func TestDeviceNotFound(t *testing.T) {
	image := makeImage(t)

	t.Run("missing port lists adapters", func(t *testing.T) {
		checker := fakeChecker(true, "/dev/ttyUSB2", "/dev/ttyS0", "/dev/ttyUSB1", "/dev/ttyUSB1")
		err := checker.Run(newRequest(t, image, "/dev/ttyUSB9"))
		requireKind(t, err, phase.DeviceNotFound)
		require.Contains(t, err.Diagnostic, "/dev/ttyUSB9 not found")
		require.Contains(t, err.Diagnostic, "/dev/ttyUSB1, /dev/ttyUSB2")
		require.NotContains(t, err.Diagnostic, "/dev/ttyS0")
	})

	t.Run("no adapters present", func(t *testing.T) {
		err := fakeChecker(true).Run(newRequest(t, image, "/dev/ttyUSB9"))
		requireKind(t, err, phase.DeviceNotFound)
		require.Contains(t, err.Diagnostic, "is the board connected?")
	})

	t.Run("listing failure", func(t *testing.T) {
		checker := fakeChecker(true)
		checker.ListPorts = func() ([]string, error) { return nil, errors.New("permission denied") }
		err := checker.Run(newRequest(t, image, "/dev/ttyUSB9"))
		requireKind(t, err, phase.DeviceNotFound)
		require.Contains(t, err.Diagnostic, "could not list serial ports: permission denied")
	})

	t.Run("regular file is not a device", func(t *testing.T) {
		err := fakeChecker(true, "/dev/ttyUSB0").Run(newRequest(t, image, image.String()))
		requireKind(t, err, phase.DeviceNotFound)
		require.Contains(t, err.Diagnostic, "not a character device")
		require.Contains(t, err.Diagnostic, "/dev/ttyUSB0")
	})
}

func TestChecksOrder(t *testing.T) {
	// everything is wrong: the tool check must win
	err := fakeChecker(false).Run(newRequest(t, paths.New("does/not/exist.elf"), "/dev/ttyUSB9"))
	requireKind(t, err, phase.ToolNotFound)

	// tool ok, image and port wrong: the artifact check must win
	err = fakeChecker(true).Run(newRequest(t, paths.New("does/not/exist.elf"), "/dev/ttyUSB9"))
	requireKind(t, err, phase.ArtifactMissing)
}

func TestAllChecksPass(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a character device node")
	}
	image := makeImage(t)
	err := fakeChecker(true).Run(newRequest(t, image, "/dev/null"))
	require.Nil(t, err)
}

func TestMatchingPorts(t *testing.T) {
	checker := fakeChecker(true, "/dev/ttyACM0", "/dev/ttyUSB0")
	ports, err := checker.MatchingPorts("")
	require.NoError(t, err)
	require.Equal(t, []string{"/dev/ttyACM0", "/dev/ttyUSB0"}, ports)

	_, err = checker.MatchingPorts("[")
	require.Error(t, err)
}
