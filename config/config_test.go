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
	"testing"

	"github.com/arduino/arduino-fwdeploy/profile"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	p, err := profile.Default()
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		req, err := Resolve(nil, p)
		require.NoError(t, err)
		require.Equal(t, "/dev/ttyUSB0", req.Port())
		require.Equal(t, 115200, req.BaudRate())
		require.Equal(t, p.ImagePath, req.ImagePath().String())
		require.Equal(t, "m128", req.Profile().ChipID)
	})

	t.Run("port only", func(t *testing.T) {
		req, err := Resolve([]string{"/dev/ttyUSB3"}, p)
		require.NoError(t, err)
		require.Equal(t, "/dev/ttyUSB3", req.Port())
		require.Equal(t, 115200, req.BaudRate())
	})

	t.Run("port and baud", func(t *testing.T) {
		req, err := Resolve([]string{"/dev/ttyACM1", "57600"}, p)
		require.NoError(t, err)
		require.Equal(t, "/dev/ttyACM1", req.Port())
		require.Equal(t, 57600, req.BaudRate())
	})

	t.Run("nonexistent port is accepted", func(t *testing.T) {
		req, err := Resolve([]string{"/dev/does-not-exist"}, p)
		require.NoError(t, err)
		require.Equal(t, "/dev/does-not-exist", req.Port())
	})

	t.Run("bad baud", func(t *testing.T) {
		_, err := Resolve([]string{"/dev/ttyUSB0", "fast"}, p)
		require.ErrorContains(t, err, "invalid baud rate")
		_, err = Resolve([]string{"/dev/ttyUSB0", "0"}, p)
		require.ErrorContains(t, err, "must be positive")
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := Resolve([]string{"a", "1", "b"}, p)
		require.ErrorContains(t, err, "too many arguments")
	})
}

func TestRequestIsNotAliased(t *testing.T) {
	p, err := profile.Default()
	require.NoError(t, err)
	req, err := Resolve(nil, p)
	require.NoError(t, err)

	profileCopy := req.Profile()
	profileCopy.ChipID = "m2560"
	require.Equal(t, "m128", req.Profile().ChipID)

	img := req.ImagePath()
	require.NoError(t, img.ToAbs())
	require.Equal(t, p.ImagePath, req.ImagePath().String())

	p.DefaultPort = "/dev/ttyS9"
	require.Equal(t, "/dev/ttyUSB0", req.Port())
}
