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

package profile

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/atmega128.yaml
var defaultProfile []byte

// DeviceProfile holds the fixed identifiers of the target chip family and
// programmer, together with the defaults and hints that go with that target.
type DeviceProfile struct {
	Name         string `yaml:"name" json:"name"`
	Tool         string `yaml:"tool" json:"tool"`
	ChipID       string `yaml:"chip_id" json:"chip_id"`
	ProgrammerID string `yaml:"programmer_id" json:"programmer_id"`
	ImageFormat  string `yaml:"image_format" json:"image_format"`
	ImagePath    string `yaml:"image_path" json:"image_path"`
	BuildCommand string `yaml:"build_command" json:"-"`
	InstallHint  string `yaml:"install_hint" json:"-"`
	DefaultPort  string `yaml:"default_port" json:"-"`
	DefaultBaud  int    `yaml:"default_baud" json:"-"`
	PortPattern  string `yaml:"port_pattern" json:"-"`
}

// Default returns the profile of the board this tool ships for.
func Default() (*DeviceProfile, error) {
	return Parse(defaultProfile)
}

// Parse decodes a YAML device profile and checks that every field the
// pipeline relies on is set.
func Parse(data []byte) (*DeviceProfile, error) {
	var p DeviceProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding device profile: %w", err)
	}
	required := []struct{ key, value string }{
		{"tool", p.Tool},
		{"chip_id", p.ChipID},
		{"programmer_id", p.ProgrammerID},
		{"image_path", p.ImagePath},
		{"default_port", p.DefaultPort},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, fmt.Errorf("invalid device profile %q: missing %s", p.Name, field.key)
		}
	}
	if p.DefaultBaud <= 0 {
		return nil, fmt.Errorf("invalid device profile %q: default_baud must be positive", p.Name)
	}
	if p.ImageFormat == "" {
		// let avrdude autodetect the file format
		p.ImageFormat = "a"
	}
	return &p, nil
}
