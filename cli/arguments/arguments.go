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

package arguments

import (
	"strconv"

	"github.com/spf13/cobra"
)

// Usage is the positional part of the command line: the serial port and
// the baud rate, both optional.
const Usage = "[port] [baud]"

// Validate is the cobra positional arguments validator
var Validate = cobra.MaximumNArgs(2)

// Standard baud rates supported by most serial bootloaders
var baudRates = []int{
	115200,
	57600,
	38400,
	19200,
	9600,
}

// PortLister returns the serial ports matching the target adapter
type PortLister func() ([]string, error)

// Completion suggests the present serial ports for the first argument and
// the standard baud rates for the second one.
func Completion(listPorts PortLister) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			ports, err := listPorts()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return ports, cobra.ShellCompDirectiveNoFileComp
		case 1:
			res := []string{}
			for _, baud := range baudRates {
				res = append(res, strconv.Itoa(baud))
			}
			return res, cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}
}
