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

package feedback

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
)

// ExitCode to be used for Fatal.
type ExitCode int

const (
	// Success (0 is the no-error return code in Unix)
	Success ExitCode = 0

	// ErrGeneric is returned when a deployment phase fails (1 is the
	// reserved "catchall" code in Unix)
	ErrGeneric ExitCode = 1

	// ErrBadArgument is returned when the command line is not valid (7)
	ErrBadArgument ExitCode = 7
)

// OutputFormat is an output format
type OutputFormat int

const (
	// Text is the plain text format, suitable for interactive terminals
	Text OutputFormat = iota
	// JSON format
	JSON
)

var formats = map[string]OutputFormat{
	"json": JSON,
	"text": Text,
}

func (f OutputFormat) String() string {
	for res, format := range formats {
		if format == f {
			return res
		}
	}
	panic("unknown output format")
}

// ParseOutputFormat parses a string and returns the corresponding OutputFormat.
// The boolean returned is true if the string was a valid OutputFormat.
func ParseOutputFormat(in string) (OutputFormat, bool) {
	format, found := formats[in]
	return format, found
}

var (
	format OutputFormat = Text
	stdout io.Writer    = colorable.NewColorableStdout()
	stderr io.Writer    = colorable.NewColorableStderr()
)

// Result is anything more complex than a sentence that needs to be printed
// for the user.
type Result interface {
	fmt.Stringer
	Data() interface{}
}

// ErrorResult is a result embedding also an error. In case of textual output
// the error will be printed on stderr.
type ErrorResult interface {
	Result
	ErrorString() string
}

// SetFormat can be used to change the output format at runtime
func SetFormat(f OutputFormat) {
	format = f
}

// GetFormat returns the output format currently set
func GetFormat() OutputFormat {
	return format
}

// Stdout returns the writer used for the normal output, it supports ANSI
// colors on every platform.
func Stdout() io.Writer {
	return stdout
}

// Stderr returns the writer used for errors, it supports ANSI colors on
// every platform.
func Stderr() io.Writer {
	return stderr
}

// Fatal outputs the errorMsg and exits with status exitCode.
func Fatal(errorMsg string, exitCode ExitCode) {
	if format == Text {
		fmt.Fprintln(stderr, errorMsg)
		os.Exit(int(exitCode))
	}

	type FatalError struct {
		Error string `json:"error"`
	}
	d, _ := json.MarshalIndent(&FatalError{Error: errorMsg}, "", "  ")
	fmt.Fprintln(stdout, string(d))
	os.Exit(int(exitCode))
}

// PrintResult is a convenient wrapper to provide feedback for complex data,
// where the contents can't be just serialized to JSON but requires more
// structure.
func PrintResult(res Result) {
	data, dataErr, err := render(res, format)
	if err != nil {
		Fatal(err.Error(), ErrGeneric)
	}
	if data != "" {
		fmt.Fprintln(stdout, data)
	}
	if dataErr != "" {
		fmt.Fprintln(stderr, dataErr)
	}
}

func render(res Result, f OutputFormat) (data, dataErr string, err error) {
	switch f {
	case JSON:
		d, err := json.MarshalIndent(res.Data(), "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("Error during JSON encoding of the output: %v", err)
		}
		return string(d), "", nil
	case Text:
		if resErr, ok := res.(ErrorResult); ok {
			dataErr = resErr.ErrorString()
		}
		return res.String(), dataErr, nil
	default:
		panic("unknown output format")
	}
}
