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

package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arduino/arduino-fwdeploy/cli/arguments"
	"github.com/arduino/arduino-fwdeploy/cli/feedback"
	"github.com/arduino/arduino-fwdeploy/cli/globals"
	"github.com/arduino/arduino-fwdeploy/cli/report"
	"github.com/arduino/arduino-fwdeploy/cli/version"
	"github.com/arduino/arduino-fwdeploy/config"
	"github.com/arduino/arduino-fwdeploy/deploy"
	"github.com/arduino/arduino-fwdeploy/preflight"
	"github.com/arduino/arduino-fwdeploy/profile"
	"github.com/arduino/arduino-fwdeploy/programmers"
	"github.com/arduino/arduino-fwdeploy/programmers/avrdude"
	v "github.com/arduino/arduino-fwdeploy/version"
	"github.com/mattn/go-colorable"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	logFile      string
	logFormat    string
)

// NewCommand creates the root command, it deploys and verifies the firmware
func NewCommand() *cobra.Command {
	checker := preflight.NewChecker()
	adapterPorts := func() ([]string, error) {
		prof, err := profile.Default()
		if err != nil {
			return nil, err
		}
		return checker.MatchingPorts(prof.PortPattern)
	}

	fwDeployCli := &cobra.Command{
		Use:   "arduino-fwdeploy " + arguments.Usage,
		Short: "Deploys a prebuilt firmware to the board and verifies it.",
		Long:  "Checks that avrdude, the firmware image and the serial port are available, " +
			"writes the firmware through the serial bootloader and reads it back to verify it.",
		Example: "" +
			"  " + os.Args[0] + "\n" +
			"  " + os.Args[0] + " /dev/ttyUSB1\n" +
			"  " + os.Args[0] + " /dev/ttyUSB1 57600\n",
		Args:              arguments.Validate,
		ValidArgsFunction: arguments.Completion(adapterPorts),
		Run: func(cmd *cobra.Command, args []string) {
			runDeploy(checker, args)
		},
		PersistentPreRun: preRun,
	}

	fwDeployCli.AddCommand(version.NewCommand())

	fwDeployCli.PersistentFlags().StringVar(&outputFormat, "format", "text", "The output format, can be {text|json}.")
	fwDeployCli.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to the file where logs will be written")
	fwDeployCli.PersistentFlags().StringVar(&logFormat, "log-format", "", "The output format for the logs, can be {text|json}.")
	fwDeployCli.PersistentFlags().StringVar(&globals.LogLevel, "log-level", "info", "Messages with this level and above will be logged. Valid levels are: trace, debug, info, warn, error, fatal, panic")
	fwDeployCli.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "Print the logs on the standard output.")

	return fwDeployCli
}

func runDeploy(checker *preflight.Checker, args []string) {
	prof, err := profile.Default()
	if err != nil {
		feedback.Fatal(fmt.Sprintf("Error loading device profile: %s", err), feedback.ErrGeneric)
	}
	req, err := config.Resolve(args, prof)
	if err != nil {
		feedback.Fatal(fmt.Sprintf("Error: %s", err), feedback.ErrBadArgument)
	}
	logrus.Debugf("deploying %s", req)

	// in JSON mode the programmer output goes in the result
	var stdout, stderr io.Writer
	programmerOut := new(bytes.Buffer)
	programmerErr := new(bytes.Buffer)
	if feedback.GetFormat() == feedback.JSON {
		stdout, stderr = programmerOut, programmerErr
	} else {
		stdout, stderr = feedback.Stdout(), feedback.Stderr()
	}

	reporter := report.New(feedback.Stdout(), feedback.Stderr(), feedback.GetFormat())
	pipeline := deploy.NewPipeline(checker, avrdude.New(stdout, stderr, globals.Verbose), reporter)
	status := pipeline.Run(req)

	var output *programmers.ExecOutput
	if feedback.GetFormat() == feedback.JSON {
		output = &programmers.ExecOutput{
			Stdout: programmerOut.String(),
			Stderr: programmerErr.String(),
		}
	}
	feedback.PrintResult(report.NewResult(req, status, output))
	os.Exit(int(report.ExitCode(status)))
}

// Convert the string passed to the `--log-level` option to the corresponding
// logrus formal level.
func toLogLevel(s string) (t logrus.Level, found bool) {
	t, found = map[string]logrus.Level{
		"trace": logrus.TraceLevel,
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}[s]

	return
}

func preRun(cmd *cobra.Command, args []string) {
	// Prepare logging
	if globals.Verbose {
		// if we print on stdout, do it in full colors
		logrus.SetOutput(colorable.NewColorableStdout())
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors: true,
		})
	} else {
		logrus.SetOutput(io.Discard)
	}

	// Normalize the format strings
	logFormat = strings.ToLower(logFormat)
	if logFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to open file for logging: %s\n", logFile)
			os.Exit(int(feedback.ErrBadArgument))
		}

		// Use a hook so we don't get color codes in the log file
		if logFormat == "json" {
			logrus.AddHook(lfshook.NewHook(file, &logrus.JSONFormatter{}))
		} else {
			logrus.AddHook(lfshook.NewHook(file, &logrus.TextFormatter{}))
		}
	}

	// Configure logging filter
	if lvl, found := toLogLevel(globals.LogLevel); !found {
		feedback.Fatal(fmt.Sprintf("Invalid option for --log-level: %s", globals.LogLevel), feedback.ErrBadArgument)
	} else {
		logrus.SetLevel(lvl)
	}

	//
	// Prepare the Feedback system
	//

	// normalize the format strings
	outputFormat = strings.ToLower(outputFormat)
	// check the right output format was passed
	format, found := feedback.ParseOutputFormat(outputFormat)
	if !found {
		feedback.Fatal(fmt.Sprintf("Invalid output format: %s", outputFormat), feedback.ErrBadArgument)
	}

	// use the output format to configure the Feedback
	feedback.SetFormat(format)

	logrus.Info(v.VersionInfo)

	if outputFormat != "text" {
		cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
			logrus.Warn("Calling help on JSON format")
			feedback.Fatal("Invalid Call : should show Help, but it is available only in TEXT mode.", feedback.ErrBadArgument)
		})
	}
}
