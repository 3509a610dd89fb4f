/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

// logConfiguration holds the log levels read from the config file. Command
// line flags, when set, take precedence over these.
type logConfiguration struct {
	LogLevel       int
	SearchLogLevel int
	TestLogLevel   int
	LogPath        string
}

func init() {
	Settings.Log.LogPath = "./logs"
}

// LogLevels maps string representations of log levels (as used on the
// command line) to the numerical levels used internally.
var LogLevels = map[string]int{
	"off":      -1,
	"critical": 0,
	"error":    1,
	"warning":  2,
	"notice":   3,
	"info":     4,
	"debug":    5,
}

// setupLogLvl applies every non-zero log level from the decoded config file.
// Values set from the command line only take effect when applied after this.
func setupLogLvl() {
	if Settings.Log.LogLevel != 0 {
		LogLevel = Settings.Log.LogLevel
	}
	if Settings.Log.SearchLogLevel != 0 {
		SearchLogLevel = Settings.Log.SearchLogLevel
	}
	if Settings.Log.TestLogLevel != 0 {
		TestLogLevel = Settings.Log.TestLogLevel
	}
}
