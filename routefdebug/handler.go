// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routefdebug

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tigerwill90/routef"
)

var Version = "v0.1.0"

const headerServer = "Server"

// DebugHandler returns a HandlerFunc that responds with detailed system and request information. Additionally, if a
// "sleep" query parameter is provided with a valid duration, the handler will sleep for the specified duration
// before responding. This function may leak sensitive information and is only useful for debugging purposes, providing
// a comprehensive overview of the incoming request, the decoded typed segments and the system it is running on.
func DebugHandler() routef.HandlerFunc {
	return func(c *routef.Context) {
		// Sleep if "sleep" query parameter is provided with a valid duration
		if sleep := c.Request().URL.Query().Get("sleep"); sleep != "" {
			if d, err := time.ParseDuration(sleep); err == nil {
				time.Sleep(d)
			}
		}

		c.SetHeader(headerServer, fmt.Sprintf("routef %s", Version))
		_ = c.String(http.StatusOK, "%s", dumpSysInfo(c))
	}
}

func dumpSysInfo(c *routef.Context) string {
	req := c.Request()
	state := c.RouteState()
	args := c.Args()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	requestDump, err := httputil.DumpRequest(req, true)
	if err != nil {
		requestDump = []byte("Failed to dump request")
	}

	var builder strings.Builder
	builder.WriteString("Routef: typed path router\n")
	builder.WriteString("Version: ")
	builder.WriteString(Version)
	builder.WriteString("\n\n")
	builder.WriteString("Registered route:\n")
	if r := c.Router(); r != nil {
		for method, pattern := range r.Routes() {
			builder.WriteString("- ")
			if method == "" {
				method = "*"
			}
			builder.WriteString(method)
			builder.WriteString(" ")
			builder.WriteString(pattern)
			builder.WriteByte('\n')
		}
	}

	builder.WriteString("\n\nHandler Information:\n")
	builder.WriteString("Remote Address: ")
	builder.WriteString(req.RemoteAddr)
	builder.WriteByte('\n')
	builder.WriteString("Matched Route: ")
	builder.WriteString(c.Pattern())
	builder.WriteByte('\n')
	builder.WriteString("Route Path: ")
	builder.WriteString(state.Path)
	builder.WriteString(" (position ")
	builder.WriteString(strconv.Itoa(state.Position))
	builder.WriteString(")\n")
	builder.WriteString("Typed Segments:\n")
	if len(args) > 0 {
		for i, v := range args {
			builder.WriteString("- ")
			builder.WriteString(strconv.Itoa(i))
			builder.WriteString(" %")
			builder.WriteByte(v.Kind().Verb())
			builder.WriteString(": ")
			builder.WriteString(v.String())
			builder.WriteByte('\n')
		}
	} else {
		builder.WriteString("- None\n")
	}

	builder.WriteString("\n\nFull Request Dump:\n")
	builder.Write(requestDump)
	builder.WriteString("\nSystem Information:\n")
	builder.WriteString("Time: ")
	builder.WriteString(time.Now().Format(time.RFC3339))
	builder.WriteByte('\n')
	builder.WriteString("Hostname: ")
	builder.WriteString(hostname)
	builder.WriteByte('\n')
	builder.WriteString("OS: ")
	builder.WriteString(runtime.GOOS)
	builder.WriteByte('\n')
	builder.WriteString("Arch: ")
	builder.WriteString(runtime.GOARCH)
	builder.WriteByte('\n')
	builder.WriteString("Go Version: ")
	builder.WriteString(runtime.Version())
	builder.WriteByte('\n')
	builder.WriteString("Pid: ")
	builder.WriteString(strconv.Itoa(os.Getpid()))
	builder.WriteByte('\n')
	builder.WriteString("Number of Goroutines: ")
	builder.WriteString(strconv.Itoa(runtime.NumGoroutine()))
	builder.WriteByte('\n')
	builder.WriteString("Allocated Memory: ")
	builder.WriteString(fmt.Sprintf("%d bytes", memStats.Alloc))
	builder.WriteByte('\n')

	return builder.String()
}
