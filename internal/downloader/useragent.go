package downloader

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"
)

// coreVersion is the wire-visible version token in the computed User-Agent.
const coreVersion = "0.1.0"

var (
	userAgentOnce sync.Once
	userAgent     string
)

// UserAgent returns the process-lifetime User-Agent string, computed once
// from OS info on first call.
func UserAgent() string {
	userAgentOnce.Do(func() {
		userAgent = fmt.Sprintf("Mozilla/5.0 (%s %s; %s-bit) Threadkeeper/%s",
			runtime.GOOS, runtime.GOARCH, strconv.Itoa(strconv.IntSize), coreVersion)
	})
	return userAgent
}
