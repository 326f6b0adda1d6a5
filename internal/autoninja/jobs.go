// SPDX-License-Identifier: MPL-2.0

package autoninja

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultCoreMultiplier is the remote-build parallelism multiplier
// applied per physical core when no override is configured.
const DefaultCoreMultiplier = 80

// JobsParams feeds the job-count heuristics. Cores is the logical CPU
// count; FDLimit is the (already raised) NOFILE soft limit, 0 when
// unknown or not applicable.
type JobsParams struct {
	Cores          int
	GOOS           string
	Machine        string
	CoreMultiplier int
	CoreLimit      int
	// CoreAddition is tri-state: nil means unset, so an explicit zero
	// is honored rather than replaced by the default cushion.
	CoreAddition *int
	FDLimit      uint64
}

// RemoteJobs computes -j for a remote-accelerated build: many jobs per
// core, clamped by the configured limit, platform caps, and the file
// descriptor budget.
func RemoteJobs(p JobsParams) int {
	cores := p.Cores
	if p.Machine == "amd64" || p.Machine == "x86_64" {
		// Assume simultaneous multithreading and therefore half as many
		// physical cores as logical processors.
		cores /= 2
	}

	multiplier := p.CoreMultiplier
	if multiplier <= 0 {
		multiplier = DefaultCoreMultiplier
	}
	j := cores * multiplier

	if p.CoreLimit > 0 && j > p.CoreLimit {
		j = p.CoreLimit
	}

	// On Windows a -j beyond 1000 stops helping; on macOS ninja is bound
	// by FD_SETSIZE.
	if p.GOOS == "darwin" || p.GOOS == "windows" {
		j = min(j, 1000)
	}

	if (p.GOOS == "darwin" || p.GOOS == "linux") && p.FDLimit > 0 {
		j = min(j, int(float64(p.FDLimit)*0.8))
	}
	return j
}

// LocalJobs computes -j for an unaccelerated build: the core count plus
// a small cushion so I/O stalls don't idle the machine.
func LocalJobs(p JobsParams) int {
	addition := 2
	if p.CoreAddition != nil {
		addition = *p.CoreAddition
	}
	return p.Cores + addition
}

// ConvertJToSisoFlags rewrites ninja's -j into siso's -remote_jobs /
// -local_jobs. A local -j larger than the core count is dropped with a
// warning since siso treats local parallelism differently. args is the
// vector without the program name.
func ConvertJToSisoFlags(jValue string, useRemoteexec bool, cores int, args []string, warn io.Writer) []string {
	var localJobs, remoteJobs string
	if useRemoteexec {
		remoteJobs = jValue
	} else {
		if n, err := strconv.Atoi(jValue); err == nil && n <= cores {
			localJobs = jValue
		} else {
			fmt.Fprintf(warn,
				"WARNING: Ignoring -j %s because it is larger than num_cpus=%d. "+
					"Use -local_jobs=%s instead if it's intentional.\n",
				jValue, cores, jValue)
		}
	}

	out := make([]string, 0, len(args))
	jValueIndex := -1
	for i, arg := range args {
		if strings.HasPrefix(arg, "-j") {
			if arg == "-j" {
				jValueIndex = i + 1
			}
			if localJobs != "" {
				out = append(out, "-local_jobs="+localJobs)
			}
			if remoteJobs != "" {
				out = append(out, "-remote_jobs="+remoteJobs)
			}
			continue
		}
		if i == jValueIndex {
			continue
		}
		out = append(out, arg)
	}
	return out
}
