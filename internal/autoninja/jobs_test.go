// SPDX-License-Identifier: MPL-2.0

package autoninja

import (
	"slices"
	"strings"
	"testing"
)

func TestRemoteJobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    JobsParams
		want int
	}{
		{
			name: "smt halves amd64 cores",
			p:    JobsParams{Cores: 16, Machine: "amd64", GOOS: "linux"},
			want: 8 * DefaultCoreMultiplier,
		},
		{
			name: "arm cores are not halved",
			p:    JobsParams{Cores: 8, Machine: "arm64", GOOS: "linux"},
			want: 8 * DefaultCoreMultiplier,
		},
		{
			name: "core limit clamps",
			p:    JobsParams{Cores: 16, Machine: "amd64", GOOS: "linux", CoreLimit: 100},
			want: 100,
		},
		{
			name: "darwin caps at 1000",
			p:    JobsParams{Cores: 64, Machine: "arm64", GOOS: "darwin"},
			want: 1000,
		},
		{
			name: "windows caps at 1000",
			p:    JobsParams{Cores: 128, Machine: "amd64", GOOS: "windows"},
			want: 1000,
		},
		{
			name: "fd limit caps at 80 percent",
			p:    JobsParams{Cores: 16, Machine: "amd64", GOOS: "linux", FDLimit: 500},
			want: 400,
		},
		{
			name: "custom multiplier",
			p:    JobsParams{Cores: 4, Machine: "arm64", GOOS: "linux", CoreMultiplier: 10},
			want: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RemoteJobs(tt.p); got != tt.want {
				t.Errorf("RemoteJobs(%+v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestLocalJobs(t *testing.T) {
	t.Parallel()

	if got := LocalJobs(JobsParams{Cores: 8}); got != 10 {
		t.Errorf("LocalJobs = %d, want 10 (cores + default addition)", got)
	}
	if got := LocalJobs(JobsParams{Cores: 8, CoreAddition: intPtr(5)}); got != 13 {
		t.Errorf("LocalJobs with addition = %d, want 13", got)
	}
	// An explicit zero is a real setting, not a request for the default.
	if got := LocalJobs(JobsParams{Cores: 8, CoreAddition: intPtr(0)}); got != 8 {
		t.Errorf("LocalJobs with zero addition = %d, want 8", got)
	}
}

func intPtr(n int) *int { return &n }

func TestConvertJToSisoFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		jValue   string
		remote   bool
		cores    int
		args     []string
		want     []string
		wantWarn bool
	}{
		{
			name:   "remote build rewrites attached -j",
			jValue: "500",
			remote: true,
			cores:  8,
			args:   []string{"-j500", "chrome"},
			want:   []string{"-remote_jobs=500", "chrome"},
		},
		{
			name:   "remote build rewrites separate -j and drops its value",
			jValue: "500",
			remote: true,
			cores:  8,
			args:   []string{"-j", "500", "chrome"},
			want:   []string{"-remote_jobs=500", "chrome"},
		},
		{
			name:   "local build within cores becomes local_jobs",
			jValue: "4",
			cores:  8,
			args:   []string{"-j4", "base"},
			want:   []string{"-local_jobs=4", "base"},
		},
		{
			name:     "local build beyond cores drops -j with a warning",
			jValue:   "64",
			cores:    8,
			args:     []string{"-j64", "base"},
			want:     []string{"base"},
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var warn strings.Builder
			got := ConvertJToSisoFlags(tt.jValue, tt.remote, tt.cores, tt.args, &warn)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ConvertJToSisoFlags = %q, want %q", got, tt.want)
			}
			if gotWarn := warn.Len() > 0; gotWarn != tt.wantWarn {
				t.Errorf("warning emitted = %v, want %v (%q)", gotWarn, tt.wantWarn, warn.String())
			}
		})
	}
}
