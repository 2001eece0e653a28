// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

const notAvailable = "N/A"

// AppBuildInfo is the build metadata stamped into the vaultctl binary with
// -ldflags. Empty values read as "N/A".
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: orNotAvailable(buildVersion),
		buildDate:    orNotAvailable(buildDate),
		buildCommit:  orNotAvailable(buildCommit),
	}
}

func (a AppBuildInfo) BuildVersion() string {
	return orNotAvailable(a.buildVersion)
}

func (a AppBuildInfo) BuildDate() string {
	return orNotAvailable(a.buildDate)
}

func (a AppBuildInfo) BuildCommit() string {
	return orNotAvailable(a.buildCommit)
}

// String renders the three fields on one line for version output.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("version %s (commit %s, built %s)", a.BuildVersion(), a.BuildCommit(), a.BuildDate())
}

func orNotAvailable(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}
