// Copyright 2024 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version tags built binaries with version metadata. Override
// the variables at link time, for instance:
//
//	go build -ldflags \
//	  "-X=github.com/schedsim/schedsim/pkg/version.Version=$(git describe) \
//	   -X=github.com/schedsim/schedsim/pkg/version.Build=$(git rev-parse HEAD)"
package version

import (
	"fmt"
)

// Default values of variables we'll override with the linker.
var (
	// Version is our version as given by 'git describe'.
	Version = "unknown"
	// Build is the SHA1 of the repository we've been built from.
	Build = "unknown"
)

// String returns a one-line version description.
func String() string {
	return fmt.Sprintf("%s (build %s)", Version, Build)
}
