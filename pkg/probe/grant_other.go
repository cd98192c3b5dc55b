// Copyright 2025 walteh LLC
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

//go:build !unix

package probe

import (
	"os"
)

// mode bits approximate access(2) where it is not available
func probeGrant(path string) Grant {
	info, err := os.Stat(path)
	if err != nil {
		return Grant{}
	}
	perm := info.Mode().Perm()
	return Grant{
		Readable:   perm&0o444 != 0,
		Writable:   perm&0o222 != 0,
		Executable: perm&0o111 != 0,
	}
}
