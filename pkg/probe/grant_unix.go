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

//go:build unix

package probe

import (
	"golang.org/x/sys/unix"
)

func probeGrant(path string) Grant {
	return Grant{
		Readable:   accessible(path, unix.R_OK),
		Writable:   accessible(path, unix.W_OK),
		Executable: accessible(path, unix.X_OK),
	}
}

func accessible(path string, mode uint32) bool {
	return unix.Access(path, mode) == nil
}
