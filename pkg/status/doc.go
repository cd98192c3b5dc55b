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

/*
Package status manages the files a generation run writes.

	            +-------------+
	            |   Manager   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|   Files   |           |  Tracker  |
	|  (atomic) |           | (checksum)|
	+-----------+           +-----------+

🎯 Purpose:
  - Writes comprehensive, page and post files atomically (temp + rename)
  - Compares new content with what is on disk before writing
  - Tracks every file as new, modified or unchanged
  - Supports a dry run that computes every status without writing

🔄 Flow:
 1. A file generator hands content (or a source to copy) to the Manager
 2. The Manager compares it with the destination
 3. Changed content is written, unchanged content is left alone
 4. The outcome is tracked and can be listed or summarised afterwards

Writes are atomic per file but not transactional across files: a failed run
can leave some outputs updated and others not.

🔍 Example:

	mgr := status.New(root, zerolog.Ctx(ctx))
	info, err := mgr.WriteFile(ctx, "meta/comprehensive.json", data)
	if err != nil {
		return err
	}
	fmt.Println(info.Status) // new, modified or unchanged
*/
package status
