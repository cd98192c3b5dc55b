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
Package operation runs a complete metadata generation.

	+-------------+     +-------------+     +-------------+
	|   creator   | --> |  generate   | --> |   status    |
	|   (chain)   |     |  (content)  |     |   (files)   |
	+-------------+     +-------------+     +-------------+
	       ^                                       |
	       |              +-------------+          |
	       +------------- |    state    | <--------+
	                      |  (ledger)   |
	                      +-------------+

🔄 Flow:
 1. Load the publish ledger
 2. Run the creator chain to fill the run context
 3. Fold new posts into posts, pages and the comprehensive
 4. Write every file through the status manager
 5. Save the ledger and the metrics textfile

🔍 Example:

	op, err := operation.New(operation.Options{Config: opts})
	res, err := op.Generate(ctx)

Status performs the same run in dry-run mode: nothing is written and the
ledger is left untouched.
*/
package operation
