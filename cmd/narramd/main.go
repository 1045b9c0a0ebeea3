// Copyright 2026 QuakeWatch
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

// Command narramd normalizes model-written seismic narratives into clean
// markdown and drives the surrounding analysis workflow: fetching the
// earthquake catalog, requesting narratives, generating insights, and
// rendering reports.
package main

func main() {
	Execute()
}
