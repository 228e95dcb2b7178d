// Copyright 2025 Inkline Labs
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

package types

const (
	ContentBlobKeyPrefix = "c"
)

// ContentBlobKey builds the content store key for raw submission content
// addressed by its digest
func ContentBlobKey(digest []byte) []byte {
	key := []byte(ContentBlobKeyPrefix)
	key = append(key, digest...)
	return key
}
