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

package gcs

import (
	"context"
	"encoding/hex"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	quillsops "github.com/inkline-labs/quill/database/sops"
	"github.com/inkline-labs/quill/database/types"
)

const contentObjectPrefix = "content/"

func contentObjectName(digest []byte) string {
	return contentObjectPrefix + hex.EncodeToString(digest)
}

// PutContent stores raw content under its digest. When encryption is
// enabled, the object body is SOPS-encrypted before upload.
func (d *ContentStoreGCS) PutContent(digest []byte, raw []byte) error {
	body := raw
	if d.encrypt {
		ciphertext, err := quillsops.Encrypt(raw)
		if err != nil {
			d.logger.Errorf("failed to encrypt content: %v", err)
			return err
		}
		body = ciphertext
	}

	w := d.bucket.Object(contentObjectName(digest)).NewWriter(
		context.Background(),
	)
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		d.logger.Errorf("failed to write content object: %v", err)
		return err
	}
	if err := w.Close(); err != nil {
		d.logger.Errorf("failed to close writer: %v", err)
		return err
	}
	return nil
}

// GetContent retrieves raw content by digest, decrypting when encryption
// is enabled.
func (d *ContentStoreGCS) GetContent(digest []byte) ([]byte, error) {
	r, err := d.bucket.Object(contentObjectName(digest)).NewReader(
		context.Background(),
	)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, types.ErrContentKeyNotFound
		}
		d.logger.Errorf("failed to read content object: %v", err)
		return nil, err
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		d.logger.Errorf("failed to read content object body: %v", err)
		return nil, err
	}

	if d.encrypt {
		plaintext, err := quillsops.Decrypt(body)
		if err != nil {
			d.logger.Errorf("failed to decrypt content: %v", err)
			return nil, err
		}
		return plaintext, nil
	}
	return body, nil
}
