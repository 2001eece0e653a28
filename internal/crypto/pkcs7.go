// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "bytes"

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}

	return data[:len(data)-n], nil
}
