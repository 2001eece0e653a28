// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"
	"fmt"
)

// KeyToken is the input/output key of the vault user ID token produced by
// SignIn and consumed by the vault content operations.
const KeyToken = "token"

// ErrCancelled is the error of an operation cancelled before it executed.
var ErrCancelled = fmt.Errorf("operation cancelled: %w", context.Canceled)
